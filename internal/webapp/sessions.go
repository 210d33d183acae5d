package webapp

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecast"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "scorecast_session"

// Sessions keeps one scorecast.Session per browser. Idle sessions are swept
// whenever a new one is created.
type Sessions struct {
	app    *scorecast.App
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu    sync.Mutex
	items map[string]*scorecast.Session
}

func newSessions(app *scorecast.App, ttl time.Duration, now func() time.Time, logger *zap.Logger) *Sessions {
	return &Sessions{
		app:    app,
		ttl:    ttl,
		now:    now,
		logger: logger,
		items:  make(map[string]*scorecast.Session),
	}
}

// Resolve returns the session named by the request cookie, creating one and
// setting the cookie when the cookie is missing or the session expired.
func (s *Sessions) Resolve(w http.ResponseWriter, r *http.Request) *scorecast.Session {
	now := s.now()
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		sess, ok := s.items[cookie.Value]
		s.mu.Unlock()
		if ok && !s.expired(sess, now) {
			sess.Touch(now)
			return sess
		}
	}

	sess := s.app.NewSession()
	sess.Touch(now)

	s.mu.Lock()
	swept := s.sweepLocked(now)
	s.items[sess.ID] = sess
	s.mu.Unlock()

	if swept > 0 {
		s.logger.Debug("sessions swept", zap.Int("count", swept))
	}
	s.logger.Debug("session created", zap.String("session", sess.ID))

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Sessions) expired(sess *scorecast.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen()) > s.ttl
}

func (s *Sessions) sweepLocked(now time.Time) int {
	swept := 0
	for id, sess := range s.items {
		if s.expired(sess, now) {
			delete(s.items, id)
			swept++
		}
	}
	return swept
}
