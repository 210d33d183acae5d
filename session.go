package scorecast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-scorecast/pkg/form"
	"github.com/goliatone/go-scorecast/pkg/predict"
)

// Session is one user's form store and submission controller. Sessions never
// share mutable state.
type Session struct {
	ID         string
	CSRF       string
	Store      *form.Store
	Controller *predict.Controller

	mu       sync.Mutex
	lastSeen time.Time
}

// NewSession seeds a store from the schema defaults and attaches a
// controller. Observers receive every state transition of the session.
func (a *App) NewSession(observers ...func(predict.State)) *Session {
	id := uuid.NewString()
	opts := []predict.ControllerOption{
		predict.WithControllerLogger(a.logger.With(zap.String("session", id))),
	}
	for _, fn := range observers {
		opts = append(opts, predict.WithObserver(fn))
	}
	return &Session{
		ID:         id,
		CSRF:       uuid.NewString(),
		Store:      form.NewStore(a.schema),
		Controller: predict.NewController(a.predictor, opts...),
		lastSeen:   time.Now(),
	}
}

// Submit hands the current snapshot to the controller.
func (s *Session) Submit(ctx context.Context) (predict.State, bool) {
	return s.Controller.Submit(ctx, s.Store.Snapshot())
}

// Touch records activity.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen reports the most recent activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
