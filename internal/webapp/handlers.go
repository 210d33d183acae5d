package webapp

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecast"
	"github.com/goliatone/go-scorecast/pkg/render"
)

var errBadToken = errors.New("webapp: form token mismatch")

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)
	s.renderPage(w, r, sess, http.StatusOK, scorecast.ViewOptions{})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.formSession(w, r)
	if !ok {
		return
	}

	// Every posted field is checked before any reaches the store, so a
	// rejected post leaves the session untouched.
	accepted := make(map[string]string)
	entered := make(map[string]string)
	var rejections []error
	for _, attr := range s.app.Schema().Attributes() {
		if _, present := r.PostForm[attr.Key]; !present {
			continue
		}
		raw := r.PostForm.Get(attr.Key)
		entered[attr.Key] = raw
		value, err := attr.Coerce(raw)
		if err == nil {
			err = attr.Validate(value)
		}
		if err != nil {
			rejections = append(rejections, err)
			continue
		}
		accepted[attr.Key] = raw
	}

	if len(rejections) > 0 {
		s.renderPage(w, r, sess, http.StatusUnprocessableEntity, scorecast.ViewOptions{
			Errors:  render.ValidationErrors(rejections...),
			Entered: entered,
		})
		return
	}

	for _, attr := range s.app.Schema().Attributes() {
		raw, ok := accepted[attr.Key]
		if !ok {
			continue
		}
		if _, err := sess.Store.SetField(attr.Key, raw); err != nil {
			s.logger.Error("store accepted field", zap.String("field", attr.Key), zap.Error(err))
			http.Error(w, "update failed", http.StatusInternalServerError)
			return
		}
	}

	if _, accepted := sess.Submit(r.Context()); !accepted {
		s.logger.Debug("submit ignored while pending", zap.String("session", sess.ID))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.formSession(w, r)
	if !ok {
		return
	}
	sess.Store.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.formSession(w, r); !ok {
		return
	}
	variant := r.PostForm.Get("variant")
	if variant == "" {
		variant = render.ToggleVariant(s.currentVariant(r))
	}
	if _, err := s.app.Themes().Select("", variant); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    variant,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// formSession parses the post and checks the form token against the session.
func (s *Server) formSession(w http.ResponseWriter, r *http.Request) (*scorecast.Session, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return nil, false
	}
	sess := s.sessions.Resolve(w, r)
	token := r.PostForm.Get(render.CSRFFieldName)
	if sess.CSRF == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRF)) != 1 {
		s.logger.Debug("rejected form post", zap.String("session", sess.ID), zap.Error(errBadToken))
		http.Error(w, errBadToken.Error(), http.StatusForbidden)
		return nil, false
	}
	return sess, true
}

func (s *Server) currentVariant(r *http.Request) string {
	if cookie, err := r.Cookie(ThemeCookie); err == nil {
		if _, err := s.app.Themes().Select("", cookie.Value); err == nil {
			return cookie.Value
		}
	}
	return s.variant
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, sess *scorecast.Session, status int, opts scorecast.ViewOptions) {
	opts.Action = "/predict"
	opts.Variant = s.currentVariant(r)
	out, contentType, err := s.app.Render(r.Context(), sess, rendererName, opts)
	if err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
