package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/careerflow/pkg/domain"
)

type sessionKey struct{}

// sessionFrom returns the session resolved from the request cookie, if any.
func sessionFrom(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*domain.Session)
	return sess, ok && sess != nil
}

// loadSession resolves the session cookie. A missing, corrupt or expired token,
// or a token naming a deleted session, is the same as having no session.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sessionID, err := s.tokens.Parse(cookie.Value)
		if err != nil {
			s.logger.Debug("ignoring session cookie", "err", err)
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.sessions.Load(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				s.flows.drop(sessionID)
			} else {
				s.logger.Warn("failed to load session", "session_id", sessionID, "err", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// gateMiddleware redirects page requests the session's stage flags do not allow.
func (s *Server) gateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var flags *domain.StageFlags
		sessionID := ""
		if sess, ok := sessionFrom(r.Context()); ok {
			flags = &sess.Flags
			sessionID = sess.ID
		}

		decision := s.gate.Evaluate(r.URL.Path, flags)
		if s.hooks.OnGate != nil {
			s.hooks.OnGate(r.Context(), &domain.GateEvent{
				EventBase: domain.NewEventBase(domain.EventGate, sessionID),
				Path:      r.URL.Path,
				Redirect:  decision.Target,
			})
		}

		if !decision.Allowed() {
			s.logger.Debug("gate redirect", "path", r.URL.Path, "target", decision.Target, "session_id", sessionID)
			http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession rejects API calls without a valid session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sessionFrom(r.Context()); !ok {
			s.writeProblem(w, http.StatusUnauthorized, errNoSession, map[string]any{"redirect": s.gate.LoginPath()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireStage applies the gate rule of stage's page to an API call.
func (s *Server) requireStage(stage domain.Stage) func(http.Handler) http.Handler {
	path := stage.Path()
	for _, sp := range s.gate.Stages() {
		if sp.Stage == stage {
			path = sp.Path
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := sessionFrom(r.Context())
			decision := s.gate.Evaluate(path, &sess.Flags)
			if !decision.Allowed() {
				s.writeProblem(w, http.StatusForbidden, errStageLocked, map[string]any{
					"stage":    stage,
					"redirect": decision.Target,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
