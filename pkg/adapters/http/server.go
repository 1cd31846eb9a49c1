package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/careerflow"
	"github.com/aretw0/careerflow/internal/logging"
	"github.com/aretw0/careerflow/pkg/batcher"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/gate"
	"github.com/aretw0/careerflow/pkg/orchestrator"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/aretw0/careerflow/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "session"

// MaxResumeSize bounds resume uploads.
const MaxResumeSize = 10 << 20

// TokenService signs session IDs into cookie values and back.
type TokenService interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (string, error)
}

// Server serves the assessment API and gates the stage pages.
type Server struct {
	sessions *session.Manager
	tokens   TokenService
	backend  ports.Backend

	gate    *gate.Gate
	flows   *flowRegistry
	hooks   domain.LifecycleHooks
	metrics http.Handler
	logger  *slog.Logger
	secure  bool

	pageSize int
	total    int
	topN     int
}

// Option configures the Server.
type Option func(*Server)

// WithHooks registers lifecycle hooks for gate decisions and assessment progress.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGate replaces the default stage gate.
func WithGate(g *gate.Gate) Option {
	return func(s *Server) {
		s.gate = g
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithQuestionnaire sets the page size and length of the soft-skills questionnaire.
func WithQuestionnaire(pageSize, total int) Option {
	return func(s *Server) {
		s.pageSize = pageSize
		s.total = total
	}
}

// WithTopDomains sets how many ranked domains are walked.
func WithTopDomains(n int) Option {
	return func(s *Server) {
		s.topN = n
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) {
		s.secure = secure
	}
}

// NewServer creates a Server over the session manager and the assessment backend.
func NewServer(sessions *session.Manager, tokens TokenService, backend ports.Backend, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		tokens:   tokens,
		backend:  backend,
		flows:    newFlowRegistry(),
		logger:   logging.NewNop(),
		pageSize: batcher.DefaultPageSize,
		total:    batcher.DefaultTotal,
		topN:     orchestrator.DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gate == nil {
		s.gate = gate.New(gate.WithBypass("/info"))
	}
	return s
}

// NewHandler creates the HTTP handler with the default options.
func NewHandler(sessions *session.Manager, tokens TokenService, backend ports.Backend, opts ...Option) http.Handler {
	return NewServer(sessions, tokens, backend, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.loadSession)
	r.Use(s.gateMiddleware)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	// Stage pages render elsewhere; once the gate lets a request through they only
	// report which page was reached.
	r.Get("/", s.GetPage)
	r.Get(s.gate.LoginPath(), s.GetPage)
	for _, sp := range s.gate.Stages() {
		r.Get(sp.Path, s.GetPage)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Post("/logout", s.Logout)
			r.Get("/session", s.GetSession)

			r.With(s.requireStage(domain.StageResume)).Post("/resume", s.UploadResume)
			r.With(s.requireStage(domain.StageJobDescription)).Post("/jd", s.SubmitJobDescription)

			r.Route("/soft-skills", func(r chi.Router) {
				r.Use(s.requireStage(domain.StageSoftSkills))
				r.Get("/", s.GetSoftSkills)
				r.Post("/answers", s.AnswerSoftSkills)
				r.Post("/retry", s.RetrySoftSkills)
			})

			r.Route("/technical", func(r chi.Router) {
				r.Use(s.requireStage(domain.StageTechnical))
				r.Get("/", s.GetTechnical)
				r.Post("/start", s.StartTechnical)
				r.Post("/choice", s.ChooseTechnical)
				r.Post("/back", s.BackTechnical)
				r.Post("/retry", s.RetryTechnical)
			})

			r.With(s.requireStage(domain.StageResult)).Get("/result", s.GetResult)
		})
	})

	return r
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "careerflow-http",
		"version": strings.TrimSpace(careerflow.Version),
	})
}

// GetPage reports the page a request was allowed to reach.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"path": r.URL.Path}
	if stage, ok := s.gate.StageFor(r.URL.Path); ok {
		resp["stage"] = string(stage)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// withSession runs fn under the session lock with a fresh copy of the session.
func (s *Server) withSession(ctx context.Context, sessionID string, fn func(context.Context, *domain.Session) error) error {
	return s.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				s.flows.drop(sessionID)
			}
			return err
		}
		return fn(ctx, sess)
	})
}
