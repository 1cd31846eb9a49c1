package careerflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/careerflow/internal/logging"
	"github.com/aretw0/careerflow/pkg/adapters/memory"
	"github.com/aretw0/careerflow/pkg/batcher"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/gate"
	"github.com/aretw0/careerflow/pkg/orchestrator"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/aretw0/careerflow/pkg/session"
	"github.com/aretw0/careerflow/pkg/walker"
)

// Engine is the high-level entry point of the careerflow library.
// It wires the session manager, the stage gate and the assessment backend,
// and builds questionnaire and technical flows bound to a session.
type Engine struct {
	backend  ports.Backend
	store    ports.SessionStore
	locker   ports.DistributedLocker
	sessions *session.Manager
	gate     *gate.Gate
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	pageSize int
	total    int
	topN     int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSessionStore sets where sessions are persisted (default: in memory).
func WithSessionStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGate replaces the default stage gate.
func WithGate(g *gate.Gate) Option {
	return func(e *Engine) {
		e.gate = g
	}
}

// WithQuestionnaire sets the page size and length of the soft-skills questionnaire.
func WithQuestionnaire(pageSize, total int) Option {
	return func(e *Engine) {
		e.pageSize = pageSize
		e.total = total
	}
}

// WithTopDomains sets how many ranked domains are walked.
func WithTopDomains(n int) Option {
	return func(e *Engine) {
		e.topN = n
	}
}

// New initializes an Engine over an assessment backend.
func New(backend ports.Backend, opts ...Option) (*Engine, error) {
	if backend == nil {
		return nil, errors.New("careerflow: backend is required")
	}
	e := &Engine{
		backend:  backend,
		logger:   logging.NewNop(),
		pageSize: batcher.DefaultPageSize,
		total:    batcher.DefaultTotal,
		topN:     orchestrator.DefaultTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.gate == nil {
		e.gate = gate.New()
	}

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)
	return e, nil
}

// Backend returns the assessment backend.
func (e *Engine) Backend() ports.Backend {
	return e.backend
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Gate returns the stage gate.
func (e *Engine) Gate() *gate.Gate {
	return e.gate
}

// Hooks returns the registered lifecycle hooks.
func (e *Engine) Hooks() domain.LifecycleHooks {
	return e.hooks
}

// StartSession creates a session for email.
func (e *Engine) StartSession(ctx context.Context, email string) (*domain.Session, error) {
	return e.sessions.Start(ctx, email)
}

// Evaluate runs the stage gate for the session's current flags.
// An empty or unknown session ID is evaluated as "no session".
func (e *Engine) Evaluate(ctx context.Context, path, sessionID string) (gate.Decision, error) {
	if sessionID == "" {
		return e.gate.Evaluate(path, nil), nil
	}
	sess, err := e.sessions.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return e.gate.Evaluate(path, nil), nil
	}
	if err != nil {
		return gate.Decision{}, err
	}
	return e.gate.Evaluate(path, &sess.Flags), nil
}

// CompleteStage marks a document stage (resume or job description) done.
func (e *Engine) CompleteStage(ctx context.Context, sessionID string, stage domain.Stage) (*domain.Session, error) {
	return e.sessions.MarkStage(ctx, sessionID, stage)
}

// Questionnaire builds the soft-skills batcher of a session. Completing it marks
// the soft-skills stage. Call Load before the first answer.
func (e *Engine) Questionnaire(sessionID string) (*batcher.Batcher, error) {
	return batcher.New(sessionID, e.backend, e.backend,
		batcher.WithPageSize(e.pageSize),
		batcher.WithTotal(e.total),
		batcher.WithHooks(e.hooks),
		batcher.WithLogger(e.logger),
		batcher.WithStageMarker(func(ctx context.Context, id string) error {
			_, err := e.sessions.MarkStage(ctx, id, domain.StageSoftSkills)
			return err
		}),
	)
}

// Technical builds the multi-domain orchestrator of a session. Its results are
// saved in the session, which marks the technical stage. Call Start first.
func (e *Engine) Technical(sessionID string) *orchestrator.Orchestrator {
	return orchestrator.New(sessionID, e.backend, e.backend,
		orchestrator.WithTopN(e.topN),
		orchestrator.WithHooks(e.hooks),
		orchestrator.WithLogger(e.logger),
		orchestrator.WithResultSink(e.sessions.SaveResults),
	)
}

// Walk builds a standalone walker over one domain's tree.
func (e *Engine) Walk(ctx context.Context, domainName string) (*walker.Walker, error) {
	tree, err := e.backend.FetchDomainTree(ctx, domainName)
	if err != nil {
		return nil, err
	}
	return walker.New(domainName, tree,
		walker.WithHooks(e.hooks),
		walker.WithLogger(e.logger),
	)
}
