package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/careerflow/internal/logging"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/aretw0/careerflow/pkg/walker"
)

// DefaultTopN is the number of ranked domains walked per session.
const DefaultTopN = 3

type op uint8

const (
	opNone op = iota
	opDomains
	opTree
	opPersist
)

func (o op) String() string {
	switch o {
	case opDomains:
		return "fetch domains"
	case opTree:
		return "fetch tree"
	case opPersist:
		return "persist results"
	}
	return ""
}

// ResultSink persists the aggregated results of a session.
type ResultSink func(ctx context.Context, sessionID string, results domain.Results) error

// Orchestrator walks the decision tree of each top-ranked domain, one after the other,
// and aggregates one outcome per domain. It is not safe for concurrent use.
type Orchestrator struct {
	sessionID string
	matcher   ports.DomainMatcher
	trees     ports.TreeSource
	topN      int

	candidates []domain.DomainScore
	pos        int
	walker     *walker.Walker
	results    domain.Results
	started    bool
	done       bool

	pending op
	lastErr error

	sink       ResultSink
	completion func(domain.Results)
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTopN limits the number of domains walked.
func WithTopN(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.topN = n
		}
	}
}

// WithResultSink persists the results once every domain has an outcome.
func WithResultSink(sink ResultSink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithCompletion registers a callback receiving the final results.
func WithCompletion(fn func(domain.Results)) Option {
	return func(o *Orchestrator) {
		o.completion = fn
	}
}

// WithHooks registers lifecycle hooks. They are forwarded to the walker.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithLogger configures a logger for the Orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator for a session. Call Start to fetch the ranked domains.
func New(sessionID string, matcher ports.DomainMatcher, trees ports.TreeSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sessionID: sessionID,
		matcher:   matcher,
		trees:     trees,
		topN:      DefaultTopN,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start fetches the ranked domains and positions the walker on the first tree.
// An empty ranking completes immediately with empty results.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.done {
		return domain.ErrAssessmentComplete
	}
	if o.pending != opNone {
		return o.Retry(ctx)
	}
	if o.started {
		return nil
	}
	return o.fetchDomains(ctx)
}

// Choose answers the current question of the current domain. When the walk reaches a
// terminal outcome it is recorded and the next domain's tree is loaded.
func (o *Orchestrator) Choose(ctx context.Context, choice domain.Choice) (walker.Step, error) {
	if o.done {
		return walker.Step{}, domain.ErrAssessmentComplete
	}
	if o.pending != opNone {
		return walker.Step{}, fmt.Errorf("%w: %v", ErrRetryPending, o.lastErr)
	}
	if !o.started || o.walker == nil {
		return walker.Step{}, ErrNotStarted
	}

	step, err := o.walker.Choose(ctx, choice)
	if err != nil {
		return step, err
	}
	if step.Finished {
		o.record(ctx, domain.DomainResult{Domain: o.walker.Domain(), Outcome: step.Outcome})
		o.pos++
		return step, o.advance(ctx)
	}
	return step, nil
}

// Back undoes the last answer within the current domain.
func (o *Orchestrator) Back(ctx context.Context) bool {
	if o.done || o.pending != opNone || o.walker == nil {
		return false
	}
	return o.walker.Back(ctx)
}

// Retry re-runs the operation that failed last.
func (o *Orchestrator) Retry(ctx context.Context) error {
	switch o.pending {
	case opDomains:
		return o.fetchDomains(ctx)
	case opTree:
		return o.advance(ctx)
	case opPersist:
		return o.finish(ctx)
	}
	return domain.ErrNothingToRetry
}

// Current returns the domain being walked and its current question.
func (o *Orchestrator) Current() (string, domain.QuestionNode, bool) {
	if o.done || o.pending != opNone || o.walker == nil || o.pos >= len(o.candidates) {
		return "", domain.QuestionNode{}, false
	}
	n, ok := o.walker.Node()
	return o.walker.Domain(), n, ok
}

// Progress returns the 1-based index of the current domain and the number of domains.
func (o *Orchestrator) Progress() (int, int) {
	return min(o.pos+1, len(o.candidates)), len(o.candidates)
}

// Candidates returns the ranked domains being walked.
func (o *Orchestrator) Candidates() []domain.DomainScore {
	return append([]domain.DomainScore(nil), o.candidates...)
}

// Results returns the outcomes recorded so far, in candidate order.
func (o *Orchestrator) Results() domain.Results {
	return o.results.Clone()
}

// Done reports whether every domain has an outcome and the results were persisted.
func (o *Orchestrator) Done() bool {
	return o.done
}

// Err returns the pending failure, if any.
func (o *Orchestrator) Err() error {
	return o.lastErr
}

// State is a copy of the orchestrator position.
type State struct {
	SessionID string               `json:"session_id"`
	Domain    string               `json:"domain,omitempty"`
	Index     int                  `json:"index"`
	Count     int                  `json:"count"`
	Node      *domain.QuestionNode `json:"-"`
	Question  string               `json:"question,omitempty"`
	CanGoBack bool                 `json:"can_go_back"`
	Results   domain.OutcomeMap    `json:"results"`
	Pending   string               `json:"pending,omitempty"`
	Done      bool                 `json:"done"`
}

// Snapshot returns a copy of the current position.
func (o *Orchestrator) Snapshot() State {
	idx, count := o.Progress()
	s := State{
		SessionID: o.sessionID,
		Index:     idx,
		Count:     count,
		Results:   domain.OutcomeMap(o.results.Clone()),
		Pending:   o.pending.String(),
		Done:      o.done,
	}
	if name, node, ok := o.Current(); ok {
		s.Domain = name
		s.Node = &node
		s.Question = node.Question
		s.CanGoBack = o.walker.State().Depth() > 0
	}
	return s
}

func (o *Orchestrator) fetchDomains(ctx context.Context) error {
	ranked, err := o.matcher.FetchTopDomains(ctx, o.sessionID)
	if err != nil {
		return o.fail(opDomains, "", err)
	}
	o.clearPending()
	o.started = true

	if len(ranked) > o.topN {
		ranked = ranked[:o.topN]
	}
	o.candidates = append([]domain.DomainScore(nil), ranked...)
	o.logger.Info("technical assessment started", "session_id", o.sessionID, "domains", len(o.candidates))
	return o.advance(ctx)
}

// advance loads the tree of the domain at pos, skipping rejected trees.
func (o *Orchestrator) advance(ctx context.Context) error {
	for o.pos < len(o.candidates) {
		name := o.candidates[o.pos].Domain
		tree, err := o.trees.FetchDomainTree(ctx, name)
		if err == nil {
			err = o.resetWalker(name, tree)
		}
		switch {
		case err == nil:
			o.clearPending()
			return nil
		case errors.Is(err, domain.ErrInvalidTree), errors.Is(err, domain.ErrNoRoot):
			o.logger.Warn("domain tree rejected", "session_id", o.sessionID, "domain", name, "error", err)
			o.record(ctx, domain.DomainResult{Domain: name, Outcome: domain.OutcomeUndetermined, Reason: err.Error()})
			o.pos++
		default:
			return o.fail(opTree, name, err)
		}
	}
	return o.finish(ctx)
}

func (o *Orchestrator) resetWalker(name string, tree *domain.DecisionTree) error {
	if o.walker != nil {
		return o.walker.Reset(name, tree)
	}
	w, err := walker.New(name, tree,
		walker.WithLogger(o.logger),
		walker.WithHooks(o.hooks),
		walker.WithSessionID(o.sessionID),
	)
	if err != nil {
		return err
	}
	o.walker = w
	return nil
}

func (o *Orchestrator) record(ctx context.Context, res domain.DomainResult) {
	o.results.Set(res)
	o.logger.Info("domain outcome recorded", "session_id", o.sessionID, "domain", res.Domain, "outcome", res.Outcome)
	if o.hooks.OnDomainComplete != nil {
		o.hooks.OnDomainComplete(ctx, &domain.DomainEvent{
			EventBase: domain.NewEventBase(domain.EventDomainComplete, o.sessionID),
			Result:    res,
		})
	}
}

func (o *Orchestrator) finish(ctx context.Context) error {
	results := o.results.Clone()
	if o.sink != nil {
		if err := o.sink(ctx, o.sessionID, results); err != nil {
			return o.fail(opPersist, "", err)
		}
	}
	o.clearPending()
	o.done = true
	o.logger.Info("technical assessment complete", "session_id", o.sessionID, "domains", len(results))
	if o.hooks.OnAssessmentComplete != nil {
		o.hooks.OnAssessmentComplete(ctx, &domain.CompletionEvent{
			EventBase: domain.NewEventBase(domain.EventAssessmentComplete, o.sessionID),
			Results:   results,
		})
	}
	if o.completion != nil {
		o.completion(results)
	}
	return nil
}

func (o *Orchestrator) clearPending() {
	o.pending, o.lastErr = opNone, nil
}

func (o *Orchestrator) fail(p op, domainName string, err error) error {
	o.pending = p
	o.lastErr = &TransientError{Op: p.String(), Domain: domainName, Err: err}
	o.logger.Warn("technical assessment operation failed", "session_id", o.sessionID, "op", p.String(), "domain", domainName, "error", err)
	return o.lastErr
}
