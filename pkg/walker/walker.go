package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/careerflow/internal/logging"
	"github.com/aretw0/careerflow/pkg/domain"
)

// ErrNotLoaded is returned when the walker has no tree to walk.
var ErrNotLoaded = errors.New("walker: no tree loaded")

// Step describes the walker position after a transition.
type Step struct {
	// Finished is true once a terminal outcome was reached.
	Finished bool
	// Node is the current question when not finished.
	Node domain.QuestionNode
	// Outcome is the terminal outcome when finished.
	Outcome domain.Outcome
}

// Walker walks one decision tree from its detected root to a terminal outcome.
// It is not safe for concurrent use.
type Walker struct {
	tree     *domain.DecisionTree
	state    *domain.WalkState
	outcome  domain.Outcome
	finished bool

	sessionID  string
	onComplete func(domain.Outcome)
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger configures a logger for the Walker.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// WithHooks registers lifecycle hooks (OnWalkStep).
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Walker) {
		w.hooks = hooks
	}
}

// WithOnComplete registers a callback fired once per walk with the terminal outcome.
func WithOnComplete(fn func(domain.Outcome)) Option {
	return func(w *Walker) {
		w.onComplete = fn
	}
}

// WithSessionID tags emitted events with the session.
func WithSessionID(id string) Option {
	return func(w *Walker) {
		w.sessionID = id
	}
}

// New creates a Walker positioned at the root of tree.
// It fails with domain.ErrNoRoot when no root node can be found.
func New(domainName string, tree *domain.DecisionTree, opts ...Option) (*Walker, error) {
	w := &Walker{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.Reset(domainName, tree); err != nil {
		return nil, err
	}
	return w, nil
}

// Reset replaces the tree and restarts the walk from its root.
// Nothing of the previous walk survives, even when Reset fails.
func (w *Walker) Reset(domainName string, tree *domain.DecisionTree) error {
	w.tree = nil
	w.state = nil
	w.outcome = ""
	w.finished = false

	root := DetectRoot(tree)
	if _, ok := tree.Node(root); root == "" || !ok {
		return fmt.Errorf("%w: domain %q", domain.ErrNoRoot, domainName)
	}

	w.tree = tree
	w.state = domain.NewWalkState(domainName, root)
	w.logger.Debug("walk started", "domain", domainName, "root", root)
	return nil
}

// Choose answers the current question and moves to the next node or a terminal outcome.
func (w *Walker) Choose(ctx context.Context, choice domain.Choice) (Step, error) {
	if w.state == nil {
		return Step{}, ErrNotLoaded
	}
	if w.finished {
		return w.step(), domain.ErrWalkFinished
	}
	if choice != domain.Yes && choice != domain.No {
		return w.step(), fmt.Errorf("%w: %q", domain.ErrInvalidChoice, choice)
	}

	from := w.state.CurrentNodeID
	node, _ := w.tree.Node(from)
	next := node.Branch(choice)

	switch next.Kind {
	case domain.RefNone:
		w.logger.Debug("dead end", "domain", w.state.Domain, "node", from, "choice", choice)
		w.finish(ctx, from, choice, domain.OutcomeUndetermined)
	case domain.RefReach:
		w.finish(ctx, from, choice, domain.OutcomeFromRoles(w.tree.Roles(next.ID)))
	default:
		if _, ok := w.tree.Node(next.ID); !ok {
			w.logger.Warn("broken reference", "domain", w.state.Domain, "node", from, "target", next.ID)
			w.finish(ctx, from, choice, domain.OutcomeUndetermined)
			break
		}
		w.state.History = append(w.state.History, from)
		w.state.CurrentNodeID = next.ID
		w.emit(ctx, &domain.WalkEvent{From: from, To: next.ID, Choice: choice})
	}
	return w.step(), nil
}

// Back returns to the previous question. It reports whether the position changed;
// at the root or after a terminal outcome it does nothing.
func (w *Walker) Back(ctx context.Context) bool {
	if w.state == nil || w.finished || len(w.state.History) == 0 {
		return false
	}
	from := w.state.CurrentNodeID
	last := len(w.state.History) - 1
	w.state.CurrentNodeID = w.state.History[last]
	w.state.History = w.state.History[:last]
	w.emit(ctx, &domain.WalkEvent{From: from, To: w.state.CurrentNodeID, Back: true})
	return true
}

// Node returns the current question node.
func (w *Walker) Node() (domain.QuestionNode, bool) {
	if w.state == nil || w.finished {
		return domain.QuestionNode{}, false
	}
	return w.tree.Node(w.state.CurrentNodeID)
}

// State returns a copy of the walk position.
func (w *Walker) State() *domain.WalkState {
	return w.state.Snapshot()
}

// Outcome returns the terminal outcome once the walk finished.
func (w *Walker) Outcome() (domain.Outcome, bool) {
	return w.outcome, w.finished
}

// Finished reports whether a terminal outcome was reached.
func (w *Walker) Finished() bool {
	return w.finished
}

// Domain returns the name of the domain being walked.
func (w *Walker) Domain() string {
	if w.state == nil {
		return ""
	}
	return w.state.Domain
}

// Path returns the visited node IDs from the root to the current node.
func (w *Walker) Path() []string {
	if w.state == nil {
		return nil
	}
	path := append([]string(nil), w.state.History...)
	return append(path, w.state.CurrentNodeID)
}

func (w *Walker) finish(ctx context.Context, from string, choice domain.Choice, outcome domain.Outcome) {
	w.finished = true
	w.outcome = outcome
	w.logger.Info("walk finished", "domain", w.state.Domain, "outcome", outcome, "depth", w.state.Depth()+1)
	w.emit(ctx, &domain.WalkEvent{From: from, Choice: choice})
	if w.onComplete != nil {
		w.onComplete(outcome)
	}
}

func (w *Walker) emit(ctx context.Context, ev *domain.WalkEvent) {
	if w.hooks.OnWalkStep == nil {
		return
	}
	ev.EventBase = domain.NewEventBase(domain.EventWalkStep, w.sessionID)
	ev.Domain = w.state.Domain
	w.hooks.OnWalkStep(ctx, ev)
}

func (w *Walker) step() Step {
	if w.finished {
		return Step{Finished: true, Outcome: w.outcome}
	}
	n, _ := w.tree.Node(w.state.CurrentNodeID)
	return Step{Node: n}
}
