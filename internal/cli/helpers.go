package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/careerflow/internal/logging"
	"github.com/aretw0/careerflow/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger configures the application logger from the log level and format.
// Logs go to stderr so they never mix with the prompts on stdout.
func NewLogger(level, format string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, lvl, format), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGate: func(ctx context.Context, e *domain.GateEvent) {
			logger.Debug("Gate", "path", e.Path, "redirect", e.Redirect, "session_id", e.SessionID)
		},
		OnBatchSubmitted: func(ctx context.Context, e *domain.BatchEvent) {
			logger.Debug("Batch Submitted", "offset", e.Offset, "answers", e.Answers, "session_id", e.SessionID)
		},
		OnQuestionnaireComplete: func(ctx context.Context, e *domain.CompletionEvent) {
			logger.Debug("Questionnaire Complete", "session_id", e.SessionID)
		},
		OnWalkStep: func(ctx context.Context, e *domain.WalkEvent) {
			logger.Debug("Walk Step", "domain", e.Domain, "from", e.From, "to", e.To, "choice", e.Choice, "back", e.Back)
		},
		OnDomainComplete: func(ctx context.Context, e *domain.DomainEvent) {
			logger.Debug("Domain Complete", "domain", e.Result.Domain, "outcome", e.Result.Outcome)
		},
		OnAssessmentComplete: func(ctx context.Context, e *domain.CompletionEvent) {
			logger.Debug("Assessment Complete", "domains", len(e.Results), "session_id", e.SessionID)
		},
	}
}

// errQuit is returned when the user types quit at a prompt.
var errQuit = errors.New("quit")

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, errQuit)
}

// HandleExecutionError hides interruptions (Ctrl+C, EOF, quit) from the exit status.
func HandleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

type retryable interface {
	Retryable() bool
}

func isRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r) && r.Retryable()
}
