package batcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/careerflow/internal/logging"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
)

const (
	// DefaultPageSize is the number of questions per batch.
	DefaultPageSize = 10
	// DefaultTotal is the number of questions in the questionnaire.
	DefaultTotal = 20
)

type op uint8

const (
	opNone op = iota
	opLoad
	opSubmit
	opMark
)

func (o op) String() string {
	switch o {
	case opLoad:
		return "load"
	case opSubmit:
		return "submit"
	case opMark:
		return "mark"
	}
	return ""
}

// StageMarker records the completion of the questionnaire for the session.
type StageMarker func(ctx context.Context, sessionID string) error

// Batcher presents a fixed-size questionnaire page by page.
// Each full page is submitted to the scorer before the next one is fetched.
// It is not safe for concurrent use.
type Batcher struct {
	sessionID string
	bank      ports.QuestionBank
	scorer    ports.AnswerScorer

	pageSize int
	total    int

	offset    int
	questions []domain.Question
	index     int
	answers   []domain.Answer
	loaded    bool
	done      bool

	pending op
	lastErr error

	marker StageMarker
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures a Batcher.
type Option func(*Batcher)

// WithPageSize sets the number of questions per batch.
func WithPageSize(n int) Option {
	return func(b *Batcher) {
		b.pageSize = n
	}
}

// WithTotal sets the number of questions in the questionnaire.
func WithTotal(n int) Option {
	return func(b *Batcher) {
		b.total = n
	}
}

// WithStageMarker registers the function that flips the soft-skills flag on completion.
func WithStageMarker(fn StageMarker) Option {
	return func(b *Batcher) {
		b.marker = fn
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Batcher) {
		b.hooks = hooks
	}
}

// WithLogger configures a logger for the Batcher.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Batcher) {
		b.logger = logger
	}
}

// New creates a Batcher for a session. Call Load to fetch the first page.
func New(sessionID string, bank ports.QuestionBank, scorer ports.AnswerScorer, opts ...Option) (*Batcher, error) {
	b := &Batcher{
		sessionID: sessionID,
		bank:      bank,
		scorer:    scorer,
		pageSize:  DefaultPageSize,
		total:     DefaultTotal,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.pageSize <= 0 || b.total < b.pageSize || b.total%b.pageSize != 0 {
		return nil, fmt.Errorf("%w: page size %d, total %d", ErrInvalidConfig, b.pageSize, b.total)
	}
	if bank == nil || scorer == nil {
		return nil, fmt.Errorf("%w: question bank and scorer are required", ErrInvalidConfig)
	}
	return b, nil
}

// Load fetches the page at the current offset, discarding unsent answers of that page.
// While a failed operation awaits Retry, Load refuses so the unsent answers survive.
func (b *Batcher) Load(ctx context.Context) error {
	if b.done {
		return domain.ErrAssessmentComplete
	}
	if b.pending != opNone {
		return fmt.Errorf("%w: %v", ErrRetryPending, b.lastErr)
	}
	return b.loadBatch(ctx)
}

// Current returns the question awaiting an answer.
func (b *Batcher) Current() (domain.Question, bool) {
	if b.done || !b.loaded || b.index >= len(b.questions) {
		return domain.Question{}, false
	}
	return b.questions[b.index], true
}

// Progress returns the 1-based number of the current question and the questionnaire size.
func (b *Batcher) Progress() (int, int) {
	if b.done {
		return b.total, b.total
	}
	return min(b.offset+b.index+1, b.total), b.total
}

// Record answers the current question. Answering the last question of a page
// submits the page; a failed submission returns a *TransientError and keeps the
// question and all answers in place for Retry.
func (b *Batcher) Record(ctx context.Context, value domain.AnswerValue) error {
	if b.done {
		return domain.ErrAssessmentComplete
	}
	if b.pending != opNone {
		return fmt.Errorf("%w: %v", ErrRetryPending, b.lastErr)
	}
	q, ok := b.Current()
	if !ok {
		return ErrNotLoaded
	}
	v, err := domain.ParseAnswerValue(string(value))
	if err != nil {
		return err
	}

	b.answers = append(b.answers, domain.Answer{QuestionID: q.ID, Value: v})
	if b.index+1 < len(b.questions) {
		b.index++
		return nil
	}
	return b.submit(ctx)
}

// Retry re-runs the operation that failed last.
func (b *Batcher) Retry(ctx context.Context) error {
	switch b.pending {
	case opSubmit:
		return b.submit(ctx)
	case opLoad:
		return b.loadBatch(ctx)
	case opMark:
		return b.complete(ctx)
	}
	return domain.ErrNothingToRetry
}

// Done reports whether every page was submitted and the stage recorded.
func (b *Batcher) Done() bool {
	return b.done
}

// Err returns the pending failure, if any.
func (b *Batcher) Err() error {
	return b.lastErr
}

// State is a copy of the batcher position.
type State struct {
	SessionID string           `json:"session_id"`
	Offset    int              `json:"offset"`
	PageSize  int              `json:"page_size"`
	Total     int              `json:"total"`
	Index     int              `json:"index"`
	Number    int              `json:"number"`
	Answers   []domain.Answer  `json:"answers"`
	Question  *domain.Question `json:"question,omitempty"`
	Pending   string           `json:"pending,omitempty"`
	Done      bool             `json:"done"`
}

// Snapshot returns a copy of the current position.
func (b *Batcher) Snapshot() State {
	number, total := b.Progress()
	s := State{
		SessionID: b.sessionID,
		Offset:    b.offset,
		PageSize:  b.pageSize,
		Total:     total,
		Index:     b.index,
		Number:    number,
		Answers:   append([]domain.Answer{}, b.answers...),
		Pending:   b.pending.String(),
		Done:      b.done,
	}
	if q, ok := b.Current(); ok {
		s.Question = &q
	}
	return s
}

func (b *Batcher) loadBatch(ctx context.Context) error {
	qs, err := b.bank.FetchQuestions(ctx, b.pageSize, b.offset)
	if err != nil {
		return b.fail(opLoad, err)
	}
	b.pending, b.lastErr = opNone, nil

	if len(qs) > b.pageSize {
		qs = qs[:b.pageSize]
	}
	if len(qs) == 0 {
		if b.offset == 0 {
			return domain.ErrEmptyQuestionSet
		}
		b.logger.Info("question bank exhausted early", "session_id", b.sessionID, "offset", b.offset)
		return b.complete(ctx)
	}

	b.questions = qs
	b.index = 0
	b.answers = b.answers[:0]
	b.loaded = true
	b.logger.Debug("batch loaded", "session_id", b.sessionID, "offset", b.offset, "size", len(qs))
	return nil
}

func (b *Batcher) submit(ctx context.Context) error {
	batch := append([]domain.Answer(nil), b.answers...)
	if err := b.scorer.SubmitAnswerBatch(ctx, b.sessionID, batch); err != nil {
		return b.fail(opSubmit, err)
	}
	b.pending, b.lastErr = opNone, nil

	b.logger.Info("batch submitted", "session_id", b.sessionID, "offset", b.offset, "answers", len(batch))
	if b.hooks.OnBatchSubmitted != nil {
		b.hooks.OnBatchSubmitted(ctx, &domain.BatchEvent{
			EventBase: domain.NewEventBase(domain.EventBatchSubmitted, b.sessionID),
			Offset:    b.offset,
			Answers:   len(batch),
		})
	}

	b.offset += b.pageSize
	b.questions = nil
	b.index = 0
	b.answers = nil
	b.loaded = false
	if b.offset < b.total {
		return b.loadBatch(ctx)
	}
	return b.complete(ctx)
}

func (b *Batcher) complete(ctx context.Context) error {
	if b.marker != nil {
		if err := b.marker(ctx, b.sessionID); err != nil {
			return b.fail(opMark, err)
		}
	}
	b.pending, b.lastErr = opNone, nil
	b.done = true
	b.logger.Info("questionnaire complete", "session_id", b.sessionID)
	if b.hooks.OnQuestionnaireComplete != nil {
		b.hooks.OnQuestionnaireComplete(ctx, &domain.CompletionEvent{
			EventBase: domain.NewEventBase(domain.EventQuestionnaireDone, b.sessionID),
		})
	}
	return nil
}

func (b *Batcher) fail(o op, err error) error {
	b.pending = o
	b.lastErr = &TransientError{Op: o.String(), Offset: b.offset, Err: err}
	b.logger.Warn("batch operation failed", "session_id", b.sessionID, "op", o.String(), "offset", b.offset, "error", err)
	return b.lastErr
}
