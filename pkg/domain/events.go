package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGate               EventType = "gate"
	EventBatchSubmitted     EventType = "batch_submitted"
	EventQuestionnaireDone  EventType = "questionnaire_complete"
	EventWalkStep           EventType = "walk_step"
	EventDomainComplete     EventType = "domain_complete"
	EventAssessmentComplete EventType = "assessment_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType, sessionID string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, SessionID: sessionID}
}

// GateEvent reports a routing decision.
type GateEvent struct {
	EventBase
	Path     string `json:"path"`
	Redirect string `json:"redirect,omitempty"`
}

// BatchEvent reports a submitted questionnaire batch.
type BatchEvent struct {
	EventBase
	Offset  int `json:"offset"`
	Answers int `json:"answers"`
}

// WalkEvent reports one transition of a decision-tree walk.
type WalkEvent struct {
	EventBase
	Domain string `json:"domain"`
	From   string `json:"from"`
	To     string `json:"to,omitempty"`
	Choice Choice `json:"choice,omitempty"`
	Back   bool   `json:"back,omitempty"`
}

// DomainEvent reports the recorded outcome of a domain.
type DomainEvent struct {
	EventBase
	Result DomainResult `json:"result"`
}

// CompletionEvent reports the end of the questionnaire or of the technical stage.
type CompletionEvent struct {
	EventBase
	Results Results `json:"results,omitempty"`
}

// LifecycleHooks defines callbacks for assessment observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnGate                  func(context.Context, *GateEvent)
	OnBatchSubmitted        func(context.Context, *BatchEvent)
	OnQuestionnaireComplete func(context.Context, *CompletionEvent)
	OnWalkStep              func(context.Context, *WalkEvent)
	OnDomainComplete        func(context.Context, *DomainEvent)
	OnAssessmentComplete    func(context.Context, *CompletionEvent)
}

// Merge returns hooks calling h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnGate:                  chain(h.OnGate, other.OnGate),
		OnBatchSubmitted:        chain(h.OnBatchSubmitted, other.OnBatchSubmitted),
		OnQuestionnaireComplete: chain(h.OnQuestionnaireComplete, other.OnQuestionnaireComplete),
		OnWalkStep:              chain(h.OnWalkStep, other.OnWalkStep),
		OnDomainComplete:        chain(h.OnDomainComplete, other.OnDomainComplete),
		OnAssessmentComplete:    chain(h.OnAssessmentComplete, other.OnAssessmentComplete),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
