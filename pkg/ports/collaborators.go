package ports

import (
	"context"
	"io"

	"github.com/aretw0/careerflow/pkg/domain"
)

// QuestionBank serves the soft-skills questionnaire one page at a time.
type QuestionBank interface {
	// FetchQuestions returns at most limit questions starting at offset.
	// An empty slice means the bank has nothing at that offset.
	FetchQuestions(ctx context.Context, limit, offset int) ([]domain.Question, error)
}

// AnswerScorer receives answered batches.
// Resubmitting the same batch must be safe.
type AnswerScorer interface {
	SubmitAnswerBatch(ctx context.Context, sessionID string, answers []domain.Answer) error
}

// DomainMatcher ranks technical domains for a session, best first.
type DomainMatcher interface {
	FetchTopDomains(ctx context.Context, sessionID string) ([]domain.DomainScore, error)
}

// TreeSource provides the decision tree of a technical domain.
// Implementations return domain.ErrInvalidTree (wrapped) for malformed documents.
type TreeSource interface {
	FetchDomainTree(ctx context.Context, domainName string) (*domain.DecisionTree, error)
}

// SoftSkillsReporter returns the scored soft-skill summary of a session.
type SoftSkillsReporter interface {
	FetchSoftSkillsSummary(ctx context.Context, sessionID string) (map[string]float64, error)
}

// DocumentIntake accepts the resume and job description of a session.
type DocumentIntake interface {
	UploadResume(ctx context.Context, sessionID, filename string, r io.Reader) error
	SubmitJobDescription(ctx context.Context, sessionID, title, text string) error
}

// Backend groups every collaborator of the assessment.
// Both the remote client and the catalogs satisfy it.
type Backend interface {
	QuestionBank
	AnswerScorer
	DomainMatcher
	TreeSource
	SoftSkillsReporter
	DocumentIntake
}
