package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/careerflow/pkg/domain"
)

// Catalog is an in-process assessment backend: a fixed question list, a fixed domain
// ranking and one tree per domain. Submitted answers and documents are recorded so they
// can be inspected. Safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	questions []domain.Question
	ranking   []domain.DomainScore
	trees     map[string]*domain.DecisionTree
	summary   map[string]float64

	answers   map[string][]domain.Answer
	resumes   map[string]string
	jobs      map[string]string
	submitted int
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithQuestions sets the question list.
func WithQuestions(qs ...domain.Question) CatalogOption {
	return func(c *Catalog) {
		c.questions = append(c.questions, qs...)
	}
}

// WithDomains sets the domain ranking returned for every session, best first.
func WithDomains(scores ...domain.DomainScore) CatalogOption {
	return func(c *Catalog) {
		c.ranking = append(c.ranking, scores...)
	}
}

// WithTree registers the decision tree of a domain.
func WithTree(domainName string, tree *domain.DecisionTree) CatalogOption {
	return func(c *Catalog) {
		c.trees[domainName] = tree
	}
}

// WithSummary sets the soft-skill summary returned for every session.
func WithSummary(summary map[string]float64) CatalogOption {
	return func(c *Catalog) {
		c.summary = summary
	}
}

// NewCatalog creates a catalog from options.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		trees:   make(map[string]*domain.DecisionTree),
		answers: make(map[string][]domain.Answer),
		resumes: make(map[string]string),
		jobs:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchQuestions returns the page [offset, offset+limit) of the question list.
func (c *Catalog) FetchQuestions(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if offset < 0 || limit <= 0 || offset >= len(c.questions) {
		return []domain.Question{}, nil
	}
	end := min(offset+limit, len(c.questions))
	return append([]domain.Question(nil), c.questions[offset:end]...), nil
}

// SubmitAnswerBatch records the answers. Resubmitting an answer replaces it.
func (c *Catalog) SubmitAnswerBatch(ctx context.Context, sessionID string, answers []domain.Answer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitted++
	existing := c.answers[sessionID]
	for _, a := range answers {
		replaced := false
		for i := range existing {
			if existing[i].QuestionID == a.QuestionID {
				existing[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, a)
		}
	}
	c.answers[sessionID] = existing
	return nil
}

// FetchTopDomains returns the configured ranking.
func (c *Catalog) FetchTopDomains(ctx context.Context, sessionID string) ([]domain.DomainScore, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.DomainScore(nil), c.ranking...), nil
}

// FetchDomainTree returns the registered tree of a domain.
func (c *Catalog) FetchDomainTree(ctx context.Context, domainName string) (*domain.DecisionTree, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tree, ok := c.trees[domainName]
	if !ok {
		return nil, fmt.Errorf("%w: no tree for domain %q", domain.ErrInvalidTree, domainName)
	}
	return tree, nil
}

// FetchSoftSkillsSummary returns the configured summary.
func (c *Catalog) FetchSoftSkillsSummary(ctx context.Context, sessionID string) (map[string]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.summary))
	for k, v := range c.summary {
		out[k] = v
	}
	return out, nil
}

// UploadResume records the resume file name.
func (c *Catalog) UploadResume(ctx context.Context, sessionID, filename string, r io.Reader) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumes[sessionID] = filename
	return nil
}

// SubmitJobDescription records the job title.
func (c *Catalog) SubmitJobDescription(ctx context.Context, sessionID, title, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs[sessionID] = title
	return nil
}

// Answers returns the answers recorded for a session.
func (c *Catalog) Answers(sessionID string) []domain.Answer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Answer(nil), c.answers[sessionID]...)
}

// Submissions returns the number of SubmitAnswerBatch calls.
func (c *Catalog) Submissions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.submitted
}

// Resume returns the file name uploaded for a session.
func (c *Catalog) Resume(sessionID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.resumes[sessionID]
	return name, ok
}

// JobTitle returns the job title submitted for a session.
func (c *Catalog) JobTitle(sessionID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	title, ok := c.jobs[sessionID]
	return title, ok
}
