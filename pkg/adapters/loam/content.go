package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/careerflow/pkg/adapters/file"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/schema"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

// Document IDs, relative to the repository root.
const (
	QuestionsDoc = "questions"
	DomainsDoc   = "domains"
	TreesDir     = "trees"
)

// Content implements file.Content over typed Loam repositories.
type Content struct {
	questions *loam.TypedRepository[QuestionsMetadata]
	domains   *loam.TypedRepository[DomainsMetadata]
	trees     *loam.TypedRepository[TreeMetadata]
}

var _ file.Content = (*Content)(nil)

// Open initializes a read-only repository at dir. Strict mode keeps numbers
// consistent across JSON and YAML documents.
func Open(dir string) (*Content, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo), nil
}

// New creates Content over an existing repository.
func New(repo core.Repository) *Content {
	return &Content{
		questions: loam.NewTypedRepository[QuestionsMetadata](repo),
		domains:   loam.NewTypedRepository[DomainsMetadata](repo),
		trees:     loam.NewTypedRepository[TreeMetadata](repo),
	}
}

// Questions returns the question list in document order.
func (c *Content) Questions(ctx context.Context) ([]domain.Question, error) {
	doc, err := c.questions.Get(ctx, QuestionsDoc)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", QuestionsDoc, err)
	}
	qs := make([]domain.Question, 0, len(doc.Data.Questions))
	for _, q := range doc.Data.Questions {
		qs = append(qs, domain.Question{ID: q.ID, Text: q.Text, Skill: q.Skill})
	}
	return qs, nil
}

// Domains returns the ranking in document order.
func (c *Content) Domains(ctx context.Context) ([]domain.DomainScore, error) {
	doc, err := c.domains.Get(ctx, DomainsDoc)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", DomainsDoc, err)
	}
	scores := make([]domain.DomainScore, 0, len(doc.Data.Domains))
	for _, d := range doc.Data.Domains {
		scores = append(scores, domain.DomainScore{Domain: d.Domain, Score: d.Score})
	}
	return scores, nil
}

// Tree loads trees/<domain>, falling back to trees/<slug>. A missing or malformed
// document returns an error matching domain.ErrInvalidTree.
func (c *Content) Tree(ctx context.Context, domainName string) (*domain.DecisionTree, error) {
	ids := []string{path.Join(TreesDir, domainName)}
	if slug := file.Slug(domainName); slug != domainName {
		ids = append(ids, path.Join(TreesDir, slug))
	}

	var lastErr error
	for _, id := range ids {
		doc, err := c.trees.Get(ctx, id)
		if err != nil {
			lastErr = err
			continue
		}
		tree, err := BuildTree(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("tree of %q: %w", domainName, err)
		}
		return tree, nil
	}
	return nil, fmt.Errorf("%w: no tree document for domain %q: %v", domain.ErrInvalidTree, domainName, lastErr)
}

// BuildTree converts tree metadata into a DecisionTree, keeping the node order.
func BuildTree(meta TreeMetadata) (*domain.DecisionTree, error) {
	if len(meta.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", domain.ErrInvalidTree)
	}
	tree := domain.NewTree()
	for id, roles := range meta.Endpoints {
		tree.WithEndpoint(id, roles...)
	}

	seen := make(map[string]bool, len(meta.Nodes))
	var errs []error
	for i, n := range meta.Nodes {
		id := strings.TrimSpace(n.ID)
		switch {
		case id == "":
			errs = append(errs, &schema.ValidationError{Key: fmt.Sprintf("nodes[%d]", i), Reason: "missing id"})
			continue
		case seen[id]:
			errs = append(errs, &schema.ValidationError{Key: id, Reason: "duplicate node id"})
			continue
		case strings.TrimSpace(n.Question) == "":
			errs = append(errs, &schema.ValidationError{Key: id, Reason: "missing question"})
		}
		seen[id] = true
		tree.AddNode(domain.QuestionNode{
			ID:       id,
			Question: n.Question,
			Yes:      schema.Classify(tree, n.Yes),
			No:       schema.Classify(tree, n.No),
		})
	}
	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}
	return tree, nil
}
