package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/schema"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Catalog layout, relative to the catalog root.
const (
	QuestionsFile = "questions.yaml"
	DomainsFile   = "domains.yaml"
	TreesDir      = "trees"
	UploadsDir    = "uploads"
)

var treeExtensions = []string{".json", ".yaml", ".yml"}

// Content supplies the read-only assessment content of a catalog: the question
// list, the domain ranking and the decision trees.
type Content interface {
	Questions(ctx context.Context) ([]domain.Question, error)
	Domains(ctx context.Context) ([]domain.DomainScore, error)
	Tree(ctx context.Context, domainName string) (*domain.DecisionTree, error)
}

// Catalog serves the assessment from a directory:
//
//	questions.yaml          list of {id, text, skill}
//	domains.yaml            ranked list of {domain, score}, best first
//	trees/<domain>.json     one tree document per domain (.yaml/.yml accepted)
//
// WithContent replaces that layout with another content source. Resumes and job
// descriptions are written under uploads/<session>/. Soft-skill summaries are
// tallied from the submitted answers of each session.
type Catalog struct {
	fs      afero.Fs
	root    string
	content Content

	mu      sync.Mutex
	answers map[string]map[int]domain.AnswerValue
}

type CatalogOption func(*Catalog)

// WithContent serves questions, domains and trees from content.
func WithContent(content Content) CatalogOption {
	return func(c *Catalog) {
		c.content = content
	}
}

// NewCatalog creates a catalog rooted at dir on fs.
func NewCatalog(fs afero.Fs, dir string, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		fs:      fs,
		root:    dir,
		content: &yamlContent{fs: fs, root: dir},
		answers: make(map[string]map[int]domain.AnswerValue),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchQuestions returns the page [offset, offset+limit) of the question list.
func (c *Catalog) FetchQuestions(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	qs, err := c.content.Questions(ctx)
	if err != nil {
		return nil, err
	}
	if offset < 0 || limit <= 0 || offset >= len(qs) {
		return []domain.Question{}, nil
	}
	return qs[offset:min(offset+limit, len(qs))], nil
}

// SubmitAnswerBatch records the answers in memory. Resubmitting replaces them.
func (c *Catalog) SubmitAnswerBatch(ctx context.Context, sessionID string, answers []domain.Answer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.answers[sessionID]
	if !ok {
		m = make(map[int]domain.AnswerValue)
		c.answers[sessionID] = m
	}
	for _, a := range answers {
		m[a.QuestionID] = a.Value
	}
	return nil
}

// FetchTopDomains returns the domain ranking in source order.
func (c *Catalog) FetchTopDomains(ctx context.Context, sessionID string) ([]domain.DomainScore, error) {
	return c.content.Domains(ctx)
}

// FetchDomainTree returns the decision tree of a domain.
func (c *Catalog) FetchDomainTree(ctx context.Context, domainName string) (*domain.DecisionTree, error) {
	return c.content.Tree(ctx, domainName)
}

// yamlContent reads the default directory layout.
type yamlContent struct {
	fs   afero.Fs
	root string
}

func (y *yamlContent) readYAML(name string, out any) error {
	data, err := afero.ReadFile(y.fs, filepath.Join(y.root, name))
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (y *yamlContent) Questions(ctx context.Context) ([]domain.Question, error) {
	var qs []domain.Question
	if err := y.readYAML(QuestionsFile, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Domains treats a missing domains.yaml as an empty ranking.
func (y *yamlContent) Domains(ctx context.Context) ([]domain.DomainScore, error) {
	var scores []domain.DomainScore
	if err := y.readYAML(DomainsFile, &scores); err != nil {
		if os.IsNotExist(err) {
			return []domain.DomainScore{}, nil
		}
		return nil, err
	}
	return scores, nil
}

// Tree parses trees/<domain>.{json,yaml,yml}. The domain name is also tried
// in its Slug form.
func (y *yamlContent) Tree(ctx context.Context, domainName string) (*domain.DecisionTree, error) {
	path, err := y.treePath(domainName)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(y.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %q: %w", domainName, err)
	}
	tree, err := schema.ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("tree of %q: %w", domainName, err)
	}
	return tree, nil
}

func (y *yamlContent) treePath(domainName string) (string, error) {
	names := []string{domainName}
	if slug := Slug(domainName); slug != domainName {
		names = append(names, slug)
	}
	for _, name := range names {
		for _, ext := range treeExtensions {
			p := filepath.Join(y.root, TreesDir, name+ext)
			if ok, _ := afero.Exists(y.fs, p); ok {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no tree document for domain %q", domain.ErrInvalidTree, domainName)
}

// Slug lowercases a domain name and replaces spaces and slashes with underscores.
func Slug(name string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(strings.ToLower(strings.TrimSpace(name)))
}

// answerWeight maps answers onto a 1..5 agreement scale.
var answerWeight = map[domain.AnswerValue]float64{
	domain.Disagree: 1,
	domain.Neutral:  3,
	domain.Agree:    5,
}

// FetchSoftSkillsSummary averages the session's answers per skill.
// Questions without a skill are grouped under "General".
func (c *Catalog) FetchSoftSkillsSummary(ctx context.Context, sessionID string) (map[string]float64, error) {
	qs, err := c.content.Questions(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	answers := c.answers[sessionID]
	c.mu.Unlock()

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, q := range qs {
		v, ok := answers[q.ID]
		if !ok {
			continue
		}
		skill := q.Skill
		if skill == "" {
			skill = "General"
		}
		sums[skill] += answerWeight[v]
		counts[skill]++
	}
	out := make(map[string]float64, len(sums))
	for skill, sum := range sums {
		out[skill] = sum / float64(counts[skill])
	}
	return out, nil
}

// UploadResume copies the resume to uploads/<session>/<filename>.
func (c *Catalog) UploadResume(ctx context.Context, sessionID, filename string, r io.Reader) error {
	dir := filepath.Join(c.root, UploadsDir, sessionID)
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	f, err := c.fs.Create(filepath.Join(dir, filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("failed to create resume file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write resume: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close resume file: %w", err)
	}
	return nil
}

type jobDescription struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// SubmitJobDescription writes uploads/<session>/jd.yaml.
func (c *Catalog) SubmitJobDescription(ctx context.Context, sessionID, title, text string) error {
	dir := filepath.Join(c.root, UploadsDir, sessionID)
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	data, err := yaml.Marshal(jobDescription{Title: title, Text: text})
	if err != nil {
		return err
	}
	return afero.WriteFile(c.fs, filepath.Join(dir, "jd.yaml"), data, 0o644)
}
