package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/careerflow/pkg/adapters/memory"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Backend = (*memory.Catalog)(nil)

func TestCatalog_Pages(t *testing.T) {
	qs := make([]domain.Question, 15)
	for i := range qs {
		qs[i] = domain.Question{ID: i + 1, Text: "Q"}
	}
	c := memory.NewCatalog(memory.WithQuestions(qs...))
	ctx := context.Background()

	page, err := c.FetchQuestions(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, page, 10)

	page, err = c.FetchQuestions(ctx, 10, 10)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, 11, page[0].ID)

	page, err = c.FetchQuestions(ctx, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestCatalog_ResubmissionIsIdempotent(t *testing.T) {
	c := memory.NewCatalog()
	ctx := context.Background()
	batch := []domain.Answer{{QuestionID: 1, Value: domain.Agree}, {QuestionID: 2, Value: domain.Neutral}}

	require.NoError(t, c.SubmitAnswerBatch(ctx, "s1", batch))
	require.NoError(t, c.SubmitAnswerBatch(ctx, "s1", batch))

	assert.Equal(t, batch, c.Answers("s1"))
	assert.Equal(t, 2, c.Submissions())
}

func TestCatalog_TreesAndDocuments(t *testing.T) {
	tree := domain.NewTree(domain.QuestionNode{ID: "be_q1"})
	c := memory.NewCatalog(
		memory.WithDomains(domain.DomainScore{Domain: "Backend", Score: 0.9}),
		memory.WithTree("Backend", tree),
		memory.WithSummary(map[string]float64{"Teamwork": 4.5}),
	)
	ctx := context.Background()

	got, err := c.FetchDomainTree(ctx, "Backend")
	require.NoError(t, err)
	assert.Same(t, tree, got)

	_, err = c.FetchDomainTree(ctx, "Data")
	assert.ErrorIs(t, err, domain.ErrInvalidTree)

	ranking, err := c.FetchTopDomains(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Backend", ranking[0].Domain)

	summary, err := c.FetchSoftSkillsSummary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary["Teamwork"])

	require.NoError(t, c.UploadResume(ctx, "s1", "cv.pdf", strings.NewReader("%PDF")))
	name, ok := c.Resume("s1")
	assert.True(t, ok)
	assert.Equal(t, "cv.pdf", name)

	require.NoError(t, c.SubmitJobDescription(ctx, "s1", "Go Developer", "..."))
	title, _ := c.JobTitle("s1")
	assert.Equal(t, "Go Developer", title)
}
