package careerflow_test

import (
	"context"
	"testing"

	"github.com/aretw0/careerflow"
	"github.com/aretw0/careerflow/pkg/adapters/memory"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog() *memory.Catalog {
	web := domain.NewTree(
		domain.QuestionNode{ID: "web_q1", Question: "Do you enjoy UI work?", Yes: domain.Reach("END_FE"), No: domain.Continue("web_q2")},
		domain.QuestionNode{ID: "web_q2", Question: "Do you enjoy databases?", Yes: domain.Reach("END_BE")},
	).WithEndpoint("END_FE", "Frontend Developer").WithEndpoint("END_BE", "Backend Developer")

	return memory.NewCatalog(
		memory.WithQuestions(
			domain.Question{ID: 1, Text: "I enjoy teamwork"},
			domain.Question{ID: 2, Text: "I lead meetings"},
		),
		memory.WithDomains(
			domain.DomainScore{Domain: "Web", Score: 0.8},
			domain.DomainScore{Domain: "Mobile", Score: 0.4},
		),
		memory.WithTree("Web", web),
	)
}

func TestNew_RequiresBackend(t *testing.T) {
	_, err := careerflow.New(nil)
	assert.Error(t, err)
}

func TestEngine_FullAssessment(t *testing.T) {
	ctx := context.Background()
	var completed domain.Results
	eng, err := careerflow.New(newCatalog(),
		careerflow.WithQuestionnaire(1, 2),
		careerflow.WithLifecycleHooks(domain.LifecycleHooks{
			OnAssessmentComplete: func(_ context.Context, e *domain.CompletionEvent) {
				completed = e.Results
			},
		}),
	)
	require.NoError(t, err)

	sess, err := eng.StartSession(ctx, "grace@example.com")
	require.NoError(t, err)

	decision, err := eng.Evaluate(ctx, "/soft-skills", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "/resume", decision.Target)

	_, err = eng.CompleteStage(ctx, sess.ID, domain.StageResume)
	require.NoError(t, err)
	_, err = eng.CompleteStage(ctx, sess.ID, domain.StageJobDescription)
	require.NoError(t, err)

	q, err := eng.Questionnaire(sess.ID)
	require.NoError(t, err)
	require.NoError(t, q.Load(ctx))
	require.NoError(t, q.Record(ctx, domain.Agree))
	require.NoError(t, q.Record(ctx, domain.Disagree))
	require.True(t, q.Done())

	tech := eng.Technical(sess.ID)
	require.NoError(t, tech.Start(ctx))
	step, err := tech.Choose(ctx, domain.No)
	require.NoError(t, err)
	assert.False(t, step.Finished)
	step, err = tech.Choose(ctx, domain.Yes)
	require.NoError(t, err)
	assert.True(t, step.Finished)
	require.True(t, tech.Done())

	want := domain.Results{
		{Domain: "Web", Outcome: "Backend Developer"},
		{Domain: "Mobile", Outcome: domain.OutcomeUndetermined, Reason: tech.Results()[1].Reason},
	}
	assert.Equal(t, want, tech.Results())
	assert.Equal(t, want, completed)

	stored, err := eng.Sessions().Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.Flags.SoftSkillsDone)
	assert.True(t, stored.Flags.TechnicalDone)
	assert.Equal(t, want, stored.Results)

	decision, err = eng.Evaluate(ctx, "/result", sess.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed())
}

func TestEngine_EvaluateUnknownSession(t *testing.T) {
	eng, err := careerflow.New(newCatalog())
	require.NoError(t, err)

	decision, err := eng.Evaluate(context.Background(), "/jd", "missing")
	require.NoError(t, err)
	assert.Equal(t, "/login", decision.Target)
}

func TestEngine_Walk(t *testing.T) {
	eng, err := careerflow.New(newCatalog())
	require.NoError(t, err)

	w, err := eng.Walk(context.Background(), "Web")
	require.NoError(t, err)
	step, err := w.Choose(context.Background(), domain.Yes)
	require.NoError(t, err)
	assert.Equal(t, domain.Outcome("Frontend Developer"), step.Outcome)

	_, err = eng.Walk(context.Background(), "Mobile")
	assert.ErrorIs(t, err, domain.ErrInvalidTree)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, careerflow.Version)
}
