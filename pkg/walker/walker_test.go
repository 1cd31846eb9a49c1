package walker_test

import (
	"context"
	"testing"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func javaTree() *domain.DecisionTree {
	return domain.NewTree(
		domain.QuestionNode{ID: "java_q1", Question: "Q1", Yes: domain.Continue("java_q2"), No: domain.Reach("END_X")},
		domain.QuestionNode{ID: "java_q2", Question: "Q2", Yes: domain.Reach("END_Y"), No: domain.Continue("java_q3")},
		domain.QuestionNode{ID: "java_q3", Question: "Q3", Yes: domain.Continue("ghost_node")},
	).
		WithEndpoint("END_X", "Backend Engineer").
		WithEndpoint("END_Y", "Backend Engineer", "API Developer")
}

func TestDetectRoot(t *testing.T) {
	tests := []struct {
		name string
		tree *domain.DecisionTree
		want string
	}{
		{"suffix", javaTree(), "java_q1"},
		{
			"suffix beats order",
			domain.NewTree(domain.QuestionNode{ID: "intro"}, domain.QuestionNode{ID: "py_q1"}),
			"py_q1",
		},
		{
			"contains q1",
			domain.NewTree(domain.QuestionNode{ID: "start"}, domain.QuestionNode{ID: "q1-alt"}),
			"q1-alt",
		},
		{
			"first in order",
			domain.NewTree(domain.QuestionNode{ID: "zeta"}, domain.QuestionNode{ID: "alpha"}),
			"zeta",
		},
		{
			"endpoints ignored",
			func() *domain.DecisionTree {
				tr := domain.NewTree(domain.QuestionNode{ID: "start"})
				tr.Order = append([]string{"END_q1"}, tr.Order...)
				return tr.WithEndpoint("END_q1", "Role")
			}(),
			"start",
		},
		{"empty", domain.NewTree(), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, walker.DetectRoot(tt.tree))
		})
	}
}

func TestDetectRoot_NoOrderIsDeterministic(t *testing.T) {
	tree := &domain.DecisionTree{Nodes: map[string]domain.QuestionNode{
		"c": {ID: "c"}, "a": {ID: "a"}, "b": {ID: "b"},
	}}
	for i := 0; i < 20; i++ {
		assert.Equal(t, "a", walker.DetectRoot(tree))
	}
}

func TestNew_NoRoot(t *testing.T) {
	_, err := walker.New("Empty", domain.NewTree())
	assert.ErrorIs(t, err, domain.ErrNoRoot)
	assert.Contains(t, err.Error(), "Empty")

	// Root listed in order but missing from nodes.
	tree := &domain.DecisionTree{Order: []string{"x_q1"}, Nodes: map[string]domain.QuestionNode{}}
	_, err = walker.New("Broken", tree)
	assert.ErrorIs(t, err, domain.ErrNoRoot)
}

func TestWalker_EndpointResolution(t *testing.T) {
	ctx := context.Background()
	w, err := walker.New("Java", javaTree())
	require.NoError(t, err)

	step, err := w.Choose(ctx, domain.Yes)
	require.NoError(t, err)
	assert.False(t, step.Finished)
	assert.Equal(t, "java_q2", step.Node.ID)

	step, err = w.Choose(ctx, domain.Yes)
	require.NoError(t, err)
	assert.True(t, step.Finished)
	assert.Equal(t, domain.Outcome("Backend Engineer, API Developer"), step.Outcome)

	out, ok := w.Outcome()
	assert.True(t, ok)
	assert.Equal(t, step.Outcome, out)
	assert.Equal(t, []string{"java_q1", "java_q2"}, w.Path())
}

func TestWalker_BrokenReference(t *testing.T) {
	ctx := context.Background()
	w, err := walker.New("Java", javaTree())
	require.NoError(t, err)

	for _, c := range []domain.Choice{domain.Yes, domain.No, domain.Yes} {
		_, err = w.Choose(ctx, c)
		require.NoError(t, err)
	}
	out, ok := w.Outcome()
	assert.True(t, ok)
	assert.Equal(t, domain.OutcomeUndetermined, out)
}

func TestWalker_DeadEnd(t *testing.T) {
	ctx := context.Background()
	w, err := walker.New("Java", javaTree())
	require.NoError(t, err)

	_, _ = w.Choose(ctx, domain.Yes)
	_, _ = w.Choose(ctx, domain.No)
	// java_q3 has no "no" branch.
	step, err := w.Choose(ctx, domain.No)
	require.NoError(t, err)
	assert.True(t, step.Finished)
	assert.Equal(t, domain.OutcomeUndetermined, step.Outcome)
}

func TestWalker_EmptyOrUnknownEndpoint(t *testing.T) {
	ctx := context.Background()
	tree := domain.NewTree(
		domain.QuestionNode{ID: "d_q1", Yes: domain.Reach("END_EMPTY"), No: domain.Reach("END_MISSING")},
	).WithEndpoint("END_EMPTY")

	for _, c := range []domain.Choice{domain.Yes, domain.No} {
		w, err := walker.New("D", tree)
		require.NoError(t, err)
		step, err := w.Choose(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeUndetermined, step.Outcome)
	}
}

func TestWalker_ChooseAfterFinish(t *testing.T) {
	ctx := context.Background()
	w, err := walker.New("Java", javaTree())
	require.NoError(t, err)

	_, err = w.Choose(ctx, domain.No)
	require.NoError(t, err)

	step, err := w.Choose(ctx, domain.Yes)
	assert.ErrorIs(t, err, domain.ErrWalkFinished)
	assert.Equal(t, domain.Outcome("Backend Engineer"), step.Outcome)
	assert.False(t, w.Back(ctx), "back after terminal is a no-op")
}

func TestWalker_InvalidChoice(t *testing.T) {
	w, err := walker.New("Java", javaTree())
	require.NoError(t, err)
	_, err = w.Choose(context.Background(), domain.Choice("maybe"))
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	assert.Equal(t, "java_q1", w.State().CurrentNodeID)
}

func TestWalker_BackIsInverseOfForward(t *testing.T) {
	ctx := context.Background()
	w, err := walker.New("Java", javaTree())
	require.NoError(t, err)

	assert.False(t, w.Back(ctx), "back at root is a no-op")
	assert.Equal(t, "java_q1", w.State().CurrentNodeID)

	before := w.State()
	_, err = w.Choose(ctx, domain.Yes)
	require.NoError(t, err)
	_, err = w.Choose(ctx, domain.No)
	require.NoError(t, err)
	assert.Equal(t, "java_q3", w.State().CurrentNodeID)
	assert.Equal(t, 2, w.State().Depth())

	assert.True(t, w.Back(ctx))
	assert.True(t, w.Back(ctx))
	assert.Equal(t, before, w.State())
}

func TestWalker_Deterministic(t *testing.T) {
	ctx := context.Background()
	seq := []domain.Choice{domain.Yes, domain.No, domain.Yes}

	var outcomes []domain.Outcome
	var paths [][]string
	for i := 0; i < 5; i++ {
		w, err := walker.New("Java", javaTree())
		require.NoError(t, err)
		for _, c := range seq {
			_, err := w.Choose(ctx, c)
			require.NoError(t, err)
		}
		out, _ := w.Outcome()
		outcomes = append(outcomes, out)
		paths = append(paths, w.Path())
	}
	for i := 1; i < len(outcomes); i++ {
		assert.Equal(t, outcomes[0], outcomes[i])
		assert.Equal(t, paths[0], paths[i])
	}
}

func TestWalker_OnCompleteFiresOnce(t *testing.T) {
	ctx := context.Background()
	var got []domain.Outcome
	w, err := walker.New("Java", javaTree(), walker.WithOnComplete(func(o domain.Outcome) {
		got = append(got, o)
	}))
	require.NoError(t, err)

	_, _ = w.Choose(ctx, domain.No)
	_, _ = w.Choose(ctx, domain.No)
	_, _ = w.Choose(ctx, domain.Yes)

	assert.Equal(t, []domain.Outcome{"Backend Engineer"}, got)
}

func TestWalker_ResetClearsPreviousDomain(t *testing.T) {
	ctx := context.Background()
	w, err := walker.New("Java", javaTree())
	require.NoError(t, err)
	_, _ = w.Choose(ctx, domain.Yes)
	_, _ = w.Choose(ctx, domain.Yes)
	require.True(t, w.Finished())

	data := domain.NewTree(
		domain.QuestionNode{ID: "data_q1", Question: "SQL?", Yes: domain.Reach("END_D")},
	).WithEndpoint("END_D", "Data Engineer")

	require.NoError(t, w.Reset("Data", data))
	assert.False(t, w.Finished())
	assert.Equal(t, "Data", w.Domain())
	assert.Equal(t, &domain.WalkState{Domain: "Data", CurrentNodeID: "data_q1", History: []string{}}, w.State())
	_, ok := w.Outcome()
	assert.False(t, ok)

	// A failed reset leaves nothing of the previous walk.
	err = w.Reset("Nothing", domain.NewTree())
	assert.ErrorIs(t, err, domain.ErrNoRoot)
	_, err = w.Choose(ctx, domain.Yes)
	assert.ErrorIs(t, err, walker.ErrNotLoaded)
	_, ok = w.Node()
	assert.False(t, ok)
}

func TestWalker_EmitsWalkSteps(t *testing.T) {
	ctx := context.Background()
	var events []domain.WalkEvent
	hooks := domain.LifecycleHooks{OnWalkStep: func(_ context.Context, ev *domain.WalkEvent) {
		events = append(events, *ev)
	}}
	w, err := walker.New("Java", javaTree(), walker.WithHooks(hooks), walker.WithSessionID("s1"))
	require.NoError(t, err)

	_, _ = w.Choose(ctx, domain.Yes)
	w.Back(ctx)
	_, _ = w.Choose(ctx, domain.No)

	require.Len(t, events, 3)
	assert.Equal(t, "java_q2", events[0].To)
	assert.True(t, events[1].Back)
	assert.Equal(t, "java_q1", events[1].To)
	assert.Equal(t, "", events[2].To, "terminal step has no target node")
	assert.Equal(t, "s1", events[2].SessionID)
	assert.Equal(t, "Java", events[2].Domain)
}
