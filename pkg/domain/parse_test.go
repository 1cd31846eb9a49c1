package domain_test

import (
	"testing"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Choice
		err  bool
	}{
		{"yes", domain.Yes, false},
		{" Y ", domain.Yes, false},
		{"TRUE", domain.Yes, false},
		{"no", domain.No, false},
		{"n", domain.No, false},
		{"false", domain.No, false},
		{"maybe", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseChoice(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, domain.ErrInvalidChoice)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAnswerValue(t *testing.T) {
	for in, want := range map[string]domain.AnswerValue{
		"Agree":    domain.Agree,
		"agree":    domain.Agree,
		"NEUTRAL":  domain.Neutral,
		"disagree": domain.Disagree,
	} {
		got, err := domain.ParseAnswerValue(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParseAnswerValue("strongly agree")
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)
}

func TestQuestionNode_Branch(t *testing.T) {
	n := domain.QuestionNode{ID: "q1", Yes: domain.Continue("q2"), No: domain.Reach("END_x")}
	assert.Equal(t, domain.Continue("q2"), n.Branch(domain.Yes))
	assert.Equal(t, domain.Reach("END_x"), n.Branch(domain.No))
	assert.True(t, domain.None.IsNone())
	assert.Equal(t, "reach(END_x)", n.No.String())
}

func TestDecisionTree_AddNodeKeepsOrder(t *testing.T) {
	tree := domain.NewTree(
		domain.QuestionNode{ID: "b"},
		domain.QuestionNode{ID: "a"},
	)
	tree.AddNode(domain.QuestionNode{ID: "b", Question: "replaced"})

	assert.Equal(t, []string{"b", "a"}, tree.Order)
	n, ok := tree.Node("b")
	assert.True(t, ok)
	assert.Equal(t, "replaced", n.Question)
	assert.Equal(t, 2, tree.Len())

	var nilTree *domain.DecisionTree
	_, ok = nilTree.Node("a")
	assert.False(t, ok)
	assert.Nil(t, nilTree.Roles("x"))
}
