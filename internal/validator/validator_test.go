package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTree(t *testing.T) {
	// Scenario A: valid tree
	// java_q1 -> java_q2 -> END_BACKEND | END_ANDROID
	valid := domain.NewTree(
		domain.QuestionNode{ID: "java_q1", Question: "Servers?", Yes: domain.Continue("java_q2"), No: domain.Reach("END_ANDROID")},
		domain.QuestionNode{ID: "java_q2", Question: "APIs?", Yes: domain.Reach("END_BACKEND"), No: domain.Reach("END_ANDROID")},
	).WithEndpoint("END_BACKEND", "Backend Developer").WithEndpoint("END_ANDROID", "Android Developer")

	require.NoError(t, ValidateTree(valid))

	// Scenario B: broken link
	broken := domain.NewTree(
		domain.QuestionNode{ID: "java_q1", Question: "?", Yes: domain.Continue("ghost_node"), No: domain.Reach("END_X")},
	).WithEndpoint("END_X", "X")

	err := ValidateTree(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing node: 'ghost_node'")
	assert.True(t, strings.HasPrefix(err.Error(), "found 1 errors"))
}

func TestLint_Issues(t *testing.T) {
	tree := domain.NewTree(
		domain.QuestionNode{ID: "web_q1", Question: "?", Yes: domain.Reach("END_UNKNOWN"), No: domain.Reach("END_EMPTY")},
		domain.QuestionNode{ID: "web_q2", Question: "?", Yes: domain.Continue("web_q1")},
	).WithEndpoint("END_EMPTY")

	issues := Lint(tree)

	assert.Equal(t, []string{
		"Unknown endpoint: 'END_UNKNOWN' (from 'web_q1' on yes)",
		"Empty endpoint: 'END_EMPTY'",
		"Unreachable node: 'web_q2'",
	}, issues)
}

func TestLint_DeadEnd(t *testing.T) {
	tree := domain.NewTree(
		domain.QuestionNode{ID: "q1", Question: "?", Yes: domain.Reach("END_A")},
	).WithEndpoint("END_A", "A")

	assert.Equal(t, []string{"Dead end: 'q1' has no no branch"}, Lint(tree))
}

func TestLint_Cycle(t *testing.T) {
	tree := domain.NewTree(
		domain.QuestionNode{ID: "a_q1", Question: "?", Yes: domain.Continue("a_q2"), No: domain.Reach("END_A")},
		domain.QuestionNode{ID: "a_q2", Question: "?", Yes: domain.Continue("a_q1"), No: domain.Reach("END_A")},
	).WithEndpoint("END_A", "A")

	assert.Empty(t, Lint(tree))
}

func TestLint_NoRoot(t *testing.T) {
	err := ValidateTree(domain.NewTree())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNoRoot.Error())
}
