package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeFromRoles(t *testing.T) {
	assert.Equal(t, domain.Outcome("Backend Engineer, API Developer"),
		domain.OutcomeFromRoles([]string{"Backend Engineer", "API Developer"}))
	assert.Equal(t, domain.OutcomeUndetermined, domain.OutcomeFromRoles(nil))
	assert.False(t, domain.OutcomeUndetermined.Determined())
	assert.True(t, domain.Outcome("Data Engineer").Determined())
}

func TestResults_SetReplacesInPlace(t *testing.T) {
	var r domain.Results
	r.Set(domain.DomainResult{Domain: "Backend", Outcome: "A"})
	r.Set(domain.DomainResult{Domain: "Data", Outcome: "B"})
	r.Set(domain.DomainResult{Domain: "Backend", Outcome: "C"})

	assert.Equal(t, []string{"Backend", "Data"}, r.Domains())
	out, ok := r.Get("Backend")
	assert.True(t, ok)
	assert.Equal(t, domain.Outcome("C"), out)
	_, ok = r.Get("Frontend")
	assert.False(t, ok)
}

func TestOutcomeMap_KeepsCandidateOrder(t *testing.T) {
	r := domain.Results{
		{Domain: "Zeta", Outcome: "Z Role"},
		{Domain: "Backend", Outcome: "Backend Engineer, API Developer"},
		{Domain: "Data", Outcome: domain.OutcomeUndetermined},
	}

	b, err := json.Marshal(domain.OutcomeMap(r))
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":"Z Role","Backend":"Backend Engineer, API Developer","Data":"Undetermined"}`, string(b))

	b, err = json.Marshal(domain.OutcomeMap(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestResults_JSONRoundTripKeepsReason(t *testing.T) {
	r := domain.Results{{Domain: "Data", Outcome: domain.OutcomeUndetermined, Reason: "no root"}}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var back domain.Results
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r, back)
}

func TestRankSkills(t *testing.T) {
	top, more := domain.RankSkills(map[string]float64{"b": 2, "a": 2, "c": 5}, 2)

	assert.Equal(t, []domain.SkillScore{{Skill: "c", Score: 5}, {Skill: "a", Score: 2}}, top)
	assert.Equal(t, 1, more)

	top, more = domain.RankSkills(nil, 5)
	assert.Empty(t, top)
	assert.Zero(t, more)
}
