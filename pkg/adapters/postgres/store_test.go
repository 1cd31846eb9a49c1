package postgres

import (
	"testing"
	"time"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowRoundTrip(t *testing.T) {
	s := domain.NewSession("s1", "ada@example.com")
	s.Flags.Mark(domain.StageResume)
	s.Results.Set(domain.DomainResult{Domain: "Data", Outcome: domain.OutcomeUndetermined, Reason: "no root"})

	r, err := encodeRow(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"resume_done":true,"jd_done":false,"soft_skills_done":false,"technical_done":false}`, string(r.flags))

	back, err := decodeRow(s.ID, s.Email, s.CreatedAt.In(time.FixedZone("X", 3600)), r)
	require.NoError(t, err)
	assert.Equal(t, s.Flags, back.Flags)
	assert.Equal(t, s.Results, back.Results)
	assert.True(t, s.CreatedAt.Equal(back.CreatedAt))
	assert.Equal(t, time.UTC, back.CreatedAt.Location())
}

func TestRowWithoutResults(t *testing.T) {
	r, err := encodeRow(domain.NewSession("s1", "ada@example.com"))
	require.NoError(t, err)
	assert.Nil(t, r.results, "empty results are stored as NULL")

	back, err := decodeRow("s1", "ada@example.com", time.Now(), r)
	require.NoError(t, err)
	assert.Empty(t, back.Results)
}

func TestIdentifierIsQuoted(t *testing.T) {
	s := &Store{table: `odd"name`}
	assert.Equal(t, `"odd""name"`, s.ident())
}
