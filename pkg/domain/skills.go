package domain

import (
	"cmp"
	"slices"
)

// SkillScore is one entry of a soft-skills summary.
type SkillScore struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// RankSkills sorts a summary by score descending (ties by name) and keeps the first n.
// It also returns how many were left out.
func RankSkills(summary map[string]float64, n int) ([]SkillScore, int) {
	ranked := make([]SkillScore, 0, len(summary))
	for skill, score := range summary {
		ranked = append(ranked, SkillScore{Skill: skill, Score: score})
	}
	slices.SortFunc(ranked, func(a, b SkillScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Skill, b.Skill)
	})
	if n < 0 || len(ranked) <= n {
		return ranked, 0
	}
	return ranked[:n], len(ranked) - n
}
