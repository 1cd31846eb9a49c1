package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
)

// ResultMarkdown renders the final report: one row per domain in candidate order,
// then the ranked soft skills and how many more were analyzed.
func ResultMarkdown(results domain.Results, skills []domain.SkillScore, more int) string {
	var b strings.Builder

	b.WriteString("# Assessment result\n\n")
	b.WriteString("## Technical domains\n\n")
	if len(results) == 0 {
		b.WriteString("_No technical domain was matched._\n\n")
	} else {
		b.WriteString("| Domain | Recommended roles |\n|---|---|\n")
		for _, r := range results {
			fmt.Fprintf(&b, "| %s | %s |\n", escape(r.Domain), escape(string(r.Outcome)))
		}
		b.WriteString("\n")
	}

	if len(skills) > 0 {
		b.WriteString("## Top soft skills\n\n")
		for i, s := range skills {
			fmt.Fprintf(&b, "%d. **%s** (%.1f)\n", i+1, escape(s.Skill), s.Score)
		}
		if more > 0 {
			fmt.Fprintf(&b, "\n_%d more skills analyzed._\n", more)
		}
	}

	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
