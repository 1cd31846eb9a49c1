package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/walker"
)

// ValidateTree crawls a decision tree from its detected root and reports broken
// references, unknown or empty endpoints, dead-end branches and unreachable nodes.
// Trees with such issues still walk (they end in Undetermined); the lint is for authors.
func ValidateTree(tree *domain.DecisionTree) error {
	issues := Lint(tree)
	if len(issues) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(issues), strings.Join(issues, "\n- "))
	}
	return nil
}

// Lint returns the issues found in tree, in crawl order.
func Lint(tree *domain.DecisionTree) []string {
	root := walker.DetectRoot(tree)
	if root == "" {
		return []string{domain.ErrNoRoot.Error()}
	}

	var issues []string
	visited := make(map[string]bool)
	queue := []string{root}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		node, ok := tree.Node(currentID)
		if !ok {
			issues = append(issues, fmt.Sprintf("Missing node: '%s'", currentID))
			continue
		}

		for _, choice := range []domain.Choice{domain.Yes, domain.No} {
			ref := node.Branch(choice)
			switch ref.Kind {
			case domain.RefNone:
				issues = append(issues, fmt.Sprintf("Dead end: '%s' has no %s branch", currentID, choice))
			case domain.RefReach:
				roles, known := tree.Endpoints[ref.ID]
				switch {
				case !known:
					issues = append(issues, fmt.Sprintf("Unknown endpoint: '%s' (from '%s' on %s)", ref.ID, currentID, choice))
				case len(roles) == 0:
					issues = append(issues, fmt.Sprintf("Empty endpoint: '%s'", ref.ID))
				}
			case domain.RefContinue:
				if !visited[ref.ID] {
					queue = append(queue, ref.ID)
				}
			}
		}
	}

	for _, id := range sortedIDs(tree) {
		if !visited[id] {
			issues = append(issues, fmt.Sprintf("Unreachable node: '%s'", id))
		}
	}

	return dedupe(issues)
}

func sortedIDs(tree *domain.DecisionTree) []string {
	if len(tree.Order) == len(tree.Nodes) {
		return tree.Order
	}
	ids := make([]string, 0, len(tree.Nodes))
	for id := range tree.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func dedupe(issues []string) []string {
	seen := make(map[string]bool, len(issues))
	out := issues[:0]
	for _, s := range issues {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
