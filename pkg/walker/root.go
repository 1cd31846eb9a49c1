package walker

import (
	"sort"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
)

// RootSuffix marks the first question of a domain tree, e.g. "java_q1".
const RootSuffix = "_q1"

// DetectRoot picks the starting node of a tree.
// It prefers an ID ending in "_q1", then one containing "q1", then the first ID in
// source order. Endpoints are never candidates. It returns "" for an empty tree.
func DetectRoot(tree *domain.DecisionTree) string {
	if tree == nil {
		return ""
	}
	keys := tree.Order
	if len(keys) == 0 && len(tree.Nodes) > 0 {
		keys = make([]string, 0, len(tree.Nodes))
		for id := range tree.Nodes {
			keys = append(keys, id)
		}
		sort.Strings(keys)
	}
	candidates := make([]string, 0, len(keys))
	for _, id := range keys {
		if _, isEndpoint := tree.Endpoints[id]; isEndpoint {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return ""
	}
	for _, id := range candidates {
		if strings.HasSuffix(id, RootSuffix) {
			return id
		}
	}
	for _, id := range candidates {
		if strings.Contains(id, "q1") {
			return id
		}
	}
	return candidates[0]
}
