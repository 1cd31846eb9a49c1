package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/walker"
)

// GraphOverlay contains walk state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds an overlay from a walk position.
func OverlayFromState(state *domain.WalkState) *GraphOverlay {
	if state == nil {
		return nil
	}
	return &GraphOverlay{
		VisitedNodes: append([]string(nil), state.History...),
		CurrentNode:  state.CurrentNodeID,
	}
}

// GenerateMermaid produces a Mermaid flowchart of a decision tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Question: [/Parallelogram/]
// - Endpoint: [[Subroutine]] labelled with its roles
// - Missing target: [Rectangle], dashed edge
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(tree *domain.DecisionTree, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if tree == nil {
		return sb.String()
	}

	root := walker.DetectRoot(tree)
	var endpoints, missing []string

	for _, id := range tree.Order {
		node, ok := tree.Node(id)
		if !ok {
			continue
		}
		safeID := sanitizeMermaidID(id)

		opener, closer := "[/", "/]"
		if id == root {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(node.Question), closer)

		for _, choice := range []domain.Choice{domain.Yes, domain.No} {
			ref := node.Branch(choice)
			switch ref.Kind {
			case domain.RefContinue:
				arrow := fmt.Sprintf("-- %s -->", choice)
				if _, ok := tree.Node(ref.ID); !ok {
					arrow = fmt.Sprintf("-. %s .->", choice)
					missing = appendOnce(missing, ref.ID)
				}
				fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(ref.ID))
			case domain.RefReach:
				endpoints = appendOnce(endpoints, ref.ID)
				fmt.Fprintf(&sb, "    %s -- %s --> %s\n", safeID, choice, endpointID(ref.ID))
			}
		}
	}

	for _, id := range endpoints {
		label := id
		if roles := tree.Roles(id); len(roles) > 0 {
			label = strings.Join(roles, "<br/>")
		}
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", endpointID(id), escapeLabel(label))
	}
	for _, id := range missing {
		fmt.Fprintf(&sb, "    %s[\"%s (missing)\"]\n", sanitizeMermaidID(id), escapeLabel(id))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func appendOnce(list []string, id string) []string {
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}

// endpointID keeps endpoint vertices apart from question vertices with the same ID.
func endpointID(id string) string {
	return "end_" + sanitizeMermaidID(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
