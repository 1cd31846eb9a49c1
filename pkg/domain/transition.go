package domain

import (
	"fmt"
	"strings"
)

// RefKind discriminates the target of a branch.
type RefKind uint8

const (
	// RefNone means no branch is defined for the answer (a dead end).
	RefNone RefKind = iota
	// RefContinue points at another question node.
	RefContinue
	// RefReach points at an entry of the endpoint table.
	RefReach
)

func (k RefKind) String() string {
	switch k {
	case RefContinue:
		return "continue"
	case RefReach:
		return "reach"
	}
	return "none"
}

// Ref is the tagged target of a yes/no branch: Continue(node) | Reach(endpoint) | None.
type Ref struct {
	Kind RefKind
	ID   string
}

// None is the empty branch.
var None = Ref{}

// Continue references another question node.
func Continue(nodeID string) Ref {
	return Ref{Kind: RefContinue, ID: nodeID}
}

// Reach references an endpoint.
func Reach(endpointID string) Ref {
	return Ref{Kind: RefReach, ID: endpointID}
}

// IsNone reports whether the branch is undefined.
func (r Ref) IsNone() bool {
	return r.Kind == RefNone
}

func (r Ref) String() string {
	if r.Kind == RefNone {
		return "none"
	}
	return fmt.Sprintf("%s(%s)", r.Kind, r.ID)
}

// Choice is the user's answer at a question node.
type Choice string

const (
	Yes Choice = "yes"
	No  Choice = "no"
)

// ParseChoice accepts yes/no (and y/n, true/false) in any letter case.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		return Yes, nil
	case "no", "n", "false":
		return No, nil
	}
	return "", fmt.Errorf("%w: %q (expected yes/no)", ErrInvalidChoice, s)
}
