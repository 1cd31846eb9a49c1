package domain

// WalkState is the position of one decision-tree walk.
type WalkState struct {
	// Domain is the technical domain whose tree is walked.
	Domain string `json:"domain"`

	// CurrentNodeID is the question node currently shown.
	CurrentNodeID string `json:"current_node_id"`

	// History is the stack of previously visited nodes, most recent last.
	History []string `json:"history"`
}

// NewWalkState creates a walk positioned at root with an empty history.
func NewWalkState(domainName, root string) *WalkState {
	return &WalkState{
		Domain:        domainName,
		CurrentNodeID: root,
		History:       []string{},
	}
}

// Snapshot returns a deep copy of the state.
func (s *WalkState) Snapshot() *WalkState {
	if s == nil {
		return nil
	}
	c := *s
	c.History = make([]string, len(s.History))
	copy(c.History, s.History)
	return &c
}

// Depth returns the history length.
func (s *WalkState) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.History)
}
