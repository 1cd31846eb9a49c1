package domain

// QuestionNode is one yes/no question of a decision tree.
type QuestionNode struct {
	ID       string
	Question string
	Yes      Ref
	No       Ref
}

// Branch returns the reference followed for the given choice.
func (n QuestionNode) Branch(c Choice) Ref {
	if c == Yes {
		return n.Yes
	}
	return n.No
}

// DecisionTree is the graph of question nodes walked for one technical domain,
// plus the table of endpoints that resolve to recommended roles.
// It is immutable once handed to a walker.
type DecisionTree struct {
	// Nodes maps node IDs to question nodes.
	Nodes map[string]QuestionNode
	// Order is the source order of the node IDs.
	Order []string
	// Endpoints maps endpoint IDs to an ordered list of role names.
	Endpoints map[string][]string
}

// NewTree builds a tree from nodes, keeping their argument order.
func NewTree(nodes ...QuestionNode) *DecisionTree {
	t := &DecisionTree{
		Nodes:     make(map[string]QuestionNode, len(nodes)),
		Order:     make([]string, 0, len(nodes)),
		Endpoints: make(map[string][]string),
	}
	for _, n := range nodes {
		t.AddNode(n)
	}
	return t
}

// AddNode appends (or replaces) a node. Replacing keeps the original position.
func (t *DecisionTree) AddNode(n QuestionNode) {
	if t.Nodes == nil {
		t.Nodes = make(map[string]QuestionNode)
	}
	if _, exists := t.Nodes[n.ID]; !exists {
		t.Order = append(t.Order, n.ID)
	}
	t.Nodes[n.ID] = n
}

// WithEndpoint registers roles for an endpoint and returns the tree for chaining.
func (t *DecisionTree) WithEndpoint(id string, roles ...string) *DecisionTree {
	if t.Endpoints == nil {
		t.Endpoints = make(map[string][]string)
	}
	t.Endpoints[id] = append([]string(nil), roles...)
	return t
}

// Node looks up a question node.
func (t *DecisionTree) Node(id string) (QuestionNode, bool) {
	if t == nil {
		return QuestionNode{}, false
	}
	n, ok := t.Nodes[id]
	return n, ok
}

// Roles returns the roles of an endpoint (nil when unknown).
func (t *DecisionTree) Roles(endpointID string) []string {
	if t == nil {
		return nil
	}
	return t.Endpoints[endpointID]
}

// Len returns the number of question nodes.
func (t *DecisionTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}
