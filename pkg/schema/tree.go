package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EndpointsKey is the reserved document key holding the endpoint table.
const EndpointsKey = "endpoints"

// EndpointPrefix marks endpoint IDs in documents whose endpoint table is incomplete.
const EndpointPrefix = "END_"

type nodeBody struct {
	Question string `mapstructure:"question"`
	Yes      string `mapstructure:"yes"`
	No       string `mapstructure:"no"`
}

// ParseTree converts a flat tree document (JSON or YAML) into a DecisionTree.
//
// The document maps node IDs to {question, yes, no} bodies and reserves the
// "endpoints" key for the endpoint table. Node order follows the document. A branch
// naming an endpoint (or carrying the END_ prefix) becomes a Reach, a missing branch
// becomes None, anything else a Continue, even when the target does not exist.
// Null node bodies are dropped. Malformed documents return an error matching
// domain.ErrInvalidTree.
//
// JSON documents follow JSON.parse semantics for repeated keys: the last value wins
// and the key keeps its first position.
func ParseTree(data []byte) (*domain.DecisionTree, error) {
	doc, ok := jsonDocument(data)
	if !ok {
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTree, err)
		}
		if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidTree)
		}
		doc = root.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: document must be a mapping", domain.ErrInvalidTree)
	}

	var generic map[string]any
	if err := doc.Decode(&generic); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTree, err)
	}
	if err := validateDocument(generic); err != nil {
		return nil, err
	}

	tree := domain.NewTree()
	bodies := make(map[string]nodeBody)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		id := doc.Content[i].Value
		if id == EndpointsKey {
			var endpoints map[string][]string
			if err := doc.Content[i+1].Decode(&endpoints); err != nil {
				return nil, fmt.Errorf("%w: endpoints: %v", domain.ErrInvalidTree, err)
			}
			for eid, roles := range endpoints {
				tree.WithEndpoint(eid, roles...)
			}
			continue
		}
		raw, ok := generic[id].(map[string]any)
		if !ok {
			continue
		}
		var body nodeBody
		if err := mapstructure.Decode(raw, &body); err != nil {
			return nil, &AggregateError{Errors: []error{&ValidationError{Key: id, Reason: err.Error(), Value: raw}}}
		}
		bodies[id] = body
		tree.Order = append(tree.Order, id)
	}

	for _, id := range tree.Order {
		body := bodies[id]
		tree.Nodes[id] = domain.QuestionNode{
			ID:       id,
			Question: body.Question,
			Yes:      Classify(tree, body.Yes),
			No:       Classify(tree, body.No),
		}
	}
	return tree, nil
}

// jsonDocument reads a JSON object into a mapping node. Repeated keys keep their
// first position and their last value. It reports false for anything that is not a
// well-formed JSON object, leaving it to the YAML parser.
func jsonDocument(data []byte) (*yaml.Node, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}

	var order []string
	values := make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, false
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = v
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range order {
		value := &yaml.Node{}
		if err := value.Encode(values[key]); err != nil {
			return nil, false
		}
		doc.Content = append(doc.Content, scalar(key), value)
	}
	return doc, true
}

// Classify turns a branch target into a Ref: empty is None, an endpoint of tree
// (or an END_ ID) is a Reach, anything else a Continue.
func Classify(tree *domain.DecisionTree, target string) domain.Ref {
	target = strings.TrimSpace(target)
	if target == "" {
		return domain.None
	}
	if _, ok := tree.Endpoints[target]; ok || strings.HasPrefix(target, EndpointPrefix) {
		return domain.Reach(target)
	}
	return domain.Continue(target)
}

// MarshalTree writes a tree back to the flat document form, keeping node order.
func MarshalTree(tree *domain.DecisionTree) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range tree.Order {
		n, ok := tree.Nodes[id]
		if !ok {
			continue
		}
		body := &yaml.Node{Kind: yaml.MappingNode}
		appendPair(body, "question", n.Question)
		if !n.Yes.IsNone() {
			appendPair(body, "yes", n.Yes.ID)
		}
		if !n.No.IsNone() {
			appendPair(body, "no", n.No.ID)
		}
		doc.Content = append(doc.Content, scalar(id), body)
	}
	if len(tree.Endpoints) > 0 {
		eps := &yaml.Node{}
		if err := eps.Encode(tree.Endpoints); err != nil {
			return nil, err
		}
		doc.Content = append(doc.Content, scalar(EndpointsKey), eps)
	}
	return yaml.Marshal(doc)
}

func appendPair(m *yaml.Node, key, value string) {
	m.Content = append(m.Content, scalar(key), scalar(value))
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
