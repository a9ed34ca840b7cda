package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidGraph = errors.New("prefabs: invalid graph")

type NodeType string

const (
	NodeEvent     NodeType = "Event"
	NodeAction    NodeType = "Action"
	NodeNarrative NodeType = "Narrative"
	NodeConductor NodeType = "Conductor"
	NodeSynapse   NodeType = "Synapse"
)

func (t NodeType) Known() bool {
	switch t {
	case NodeEvent, NodeAction, NodeNarrative, NodeConductor, NodeSynapse:
		return true
	}
	return false
}

type GraphNode struct {
	ID    string         `yaml:"id" json:"id"`
	Type  NodeType       `yaml:"type" json:"type"`
	Label string         `yaml:"label" json:"label"`
	Data  map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
}

// DataString returns Data[key] as a string, or def when absent.
func (n GraphNode) DataString(key, def string) string {
	v, ok := n.Data[key]
	if !ok || v == nil {
		return def
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return def
	}
	return s
}

type Wire struct {
	ID       string `yaml:"id" json:"id"`
	FromNode string `yaml:"from_node" json:"fromNode"`
	FromPin  string `yaml:"from_pin" json:"fromPin"`
	ToNode   string `yaml:"to_node" json:"toNode"`
	ToPin    string `yaml:"to_pin" json:"toPin"`
}

// IsExecPin reports whether a pin carries execution flow.
func IsExecPin(pin string) bool {
	return strings.Contains(strings.ToLower(pin), "exec")
}

// Graph is an immutable logic graph with id indexes.
type Graph struct {
	nodes    []GraphNode
	wires    []Wire
	byID     map[string]int
	outgoing map[string][]int
}

type graphFile struct {
	Nodes []GraphNode `yaml:"nodes"`
	Wires []wireDoc   `yaml:"wires"`
}

// wireDoc accepts both the snake_case YAML keys and the camelCase keys of
// JSON exports.
type wireDoc struct {
	ID            string `yaml:"id"`
	FromNode      string `yaml:"from_node"`
	FromPin       string `yaml:"from_pin"`
	ToNode        string `yaml:"to_node"`
	ToPin         string `yaml:"to_pin"`
	FromNodeCamel string `yaml:"fromNode"`
	FromPinCamel  string `yaml:"fromPin"`
	ToNodeCamel   string `yaml:"toNode"`
	ToPinCamel    string `yaml:"toPin"`
}

func (w wireDoc) wire() Wire {
	return Wire{
		ID:       w.ID,
		FromNode: firstNonEmpty(w.FromNode, w.FromNodeCamel),
		FromPin:  firstNonEmpty(w.FromPin, w.FromPinCamel),
		ToNode:   firstNonEmpty(w.ToNode, w.ToNodeCamel),
		ToPin:    firstNonEmpty(w.ToPin, w.ToPinCamel),
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// NewGraph indexes nodes and wires. Duplicate node ids are rejected.
func NewGraph(nodes []GraphNode, wires []Wire) (*Graph, error) {
	g := &Graph{
		nodes:    append([]GraphNode(nil), nodes...),
		wires:    append([]Wire(nil), wires...),
		byID:     make(map[string]int, len(nodes)),
		outgoing: make(map[string][]int),
	}
	for i, n := range g.nodes {
		if strings.TrimSpace(n.ID) == "" {
			return nil, fmt.Errorf("%w: node %d has no id", ErrInvalidGraph, i)
		}
		if _, dup := g.byID[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %s", ErrInvalidGraph, n.ID)
		}
		g.byID[n.ID] = i
	}
	for i, w := range g.wires {
		g.outgoing[w.FromNode] = append(g.outgoing[w.FromNode], i)
	}
	return g, nil
}

// EmptyGraph has no nodes; every lookup is a no-op.
func EmptyGraph() *Graph {
	g, _ := NewGraph(nil, nil)
	return g
}

// ParseGraph decodes a YAML or JSON graph document.
func ParseGraph(data []byte) (*Graph, error) {
	var file graphFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}
	wires := make([]Wire, 0, len(file.Wires))
	for _, w := range file.Wires {
		wires = append(wires, w.wire())
	}
	return NewGraph(file.Nodes, wires)
}

// LoadGraph reads and parses a graph file.
func LoadGraph(name string) (*Graph, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	g, err := ParseGraph(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: parse %s: %w", name, err)
	}
	return g, nil
}

func (g *Graph) Node(id string) (GraphNode, bool) {
	if g == nil {
		return GraphNode{}, false
	}
	i, ok := g.byID[id]
	if !ok {
		return GraphNode{}, false
	}
	return g.nodes[i], true
}

// ExecTargets resolves the nodes reached from id through exec pins, in wire
// order. Wires pointing at missing nodes are skipped.
func (g *Graph) ExecTargets(id string) []GraphNode {
	if g == nil {
		return nil
	}
	var out []GraphNode
	for _, wi := range g.outgoing[id] {
		w := g.wires[wi]
		if !IsExecPin(w.FromPin) {
			continue
		}
		if n, ok := g.Node(w.ToNode); ok {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) Nodes() []GraphNode {
	if g == nil {
		return nil
	}
	return append([]GraphNode(nil), g.nodes...)
}

func (g *Graph) Wires() []Wire {
	if g == nil {
		return nil
	}
	return append([]Wire(nil), g.wires...)
}

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
)

type Issue struct {
	Severity Severity
	Subject  string
	Message  string
}

// Validate reports structural problems that the interpreter tolerates but
// an author probably did not intend.
func (g *Graph) Validate() []Issue {
	if g == nil {
		return nil
	}
	var issues []Issue
	for _, n := range g.nodes {
		if !n.Type.Known() {
			issues = append(issues, Issue{SeverityWarn, n.ID, fmt.Sprintf("unknown node type %q", n.Type)})
		}
		if n.Type == NodeEvent && len(g.ExecTargets(n.ID)) == 0 {
			issues = append(issues, Issue{SeverityWarn, n.ID, "event node has no exec wires"})
		}
	}
	for _, w := range g.wires {
		if _, ok := g.Node(w.FromNode); !ok {
			issues = append(issues, Issue{SeverityError, w.ID, fmt.Sprintf("wire source %q does not exist", w.FromNode)})
		}
		if _, ok := g.Node(w.ToNode); !ok {
			issues = append(issues, Issue{SeverityError, w.ID, fmt.Sprintf("wire target %q does not exist", w.ToNode)})
		}
	}
	return issues
}
