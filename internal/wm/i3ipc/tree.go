package i3ipc

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Layout is a container layout as reported by the window manager.
type Layout string

// Container layouts.
const (
	LayoutSplitH   Layout = "splith"
	LayoutSplitV   Layout = "splitv"
	LayoutStacked  Layout = "stacked"
	LayoutTabbed   Layout = "tabbed"
	LayoutOutput   Layout = "output"
	LayoutDockArea Layout = "dockarea"
)

// Tree is a snapshot of the window manager's container tree.
type Tree struct {
	Root Node
}

// ParseTree parses a GET_TREE reply.
func ParseTree(data []byte) (*Tree, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse tree: invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("parse tree: root is %s, want object", root.Type)
	}
	return &Tree{Root: Node{raw: root}}, nil
}

// Node is one container in the tree.
type Node struct {
	raw gjson.Result
}

// ID returns the container id used in [con_id=...] criteria.
func (n Node) ID() int64 { return n.raw.Get("id").Int() }

// Name returns the container name; for windows this is the title.
func (n Node) Name() string { return n.raw.Get("name").String() }

// Layout returns the container layout.
func (n Node) Layout() Layout { return Layout(n.raw.Get("layout").String()) }

// Type returns the container type, such as "con" or "workspace".
func (n Node) Type() string { return n.raw.Get("type").String() }

// Focused reports whether the container has focus.
func (n Node) Focused() bool { return n.raw.Get("focused").Bool() }

// Children returns the tiling children followed by the floating ones.
func (n Node) Children() []Node {
	var out []Node
	for _, key := range []string{"nodes", "floating_nodes"} {
		n.raw.Get(key).ForEach(func(_, v gjson.Result) bool {
			out = append(out, Node{raw: v})
			return true
		})
	}
	return out
}

// Find returns the first node, depth first, for which pred is true.
func (t *Tree) Find(pred func(Node) bool) (Node, bool) {
	var walk func(Node) (Node, bool)
	walk = func(n Node) (Node, bool) {
		if pred(n) {
			return n, true
		}
		for _, c := range n.Children() {
			if found, ok := walk(c); ok {
				return found, true
			}
		}
		return Node{}, false
	}
	return walk(t.Root)
}

// FindParent returns the first node matching pred together with the
// container that directly holds it. The root has no parent and is never
// returned as a match.
func (t *Tree) FindParent(pred func(Node) bool) (parent, child Node, ok bool) {
	var walk func(Node) (Node, Node, bool)
	walk = func(n Node) (Node, Node, bool) {
		for _, c := range n.Children() {
			if pred(c) {
				return n, c, true
			}
			if p, ch, ok := walk(c); ok {
				return p, ch, true
			}
		}
		return Node{}, Node{}, false
	}
	return walk(t.Root)
}

// ByName matches nodes whose name equals name.
func ByName(name string) func(Node) bool {
	return func(n Node) bool { return n.Name() == name }
}
