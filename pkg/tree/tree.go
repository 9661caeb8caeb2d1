// Package tree turns parsed values into a collapsible outline.
package tree

import (
	"strconv"
	"strings"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// Node is one line of the outline. Branches are non-empty objects and
// arrays; everything else is a leaf carrying its display text.
type Node struct {
	Key      string         `json:"key"`
	Path     string         `json:"path"`
	Kind     jsonvalue.Kind `json:"-"`
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Children []*Node        `json:"children,omitempty"`
	Expanded bool           `json:"expanded"`
}

// IsBranch reports whether the node has children to show or hide.
func (n *Node) IsBranch() bool { return len(n.Children) > 0 }

// Toggle flips the expanded state of a branch. Leaves are left alone.
func (n *Node) Toggle() {
	if n.IsBranch() {
		n.Expanded = !n.Expanded
	}
}

// Build returns the top-level nodes for v: one per member of an object or
// element of an array. A scalar root becomes a single leaf with an empty key
// and its plain text. Branches start expanded.
func Build(v *jsonvalue.Value) []*Node {
	switch v.Kind() {
	case jsonvalue.KindObject, jsonvalue.KindArray:
		return children(v, "")
	default:
		return []*Node{{Kind: v.Kind(), Type: v.Kind().String(), Text: v.Text()}}
	}
}

func children(v *jsonvalue.Value, path string) []*Node {
	var out []*Node
	if v.Kind() == jsonvalue.KindArray {
		for i, item := range v.Items() {
			key := strconv.Itoa(i)
			out = append(out, build(key, path+"/"+key, item))
		}
		return out
	}
	for _, m := range v.Object().Members() {
		out = append(out, build(m.Key, path+"/"+escapeToken(m.Key), m.Value))
	}
	return out
}

func build(key, path string, v *jsonvalue.Value) *Node {
	n := &Node{Key: key, Path: path, Kind: v.Kind(), Type: v.Kind().String()}
	switch v.Kind() {
	case jsonvalue.KindObject, jsonvalue.KindArray:
		if v.Len() == 0 {
			n.Text = openChar(v.Kind()) + closeChar(v.Kind())
			return n
		}
		n.Children = children(v, path)
		n.Expanded = true
	case jsonvalue.KindString:
		n.Text = jsonvalue.Quote(v.StringValue())
	default:
		n.Text = v.Text()
	}
	return n
}

// Find returns the node at the JSON Pointer path, or nil.
func Find(nodes []*Node, path string) *Node {
	for _, n := range nodes {
		if n.Path == path {
			return n
		}
		if strings.HasPrefix(path, n.Path+"/") {
			return Find(n.Children, path)
		}
	}
	return nil
}

// ExpandTo expands branches shallower than depth and collapses the rest.
// Depth 1 shows only the top-level lines; a negative depth expands everything.
func ExpandTo(nodes []*Node, depth int) {
	for _, n := range nodes {
		if !n.IsBranch() {
			continue
		}
		n.Expanded = depth < 0 || depth > 1
		ExpandTo(n.Children, depth-1)
	}
}

// Render draws the outline as text, two spaces per level. Expanded branches
// are marked ▼ and list their children followed by the closing bracket;
// collapsed branches are marked ▶ and shown on one line.
func Render(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		render(&b, n, "")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func render(b *strings.Builder, n *Node, indent string) {
	label := ""
	if n.Key != "" || n.Path != "" {
		label = jsonvalue.Quote(n.Key) + ": "
	}

	switch {
	case !n.IsBranch():
		b.WriteString(indent + label + n.Text + "\n")
	case n.Expanded:
		b.WriteString(indent + "▼ " + label + openChar(n.Kind) + "\n")
		for _, c := range n.Children {
			render(b, c, indent+"  ")
		}
		b.WriteString(indent + closeChar(n.Kind) + "\n")
	default:
		b.WriteString(indent + "▶ " + label + openChar(n.Kind) + "…" + closeChar(n.Kind) + "\n")
	}
}

func openChar(k jsonvalue.Kind) string {
	if k == jsonvalue.KindArray {
		return "["
	}
	return "{"
}

func closeChar(k jsonvalue.Kind) string {
	if k == jsonvalue.KindArray {
		return "]"
	}
	return "}"
}

func escapeToken(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
