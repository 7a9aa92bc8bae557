package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Fragment is an ordered list of detached nodes, the counterpart of a
// DocumentFragment: appending it to an element moves its nodes there.
type Fragment struct {
	nodes []*html.Node
}

// NewFragment creates an empty fragment.
func NewFragment() *Fragment {
	return &Fragment{}
}

// Append adds detached nodes. Attached nodes are detached first.
func (f *Fragment) Append(nodes ...*html.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		f.nodes = append(f.nodes, n)
	}
}

// AppendFragment moves every node of other into f.
func (f *Fragment) AppendFragment(other *Fragment) {
	if other == nil {
		return
	}
	f.nodes = append(f.nodes, other.take()...)
}

// Len returns the number of top-level nodes.
func (f *Fragment) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

// Nodes returns the top-level nodes.
func (f *Fragment) Nodes() []*html.Node {
	return f.nodes
}

// FirstElement returns the first top-level element, or nil.
func (f *Fragment) FirstElement() *html.Node {
	for _, n := range f.nodes {
		if n.Type == html.ElementNode {
			return n
		}
	}

	return nil
}

// Render serializes the fragment.
func (f *Fragment) Render() (string, error) {
	var sb strings.Builder
	for _, n := range f.nodes {
		s, err := RenderNode(n)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}

	return sb.String(), nil
}

func (f *Fragment) take() []*html.Node {
	nodes := f.nodes
	f.nodes = nil
	return nodes
}
