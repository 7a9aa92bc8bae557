// Package dom provides a small DOM layer over golang.org/x/net/html for
// statically rendered pages: id lookup, template cloning, visibility and
// form control values.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrNotFound is returned when no element carries the requested id.
	ErrNotFound = errors.New("element not found")

	// ErrNotTemplate is returned when the element is not a <template>.
	ErrNotTemplate = errors.New("element is not a template")
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse parses a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return &Document{doc: doc}, nil
}

// ParseString parses a full HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.doc.Nodes[0]
}

// ElementByID returns the first element with the given id, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}

	sel := d.doc.Find(idSelector(id)).First()
	if sel.Length() == 0 {
		return nil
	}

	return sel.Get(0)
}

// CloneTemplate clones the content of the <template> with the given id.
func (d *Document) CloneTemplate(id string) (*Fragment, error) {
	n := d.ElementByID(id)
	if n == nil {
		return nil, fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	if !IsTemplate(n) {
		return nil, fmt.Errorf("element %q: %w", id, ErrNotTemplate)
	}

	return TemplateContent(n), nil
}

// Render serializes the document.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.Root()); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}

	return buf.String(), nil
}

func idSelector(id string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id)
	return `[id="` + escaped + `"]`
}

// Find returns the first descendant of n matching selector, or nil.
func Find(n *html.Node, selector string) *html.Node {
	if n == nil {
		return nil
	}

	sel := goquery.NewDocumentFromNode(n).Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}

	return sel.Get(0)
}

// FindAll returns every descendant of n matching selector.
func FindAll(n *html.Node, selector string) []*html.Node {
	if n == nil {
		return nil
	}

	return goquery.NewDocumentFromNode(n).Find(selector).Nodes
}

// IsTemplate reports whether n is a <template> element.
func IsTemplate(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == atom.Template
}

// CloneNode deep-copies n. The copy is detached.
func CloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(CloneNode(ch))
	}

	return c
}

// ShallowClone copies n without its children.
func ShallowClone(n *html.Node) *html.Node {
	return &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
}

// TemplateContent clones the children of a <template> into a fragment.
func TemplateContent(n *html.Node) *Fragment {
	f := NewFragment()
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		f.Append(CloneNode(ch))
	}

	return f
}

// NewElement creates a detached element.
func NewElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := lookupAttr(n, key)
	return ok
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}

// SetAttr sets attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// Dataset returns the data-* attributes of n keyed without the prefix.
func Dataset(n *html.Node) map[string]string {
	data := make(map[string]string)
	if n == nil {
		return data
	}
	for _, a := range n.Attr {
		if key, ok := strings.CutPrefix(a.Key, "data-"); ok && a.Namespace == "" {
			data[key] = a.Val
		}
	}

	return data
}

// SetHidden toggles the hidden attribute.
func SetHidden(n *html.Node, hidden bool) {
	if n == nil {
		return
	}
	if hidden {
		SetAttr(n, "hidden", "")
		return
	}
	RemoveAttr(n, "hidden")
}

// IsHidden reports whether n carries the hidden attribute.
func IsHidden(n *html.Node) bool {
	return HasAttr(n, "hidden")
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// ReplaceChildren swaps the children of n for the fragment's nodes.
// The fragment is left empty.
func ReplaceChildren(n *html.Node, f *Fragment) {
	RemoveChildren(n)
	if f == nil {
		return
	}
	for _, ch := range f.take() {
		n.AppendChild(ch)
	}
}

// InsertAfter inserts the detached node n right after ref.
func InsertAfter(ref, n *html.Node) {
	if ref.Parent == nil {
		return
	}
	if ref.NextSibling == nil {
		ref.Parent.AppendChild(n)
		return
	}
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// ChildElementCount counts the element children of n.
func ChildElementCount(n *html.Node) int {
	if n == nil {
		return 0
	}
	count := 0
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			count++
		}
	}

	return count
}

// FirstElementChild returns the first element child of n, or nil.
func FirstElementChild(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			return ch
		}
	}

	return nil
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		sb.WriteString(TextContent(ch))
	}

	return sb.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	RemoveChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// RenderNode serializes a single node.
func RenderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("rendering node: %w", err)
	}

	return buf.String(), nil
}
