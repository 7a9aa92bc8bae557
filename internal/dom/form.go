package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsSelect reports whether n is a <select> element.
func IsSelect(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == atom.Select
}

// Options returns the <option> descendants of a select.
func Options(n *html.Node) []*html.Node {
	return FindAll(n, "option")
}

// OptionValue returns the value attribute of an option, falling back to its
// text like browsers do.
func OptionValue(option *html.Node) string {
	if v, ok := lookupAttr(option, "value"); ok {
		return v
	}
	return strings.TrimSpace(TextContent(option))
}

// Value returns the current value of a form control. For a select that is
// the selected option's value, or the first option's when none is selected.
func Value(n *html.Node) string {
	if n == nil {
		return ""
	}
	if !IsSelect(n) {
		return Attr(n, "value")
	}

	options := Options(n)
	for _, o := range options {
		if HasAttr(o, "selected") {
			return OptionValue(o)
		}
	}
	if len(options) > 0 {
		return OptionValue(options[0])
	}

	return ""
}

// SetValue sets the value of a form control. For a select the first option
// with a matching value becomes the only selected one; it reports whether
// such an option exists.
func SetValue(n *html.Node, value string) bool {
	if n == nil {
		return false
	}
	if !IsSelect(n) {
		SetAttr(n, "value", value)
		return true
	}

	found := false
	for _, o := range Options(n) {
		if !found && OptionValue(o) == value {
			SetAttr(o, "selected", "")
			found = true
			continue
		}
		RemoveAttr(o, "selected")
	}

	return found
}

// NewOption builds a detached <option>.
func NewOption(value, text string) *html.Node {
	o := NewElement(atom.Option, html.Attribute{Key: "value", Val: value})
	SetTextContent(o, text)
	return o
}
