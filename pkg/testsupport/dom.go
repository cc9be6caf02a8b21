package testsupport

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page with lookups modelled on the queries UI
// tests usually reach for (by test id, by label, by text, by role).
type Document struct {
	root *html.Node
}

// ParseHTML parses markup or fails the test.
func ParseHTML(t *testing.T, markup []byte) *Document {
	t.Helper()
	root, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return &Document{root: root}
}

// AllByTestID returns every element carrying data-testid=id.
func (d *Document) AllByTestID(id string) []*html.Node {
	return d.findAll(func(n *html.Node) bool {
		return Attr(n, "data-testid") == id
	})
}

// ByTestID returns the first element carrying data-testid=id, or nil.
func (d *Document) ByTestID(id string) *html.Node {
	if nodes := d.AllByTestID(id); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// ByText returns elements whose own text (direct text children, trimmed and
// whitespace-collapsed) equals text.
func (d *Document) ByText(text string) []*html.Node {
	want := collapse(text)
	return d.findAll(func(n *html.Node) bool {
		return ownText(n) == want
	})
}

// MatchText returns elements whose full text content matches pattern.
// Only the innermost matching elements are returned.
func (d *Document) MatchText(pattern *regexp.Regexp) []*html.Node {
	matches := d.findAll(func(n *html.Node) bool {
		return pattern.MatchString(TextContent(n))
	})
	var innermost []*html.Node
	for _, n := range matches {
		nested := false
		for _, other := range matches {
			if other != n && contains(n, other) {
				nested = true
				break
			}
		}
		if !nested {
			innermost = append(innermost, n)
		}
	}
	return innermost
}

// ByLabelText resolves the control associated with the first label whose
// text matches pattern, or nil.
func (d *Document) ByLabelText(pattern *regexp.Regexp) *html.Node {
	for _, label := range d.findAll(func(n *html.Node) bool { return n.Data == "label" }) {
		if !pattern.MatchString(TextContent(label)) {
			continue
		}
		id := Attr(label, "for")
		if id == "" {
			continue
		}
		if nodes := d.findAll(func(n *html.Node) bool { return Attr(n, "id") == id }); len(nodes) > 0 {
			return nodes[0]
		}
	}
	return nil
}

// Buttons returns button elements and submit/button inputs.
func (d *Document) Buttons() []*html.Node {
	return d.findAll(func(n *html.Node) bool {
		if n.Data == "button" {
			return true
		}
		if n.Data == "input" {
			typ := strings.ToLower(Attr(n, "type"))
			return typ == "submit" || typ == "button"
		}
		return false
	})
}

// Attr returns an attribute value or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries the attribute, including boolean
// attributes such as required.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// TextContent returns the collapsed text of n and its descendants.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapse(b.String())
}

func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return collapse(b.String())
}

func (d *Document) findAll(match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

func contains(parent, child *html.Node) bool {
	for n := child.Parent; n != nil; n = n.Parent {
		if n == parent {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
