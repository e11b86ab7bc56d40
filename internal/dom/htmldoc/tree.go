package htmldoc

import (
	"strings"

	"selector-scanner/internal/dom"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// tree is a document or shadow root: its top-level elements plus an index
// from parse nodes back to elements for selector resolution.
type tree struct {
	node     *html.Node
	top      []*Element
	elements []dom.Element
	byNode   map[*html.Node]*Element
}

func (t *tree) Elements() []dom.Element {
	return t.elements
}

// Resolve returns the elements of this tree matched by a CSS selector. It
// does not match into nested shadow roots.
func (t *tree) Resolve(selector string) ([]dom.Element, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}

	var matched []dom.Element
	goquery.NewDocumentFromNode(t.node).FindMatcher(matcher).Each(func(_ int, sel *goquery.Selection) {
		if el, ok := t.byNode[sel.Get(0)]; ok {
			matched = append(matched, el)
		}
	})

	return matched, nil
}

type ShadowRoot struct {
	*tree

	Mode string
}

type Element struct {
	node     *html.Node
	parent   *Element
	owner    *tree
	children []*Element
	shadow   *ShadowRoot
	box      dom.Box
	style    dom.Style
}

var _ dom.Element = (*Element)(nil)

func buildTree(root *html.Node, layout *layout) *tree {
	t := &tree{
		node:   root,
		byNode: make(map[*html.Node]*Element),
	}

	t.top = t.build(root, nil, layout, layout.rootState())
	t.elements = dom.Collect(toDOM(t.top))

	return t
}

func (t *tree) build(node *html.Node, parent *Element, layout *layout, state renderState) []*Element {
	var out []*Element

	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		if parent != nil && parent.shadow == nil && isShadowTemplate(c) {
			parent.shadow = &ShadowRoot{
				tree: buildShadow(c, layout, state),
				Mode: strings.ToLower(attr(c, "shadowrootmode")),
			}

			continue
		}

		el := &Element{node: c, parent: parent, owner: t}
		childState := layout.place(el, state)
		t.byNode[c] = el

		// Template content is inert and not part of the element tree.
		if c.Data != "template" {
			el.children = t.build(c, el, layout, childState)
		}

		out = append(out, el)
	}

	return out
}

func buildShadow(template *html.Node, layout *layout, host renderState) *tree {
	t := &tree{
		node:   template,
		byNode: make(map[*html.Node]*Element),
	}

	t.top = t.build(template, nil, layout, host)
	t.elements = dom.Collect(toDOM(t.top))

	return t
}

func isShadowTemplate(n *html.Node) bool {
	if n.Data != "template" {
		return false
	}

	mode := strings.ToLower(attr(n, "shadowrootmode"))

	return mode == "open" || mode == "closed"
}

func toDOM(elements []*Element) []dom.Element {
	out := make([]dom.Element, len(elements))
	for i, el := range elements {
		out[i] = el
	}

	return out
}

func attr(n *html.Node, name string) string {
	v, _ := lookup(n, name)

	return v
}

func lookup(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}

	return "", false
}

func (e *Element) TagName() string {
	return strings.ToLower(e.node.Data)
}

func (e *Element) Attribute(name string) (string, bool) {
	return lookup(e.node, name)
}

func (e *Element) ID() string {
	return attr(e.node, "id")
}

func (e *Element) ClassName() string {
	// SVG and MathML elements expose an animated value, not a string.
	if e.node.Namespace != "" {
		return ""
	}

	return attr(e.node, "class")
}

func (e *Element) TextContent() string {
	var b strings.Builder
	writeText(&b, e.node)

	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data != "template":
			writeText(b, c)
		}
	}
}

func (e *Element) Parent() dom.Element {
	if e.parent == nil {
		return nil
	}

	return e.parent
}

func (e *Element) Children() []dom.Element {
	return toDOM(e.children)
}

func (e *Element) Siblings() []dom.Element {
	if e.parent != nil {
		return toDOM(e.parent.children)
	}

	return toDOM(e.owner.top)
}

func (e *Element) ShadowRoot() dom.Root {
	if e.shadow == nil {
		return nil
	}

	return e.shadow
}

// Shadow returns the concrete shadow root, for resolving selectors inside it.
func (e *Element) Shadow() *ShadowRoot {
	return e.shadow
}

func (e *Element) Box() dom.Box {
	return e.box
}

func (e *Element) Style() dom.Style {
	return e.style
}

func (e *Element) HasClickHandler() bool {
	_, ok := lookup(e.node, "onclick")

	return ok
}
