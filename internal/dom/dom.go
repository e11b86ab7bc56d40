// Package dom defines the read-only view of a rendered document that the
// scanner works against. Each platform binding (a browser snapshot, a parsed
// HTML file) implements these interfaces once.
package dom

import "errors"

// ErrAccessDenied is returned by Frame.ContentDocument for frames whose
// document cannot be read from the embedding page.
var ErrAccessDenied = errors.New("frame document is not accessible")

// Box is a viewport-relative layout box.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Style holds the computed style properties the scanner reads.
type Style struct {
	Display    string
	Visibility string
}

type Element interface {
	// TagName is lower-cased.
	TagName() string
	Attribute(name string) (string, bool)
	ID() string
	// ClassName is empty when the platform exposes a non-string class value.
	ClassName() string
	TextContent() string

	// Parent is nil at a root boundary.
	Parent() Element
	Children() []Element
	// Siblings returns the element children of the node containing this
	// element, itself included. For the top-level elements of a shadow root
	// these are the shadow root's children.
	Siblings() []Element
	// ShadowRoot is nil when the element hosts no shadow tree.
	ShadowRoot() Root

	Box() Box
	Style() Style
	HasClickHandler() bool
}

// Root is a document or a shadow root.
type Root interface {
	// Elements returns every descendant element in document order. It does
	// not cross into shadow roots or frame documents.
	Elements() []Element
}

type Document interface {
	Root

	URL() string
	// IFrames returns the iframe elements of the document in document order.
	IFrames() []Frame
}

type Frame interface {
	Element() Element
	ContentDocument() (Document, error)
}

// Attr returns the attribute value, treating absence and an empty value
// alike.
func Attr(el Element, name string) string {
	v, _ := el.Attribute(name)

	return v
}

// HasAttr reports attribute presence, including empty values.
func HasAttr(el Element, name string) bool {
	_, ok := el.Attribute(name)

	return ok
}

// AttrPtr returns the raw attribute value or nil when absent.
func AttrPtr(el Element, name string) *string {
	v, ok := el.Attribute(name)
	if !ok {
		return nil
	}

	return &v
}

// Collect walks the element subtree rooted at each of roots depth-first in
// document order, without crossing shadow boundaries.
func Collect(roots []Element) []Element {
	var out []Element

	var visit func(el Element)
	visit = func(el Element) {
		out = append(out, el)
		for _, child := range el.Children() {
			visit(child)
		}
	}

	for _, el := range roots {
		visit(el)
	}

	return out
}

// Hosts returns the shadow hosts among root's elements.
func Hosts(root Root) []Element {
	var hosts []Element
	for _, el := range root.Elements() {
		if el.ShadowRoot() != nil {
			hosts = append(hosts, el)
		}
	}

	return hosts
}
