// Package snapshot binds the dom interfaces to a serialized copy of a live
// page, captured in the page by a script and decoded here. A snapshot is
// immutable, so scanning it twice gives the same records.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"

	"selector-scanner/internal/dom"
)

const textTag = "#text"

// Node is the wire form of an element or a text node.
type Node struct {
	Tag        string            `json:"tag"`
	Value      string            `json:"value,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
	ClassName  string            `json:"className,omitempty"`
	Rect       Rect              `json:"rect"`
	Display    string            `json:"display,omitempty"`
	Visibility string            `json:"visibility,omitempty"`
	OnClick    bool              `json:"onclick,omitempty"`
	Frame      *int              `json:"frame,omitempty"`
	Children   []Node            `json:"children,omitempty"`
	Shadow     *Shadow           `json:"shadow,omitempty"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Shadow struct {
	Mode     string `json:"mode"`
	Children []Node `json:"children"`
}

type FrameState struct {
	Accessible bool      `json:"accessible"`
	Reason     string    `json:"reason,omitempty"`
	Document   *Snapshot `json:"document,omitempty"`
}

// Snapshot is the wire form of a document.
type Snapshot struct {
	URL       string       `json:"url"`
	Children  []Node       `json:"children"`
	Frames    []FrameState `json:"frames,omitempty"`
	Truncated bool         `json:"truncated,omitempty"`
}

// Parse decodes a snapshot produced by the in-page capture script.
func Parse(data []byte) (*Document, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return New(&snap), nil
}

type root struct {
	top      []*Element
	elements []dom.Element
}

func (r *root) Elements() []dom.Element {
	return r.elements
}

func newRoot(nodes []Node) *root {
	r := &root{}
	r.top = buildElements(nodes, nil, r)
	r.elements = dom.Collect(toDOM(r.top))

	return r
}

type Document struct {
	*root

	url       string
	frames    []dom.Frame
	truncated bool
}

var _ dom.Document = (*Document)(nil)

func New(snap *Snapshot) *Document {
	doc := &Document{
		root:      newRoot(snap.Children),
		url:       snap.URL,
		truncated: snap.Truncated,
	}

	var iframes []*Element
	stamped := make(map[int]*Element)

	for _, el := range doc.elements {
		if el.TagName() != "iframe" {
			continue
		}

		iframe := el.(*Element)
		iframes = append(iframes, iframe)

		if iframe.node.Frame != nil {
			stamped[*iframe.node.Frame] = iframe
		}
	}

	// Stamped iframes name their frame entry. Unstamped snapshots list frame
	// states in the same order as the document's iframes.
	for i, state := range snap.Frames {
		frame := &Frame{state: state}

		switch {
		case len(stamped) > 0:
			frame.el = stamped[i]
		case i < len(iframes):
			frame.el = iframes[i]
		}

		doc.frames = append(doc.frames, frame)
	}

	return doc
}

func (d *Document) URL() string {
	return d.url
}

func (d *Document) IFrames() []dom.Frame {
	return d.frames
}

// Truncated reports whether the capture script cut subtrees that were
// nested too deeply.
func (d *Document) Truncated() bool {
	return d.truncated
}

type Frame struct {
	el    *Element
	state FrameState
}

func (f *Frame) Element() dom.Element {
	if f.el == nil {
		return nil
	}

	return f.el
}

func (f *Frame) ContentDocument() (dom.Document, error) {
	if !f.state.Accessible {
		reason := f.state.Reason
		if reason == "" {
			reason = "cross-origin"
		}

		return nil, fmt.Errorf("%s: %w", reason, dom.ErrAccessDenied)
	}

	if f.state.Document == nil {
		return nil, nil
	}

	return New(f.state.Document), nil
}

type Element struct {
	node     *Node
	parent   *Element
	owner    *root
	children []*Element
	shadow   *root
}

var _ dom.Element = (*Element)(nil)

func buildElements(nodes []Node, parent *Element, owner *root) []*Element {
	var out []*Element

	for i := range nodes {
		node := &nodes[i]
		if node.Tag == textTag || node.Tag == "" {
			continue
		}

		el := &Element{node: node, parent: parent, owner: owner}
		el.children = buildElements(node.Children, el, owner)

		if node.Shadow != nil {
			el.shadow = newRoot(node.Shadow.Children)
		}

		out = append(out, el)
	}

	return out
}

func toDOM(elements []*Element) []dom.Element {
	out := make([]dom.Element, len(elements))
	for i, el := range elements {
		out[i] = el
	}

	return out
}

func (e *Element) TagName() string {
	return strings.ToLower(e.node.Tag)
}

func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.node.Attrs[strings.ToLower(name)]

	return v, ok
}

func (e *Element) ID() string {
	return e.node.Attrs["id"]
}

func (e *Element) ClassName() string {
	return e.node.ClassName
}

func (e *Element) TextContent() string {
	var b strings.Builder
	writeText(&b, e.node.Children)

	return b.String()
}

func writeText(b *strings.Builder, nodes []Node) {
	for i := range nodes {
		if nodes[i].Tag == textTag {
			b.WriteString(nodes[i].Value)

			continue
		}

		writeText(b, nodes[i].Children)
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

func (e *Element) Box() dom.Box {
	r := e.node.Rect

	return dom.Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (e *Element) Style() dom.Style {
	return dom.Style{Display: e.node.Display, Visibility: e.node.Visibility}
}

func (e *Element) HasClickHandler() bool {
	return e.node.OnClick
}
