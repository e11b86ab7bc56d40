package scanner

import "selector-scanner/internal/dom"

// fakeElement is a hand-built element for unit tests that need precise
// control over geometry and style.
type fakeElement struct {
	tag      string
	attrs    map[string]string
	class    string
	text     string
	parent   *fakeElement
	children []*fakeElement
	box      dom.Box
	style    dom.Style
	onclick  bool
}

func newFake(tag string, attrs map[string]string) *fakeElement {
	return &fakeElement{
		tag:   tag,
		attrs: attrs,
		class: attrs["class"],
		box:   dom.Box{Width: 10, Height: 10},
		style: dom.Style{Display: "block", Visibility: "visible"},
	}
}

func (f *fakeElement) append(children ...*fakeElement) *fakeElement {
	for _, c := range children {
		c.parent = f
		f.children = append(f.children, c)
	}

	return f
}

func (f *fakeElement) TagName() string { return f.tag }

func (f *fakeElement) Attribute(name string) (string, bool) {
	v, ok := f.attrs[name]

	return v, ok
}

func (f *fakeElement) ID() string { return f.attrs["id"] }
func (f *fakeElement) ClassName() string { return f.class }
func (f *fakeElement) TextContent() string {
	text := f.text
	for _, c := range f.children {
		text += c.TextContent()
	}

	return text
}

func (f *fakeElement) Parent() dom.Element {
	if f.parent == nil {
		return nil
	}

	return f.parent
}

func (f *fakeElement) Children() []dom.Element {
	out := make([]dom.Element, len(f.children))
	for i, c := range f.children {
		out[i] = c
	}

	return out
}

func (f *fakeElement) Siblings() []dom.Element {
	if f.parent == nil {
		return []dom.Element{f}
	}

	return f.parent.Children()
}

func (f *fakeElement) ShadowRoot() dom.Root { return nil }
func (f *fakeElement) Box() dom.Box { return f.box }
func (f *fakeElement) Style() dom.Style { return f.style }
func (f *fakeElement) HasClickHandler() bool { return f.onclick }
