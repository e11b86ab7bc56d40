package htmldoc

import (
	"errors"
	"testing"

	"selector-scanner/internal/dom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tags(elements []dom.Element) []string {
	out := make([]string, len(elements))
	for i, el := range elements {
		out[i] = el.TagName()
	}

	return out
}

func find(t *testing.T, root interface{ Elements() []dom.Element }, id string) dom.Element {
	t.Helper()

	for _, el := range root.Elements() {
		if el.ID() == id {
			return el
		}
	}

	t.Fatalf("element #%s not found", id)

	return nil
}

func TestParse_DocumentOrder(t *testing.T) {
	doc, err := ParseString(`<html><head><title>t</title></head><body><ul id="list"><li>a</li><li>b</li></ul></body></html>`, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"html", "head", "title", "body", "ul", "li", "li"}, tags(doc.Elements()))
	assert.Equal(t, blankURL, doc.URL())
}

func TestParse_ParentAndSiblings(t *testing.T) {
	doc, err := ParseString(`<body><ul id="list"><li>a</li><li id="b">b</li></ul></body>`, Options{})
	require.NoError(t, err)

	li := find(t, doc, "b")
	require.NotNil(t, li.Parent())
	assert.Equal(t, "list", li.Parent().ID())
	assert.Len(t, li.Siblings(), 2)

	html := doc.Elements()[0]
	assert.Nil(t, html.Parent())
	assert.Len(t, html.Siblings(), 1)
}

func TestParse_DeclarativeShadowRoot(t *testing.T) {
	doc, err := ParseString(`<body>
		<my-widget id="host">
			<template shadowrootmode="open"><button id="inner">Hi</button><span>x</span></template>
			<p>light</p>
		</my-widget>
		<template><a id="inert">never</a></template>
	</body>`, Options{})
	require.NoError(t, err)

	host := find(t, doc, "host")
	shadow := host.ShadowRoot()
	require.NotNil(t, shadow)
	assert.Equal(t, []string{"button", "span"}, tags(shadow.Elements()))
	assert.Equal(t, "open", host.(*Element).Shadow().Mode)

	for _, el := range doc.Elements() {
		assert.NotEqual(t, "inner", el.ID(), "shadow content must not leak into the document")
		assert.NotEqual(t, "inert", el.ID(), "template content is inert")
	}

	inner := shadow.Elements()[0]
	assert.Nil(t, inner.Parent())
	assert.Len(t, inner.Siblings(), 2)
	assert.Equal(t, "light", trimmed(host.TextContent()))
}

func trimmed(s string) string {
	out := []rune{}
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' {
			out = append(out, r)
		}
	}

	return string(out)
}

func TestParse_Layout(t *testing.T) {
	doc, err := ParseString(`<body>
		<div id="shown">x</div>
		<div id="none" style="display: none"><span id="child">y</span></div>
		<div id="hiddenattr" hidden>z</div>
		<div id="invisible" style="visibility:hidden"><em id="inherits">w</em></div>
		<div id="zero" style="width:0px">v</div>
		<div id="sized" style="width: 300px; height: 40px">u</div>
		<input id="secret" type="hidden">
	</body>`, Options{})
	require.NoError(t, err)

	shown := find(t, doc, "shown")
	assert.Equal(t, 100.0, shown.Box().Width)
	assert.Equal(t, "block", shown.Style().Display)

	assert.Equal(t, "none", find(t, doc, "none").Style().Display)
	assert.Equal(t, dom.Box{}, find(t, doc, "child").Box())
	assert.Equal(t, "none", find(t, doc, "hiddenattr").Style().Display)
	assert.Equal(t, "hidden", find(t, doc, "inherits").Style().Visibility)
	assert.Equal(t, 0.0, find(t, doc, "zero").Box().Width)

	sized := find(t, doc, "sized").Box()
	assert.Equal(t, 300.0, sized.Width)
	assert.Equal(t, 40.0, sized.Height)

	assert.Equal(t, "none", find(t, doc, "secret").Style().Display)
}

func TestParse_ClassNameAndHandlers(t *testing.T) {
	doc, err := ParseString(`<body><svg id="icon" class="glyph"></svg><div id="clicky" class="card" onclick="go()"></div></body>`, Options{})
	require.NoError(t, err)

	assert.Equal(t, "", find(t, doc, "icon").ClassName())
	clicky := find(t, doc, "clicky")
	assert.Equal(t, "card", clicky.ClassName())
	assert.True(t, clicky.HasClickHandler())
}

func TestFrames(t *testing.T) {
	doc, err := ParseString(`<body>
		<iframe srcdoc="<button id='a'>A</button>"></iframe>
		<iframe src="https://other.example/"></iframe>
		<iframe src="/same"></iframe>
		<iframe></iframe>
	</body>`, Options{
		URL:    "https://example.com/",
		Frames: map[string]string{"/same": `<a id="b" href="/x">B</a>`},
	})
	require.NoError(t, err)

	frames := doc.IFrames()
	require.Len(t, frames, 4)

	first, err := frames[0].ContentDocument()
	require.NoError(t, err)
	assert.Equal(t, "about:srcdoc", first.URL())
	assert.Contains(t, tags(first.Elements()), "button")

	_, err = frames[1].ContentDocument()
	assert.True(t, errors.Is(err, dom.ErrAccessDenied))

	third, err := frames[2].ContentDocument()
	require.NoError(t, err)
	assert.Equal(t, "/same", third.URL())
	assert.Contains(t, tags(third.Elements()), "a")

	blank, err := frames[3].ContentDocument()
	require.NoError(t, err)
	assert.Equal(t, []string{"html", "head", "body"}, tags(blank.Elements()))
}

func TestResolve(t *testing.T) {
	doc, err := ParseString(`<body><ul id="list"><li>a</li><li>b</li></ul>
		<x-host><template shadowrootmode="open"><li id="shadowed">c</li></template></x-host></body>`, Options{})
	require.NoError(t, err)

	matched, err := doc.Resolve("#list > li:nth-of-type(2)")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "b", matched[0].TextContent())

	all, err := doc.Resolve("li")
	require.NoError(t, err)
	assert.Len(t, all, 2, "document resolution stops at shadow boundaries")

	_, err = doc.Resolve(`button:has-text("x")`)
	assert.Error(t, err)
}
