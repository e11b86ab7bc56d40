package htmldoc

import (
	"strconv"
	"strings"

	"selector-scanner/internal/dom"
)

// nonRendered tags never generate a box.
var nonRendered = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
	"meta":     true,
	"link":     true,
	"title":    true,
	"base":     true,
}

var inlineDisplay = map[string]string{
	"a":        "inline",
	"span":     "inline",
	"label":    "inline",
	"strong":   "inline",
	"em":       "inline",
	"b":        "inline",
	"i":        "inline",
	"img":      "inline",
	"button":   "inline-block",
	"input":    "inline-block",
	"select":   "inline-block",
	"textarea": "inline-block",
	"iframe":   "inline",
}

// renderState is inherited from the parent while placing elements.
type renderState struct {
	// collapsed is set below an ancestor with display:none.
	collapsed  bool
	visibility string
}

// layout stacks rendered elements vertically in document order.
type layout struct {
	box  dom.Box
	next float64
}

func newLayout(box dom.Box) *layout {
	return &layout{box: box}
}

func (l *layout) rootState() renderState {
	return renderState{visibility: "visible"}
}

func (l *layout) place(el *Element, parent renderState) renderState {
	tag := el.TagName()
	decls := parseStyle(attr(el.node, "style"))

	display := inlineDisplay[tag]
	if display == "" {
		display = "block"
	}

	if v, ok := decls["display"]; ok {
		display = v
	}

	_, hidden := el.Attribute("hidden")
	if nonRendered[tag] || hidden || (tag == "input" && strings.EqualFold(attr(el.node, "type"), "hidden")) {
		if _, ok := decls["display"]; !ok {
			display = "none"
		}
	}

	visibility := parent.visibility
	if v, ok := decls["visibility"]; ok && v != "inherit" {
		visibility = v
	}

	el.style = dom.Style{Display: display, Visibility: visibility}

	state := renderState{
		collapsed:  parent.collapsed || display == "none",
		visibility: visibility,
	}

	if state.collapsed {
		el.box = dom.Box{}

		return state
	}

	width := length(decls["width"], l.box.Width)
	height := length(decls["height"], l.box.Height)
	el.box = dom.Box{X: 0, Y: l.next, Width: width, Height: height}
	l.next += height

	return state
}

// parseStyle reads an inline style attribute into lower-cased declarations.
func parseStyle(style string) map[string]string {
	decls := make(map[string]string)

	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}

		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		decls[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(value)
	}

	return decls
}

// length understands unitless zero and pixel lengths; anything else keeps
// the default.
func length(v string, def float64) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}

	n, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil || n < 0 {
		return def
	}

	return n
}
