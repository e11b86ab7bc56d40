package scanner

import (
	"strings"

	"selector-scanner/internal/dom"
)

var excludedTags = map[string]bool{
	"script": true,
	"style":  true,
	"meta":   true,
	"link":   true,
	"title":  true,
}

// signalAttributes carry enough identity for an element to be reported.
var signalAttributes = []string{
	"role",
	"aria-label",
	"data-testid",
	"placeholder",
	"type",
	"href",
	"name",
}

var interactiveTags = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"a":        true,
	"form":     true,
}

// interactiveAttributes make any element interactive by their mere presence.
var interactiveAttributes = []string{
	"role",
	"data-testid",
	"aria-label",
	"tabindex",
}

// ShouldRecord is the reporting gate used by full scans.
func ShouldRecord(el dom.Element) bool {
	if excludedTags[el.TagName()] {
		return false
	}

	// A class attribute counts only when it names a stable class; generated
	// or hyphenated utility classes carry no identity on their own.
	if el.ID() != "" || stableClass(el.ClassName()) != "" {
		return true
	}

	for _, name := range signalAttributes {
		if dom.Attr(el, name) != "" {
			return true
		}
	}

	return strings.TrimSpace(el.TextContent()) != ""
}

// IsInteractive is the gate used by the in-page shadow root scan. It is a
// separate policy from ShouldRecord.
func IsInteractive(el dom.Element) bool {
	if interactiveTags[el.TagName()] {
		return true
	}

	for _, name := range interactiveAttributes {
		if dom.HasAttr(el, name) {
			return true
		}
	}

	return el.HasClickHandler()
}
