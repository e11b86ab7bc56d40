package scanner

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"selector-scanner/internal/dom"
)

const (
	// maxNameLength bounds accessible names and texts used in selectors.
	maxNameLength = 50
	// maxAncestorLevels bounds the structural path above the element.
	maxAncestorLevels = 5
	minClassLength    = 4
)

// Selectors returns the candidate selectors for el, most stable first. The
// last entry is always StructuralPath(el).
func Selectors(el dom.Element) []string {
	var candidates []string
	add := func(selector string) {
		if !slices.Contains(candidates, selector) {
			candidates = append(candidates, selector)
		}
	}

	tag := el.TagName()
	text := strings.TrimSpace(el.TextContent())
	ariaLabel := dom.Attr(el, "aria-label")

	if testID := dom.Attr(el, "data-testid"); testID != "" {
		add(attrSelector("data-testid", testID))
	}

	if id := el.ID(); id != "" {
		add("#" + cssIdent(id))
	}

	if role := dom.Attr(el, "role"); role != "" {
		name := ariaLabel
		if name == "" {
			name = text
		}

		if name != "" && utf8.RuneCountInString(name) < maxNameLength {
			add(attrSelector("role", role) + attrSelector("aria-label", name))
		} else {
			add(attrSelector("role", role))
		}
	}

	if ariaLabel != "" {
		add(attrSelector("aria-label", ariaLabel))
	}

	if tag == "input" {
		for _, name := range []string{"name", "type", "placeholder"} {
			if v := dom.Attr(el, name); v != "" {
				add("input" + attrSelector(name, v))
			}
		}
	}

	if (tag == "button" || tag == "a") && text != "" && utf8.RuneCountInString(text) < maxNameLength {
		add(fmt.Sprintf(`%s:has-text("%s")`, tag, escapeString(text)))
	}

	if class := stableClass(el.ClassName()); class != "" {
		add("." + cssIdent(class))
	}

	return append(candidates, StructuralPath(el))
}

// stableClass returns the first class token that looks hand-written rather
// than generated by a utility framework.
func stableClass(className string) string {
	for _, token := range strings.Fields(className) {
		if utf8.RuneCountInString(token) >= minClassLength && !strings.Contains(token, "-") {
			return token
		}
	}

	return ""
}

// StructuralPath builds a tag/ordinal selector from el up through at most
// maxAncestorLevels ancestors, anchoring on the nearest id.
func StructuralPath(el dom.Element) string {
	if id := el.ID(); id != "" {
		return "#" + cssIdent(id)
	}

	var segments []string
	for cur := el; cur != nil && len(segments) <= maxAncestorLevels; cur = cur.Parent() {
		if id := cur.ID(); id != "" {
			segments = append(segments, "#"+cssIdent(id))
			break
		}

		segments = append(segments, typeSegment(cur))
	}

	slices.Reverse(segments)

	return strings.Join(segments, " > ")
}

func typeSegment(el dom.Element) string {
	tag := el.TagName()

	position, count := 0, 0
	for _, sibling := range el.Siblings() {
		if sibling.TagName() != tag {
			continue
		}

		count++
		if sibling == el {
			position = count
		}
	}

	if count > 1 && position > 0 {
		return fmt.Sprintf("%s:nth-of-type(%d)", tag, position)
	}

	return tag
}

func attrSelector(name, value string) string {
	return fmt.Sprintf(`[%s="%s"]`, name, escapeString(value))
}

// escapeString escapes a value for use inside a double-quoted CSS string.
func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n' || r == '\r' || r == '\f':
			fmt.Fprintf(&b, `\%x `, r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// cssIdent serializes s as a CSS identifier the way CSS.escape does.
func cssIdent(s string) string {
	var b strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == 0:
			b.WriteRune('�')
		case (r >= 0x01 && r <= 0x1f) || r == 0x7f:
			fmt.Fprintf(&b, `\%x `, r)
		case r >= '0' && r <= '9' && (i == 0 || (i == 1 && runes[0] == '-')):
			fmt.Fprintf(&b, `\%x `, r)
		case i == 0 && r == '-' && len(runes) == 1:
			b.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}

	return b.String()
}
