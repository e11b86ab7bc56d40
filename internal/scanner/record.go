package scanner

import (
	"strings"

	"selector-scanner/internal/dom"
	"selector-scanner/internal/entity"
)

const maxTextLength = 100

// NewRecord captures el as it is at call time.
func NewRecord(el dom.Element, ctx entity.Context) entity.ElementRecord {
	box := el.Box()

	return entity.ElementRecord{
		TagName:     el.TagName(),
		ID:          el.ID(),
		ClassName:   el.ClassName(),
		TextContent: truncate(strings.TrimSpace(el.TextContent()), maxTextLength),
		Role:        dom.AttrPtr(el, "role"),
		AriaLabel:   dom.AttrPtr(el, "aria-label"),
		DataTestID:  dom.AttrPtr(el, "data-testid"),
		Placeholder: dom.AttrPtr(el, "placeholder"),
		Type:        dom.AttrPtr(el, "type"),
		Href:        dom.AttrPtr(el, "href"),
		Name:        dom.AttrPtr(el, "name"),
		Context:     ctx,
		IsVisible:   IsVisible(el),
		Position: entity.Position{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
		},
		Selectors: Selectors(el),
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
