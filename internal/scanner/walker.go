package scanner

import (
	"selector-scanner/internal/dom"
	"selector-scanner/internal/entity"
)

// Visit calls fn for every element under root in document order. After an
// element that hosts a shadow root, the shadow root's elements are visited
// with ctx.Shadow() before traversal moves on.
func Visit(root dom.Root, ctx entity.Context, fn func(el dom.Element, ctx entity.Context)) {
	for _, el := range root.Elements() {
		fn(el, ctx)

		if shadow := el.ShadowRoot(); shadow != nil {
			Visit(shadow, ctx.Shadow(), fn)
		}
	}
}

// Walk returns a record for every element under root, shadow roots
// included, that passes the reporting gate.
func Walk(root dom.Root, ctx entity.Context) []entity.ElementRecord {
	var records []entity.ElementRecord

	Visit(root, ctx, func(el dom.Element, ctx entity.Context) {
		if ShouldRecord(el) {
			records = append(records, NewRecord(el, ctx))
		}
	})

	return records
}
