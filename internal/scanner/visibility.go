package scanner

import "selector-scanner/internal/dom"

// IsVisible reports whether el has a non-empty layout box and is not hidden
// by its computed style at the time of the call.
func IsVisible(el dom.Element) bool {
	box := el.Box()
	style := el.Style()

	return box.Width > 0 &&
		box.Height > 0 &&
		style.Visibility != "hidden" &&
		style.Display != "none"
}
