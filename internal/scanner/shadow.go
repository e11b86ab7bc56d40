package scanner

import (
	"selector-scanner/internal/dom"
	"selector-scanner/internal/entity"
)

// ScanShadowRoots records the interactive elements of every shadow root
// reachable from root, nested shadow roots included. Frames are not entered.
// Each record names the tag of the host its shadow root is attached to.
func ScanShadowRoots(root dom.Root) []entity.ShadowElementRecord {
	var records []entity.ShadowElementRecord

	var scanHosts func(root dom.Root)
	scanHosts = func(root dom.Root) {
		for _, host := range dom.Hosts(root) {
			shadow := host.ShadowRoot()
			hostTag := host.TagName()

			for _, el := range shadow.Elements() {
				if !IsInteractive(el) {
					continue
				}

				records = append(records, entity.ShadowElementRecord{
					ElementRecord: NewRecord(el, entity.ContextShadow),
					ShadowHost:    &hostTag,
				})
			}

			scanHosts(shadow)
		}
	}

	scanHosts(root)

	return records
}
