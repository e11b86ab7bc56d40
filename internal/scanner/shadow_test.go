package scanner

import (
	"testing"

	"selector-scanner/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanShadowRoots(t *testing.T) {
	doc := parse(t, `<body>
		<button id="light">not in a shadow root</button>
		<x-form>
			<template shadowrootmode="open">
				<label>Name</label>
				<input name="n">
				<div tabindex="0">focusable</div>
				<x-menu>
					<template shadowrootmode="open">
						<span role="menuitem">Open</span>
						<p>static</p>
					</template>
				</x-menu>
			</template>
		</x-form>
		<iframe srcdoc="<x-a><template shadowrootmode='open'><button>frame</button></template></x-a>"></iframe>
	</body>`)

	records := ScanShadowRoots(doc)
	require.Len(t, records, 3)

	assert.Equal(t, "input", records[0].TagName)
	assert.Equal(t, "div", records[1].TagName)
	assert.Equal(t, "span", records[2].TagName)

	require.NotNil(t, records[0].ShadowHost)
	assert.Equal(t, "x-form", *records[0].ShadowHost)
	assert.Equal(t, "x-menu", *records[2].ShadowHost)

	for _, r := range records {
		assert.Equal(t, entity.ContextShadow, r.Context)
		assert.NotEmpty(t, r.Selectors)
	}
}

func TestScanShadowRoots_NoShadowRoots(t *testing.T) {
	doc := parse(t, `<body><button>plain</button></body>`)

	assert.Empty(t, ScanShadowRoots(doc))
}
