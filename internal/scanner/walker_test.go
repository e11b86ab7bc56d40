package scanner

import (
	"testing"

	"selector-scanner/internal/dom"
	"selector-scanner/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shadowPage = `<body>
	<x-host id="host">
		<template shadowrootmode="open">
			<button id="inner">In</button>
			<y-inner>
				<template shadowrootmode="open"><a href="/deep">Deep</a></template>
			</y-inner>
		</template>
	</x-host>
	<p>after</p>
</body>`

type visited struct {
	tag string
	ctx entity.Context
}

func TestVisit_DocumentOrderWithShadowRoots(t *testing.T) {
	doc := parse(t, shadowPage)

	var got []visited
	Visit(doc, entity.ContextMain, func(el dom.Element, ctx entity.Context) {
		got = append(got, visited{el.TagName(), ctx})
	})

	assert.Equal(t, []visited{
		{"html", entity.ContextMain},
		{"head", entity.ContextMain},
		{"body", entity.ContextMain},
		{"x-host", entity.ContextMain},
		{"button", entity.ContextShadow},
		{"y-inner", entity.ContextShadow},
		{"a", entity.ContextShadow},
		{"p", entity.ContextMain},
	}, got)
}

func TestWalk_RecordsGatedElements(t *testing.T) {
	doc := parse(t, shadowPage)

	records := Walk(doc, entity.ContextMain)

	var got []visited
	for _, r := range records {
		got = append(got, visited{r.TagName, r.Context})
	}

	assert.Equal(t, []visited{
		{"html", entity.ContextMain},
		{"body", entity.ContextMain},
		{"x-host", entity.ContextMain},
		{"button", entity.ContextShadow},
		{"a", entity.ContextShadow},
		{"p", entity.ContextMain},
	}, got)

	for _, r := range records {
		assert.NotEmpty(t, r.Selectors)
	}
}

func TestWalk_IFrameContextWinsOverShadow(t *testing.T) {
	doc := parse(t, shadowPage)

	records := Walk(doc, entity.IFrameContext(2))
	require.NotEmpty(t, records)

	for _, r := range records {
		assert.Equal(t, entity.IFrameContext(2), r.Context, r.TagName)
	}
}

func TestNewRecord(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "word "
	}

	doc := parse(t, `<body><a id="more" class="link primary" href="/more" name="m" role="button" aria-label="More">  `+long+`</a></body>`)

	rec := NewRecord(byID(t, doc, "more"), entity.ContextMain)

	assert.Equal(t, "a", rec.TagName)
	assert.Equal(t, "more", rec.ID)
	assert.Equal(t, "link primary", rec.ClassName)
	assert.Len(t, []rune(rec.TextContent), maxTextLength)
	assert.Equal(t, "word", rec.TextContent[:4])
	require.NotNil(t, rec.Href)
	assert.Equal(t, "/more", *rec.Href)
	require.NotNil(t, rec.Role)
	assert.Equal(t, "button", *rec.Role)
	assert.Nil(t, rec.DataTestID)
	assert.Nil(t, rec.Placeholder)
	assert.Nil(t, rec.Type)
	assert.True(t, rec.IsVisible)
	assert.Equal(t, 100.0, rec.Position.Width)
	assert.Equal(t, "#more", rec.Fallback())
	assert.Equal(t, "#more", rec.Selectors[0])
}

func TestTruncate_Runes(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé", truncate("héllo", 2))
}
