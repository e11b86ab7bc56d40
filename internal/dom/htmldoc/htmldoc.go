// Package htmldoc binds the dom interfaces to statically parsed HTML.
//
// Declarative shadow roots (<template shadowrootmode>) become shadow roots,
// iframes with srcdoc are readable documents and iframes loading a src are
// treated as cross-origin unless Options.Frames provides their markup.
// There is no layout engine: boxes are synthesized from inline styles.
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"selector-scanner/internal/dom"

	"github.com/PuerkitoBio/goquery"
)

const blankURL = "about:blank"

type Options struct {
	// URL is reported as the document location.
	URL string
	// DefaultBox is the size given to every rendered element without an
	// explicit inline width or height.
	DefaultBox dom.Box
	// Frames maps iframe src values to markup served from the same origin.
	Frames map[string]string
}

func DefaultOptions() Options {
	return Options{
		URL:        blankURL,
		DefaultBox: dom.Box{Width: 100, Height: 20},
	}
}

type Document struct {
	opts Options
	*tree
	frames []dom.Frame
}

var _ dom.Document = (*Document)(nil)

// Parse reads an HTML document. Zero-valued Options fields fall back to
// DefaultOptions.
func Parse(r io.Reader, opts Options) (*Document, error) {
	defaults := DefaultOptions()
	if opts.URL == "" {
		opts.URL = defaults.URL
	}

	if opts.DefaultBox.Width == 0 && opts.DefaultBox.Height == 0 {
		opts.DefaultBox = defaults.DefaultBox
	}

	query, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{opts: opts}

	layout := newLayout(opts.DefaultBox)
	doc.tree = buildTree(query.Nodes[0], layout)

	for _, el := range doc.Elements() {
		if el.TagName() == "iframe" {
			doc.frames = append(doc.frames, &Frame{el: el.(*Element), opts: opts})
		}
	}

	return doc, nil
}

func ParseString(s string, opts Options) (*Document, error) {
	return Parse(strings.NewReader(s), opts)
}

func (d *Document) URL() string {
	return d.opts.URL
}

func (d *Document) IFrames() []dom.Frame {
	return d.frames
}

type Frame struct {
	el   *Element
	opts Options
}

func (f *Frame) Element() dom.Element {
	return f.el
}

func (f *Frame) ContentDocument() (dom.Document, error) {
	opts := Options{
		DefaultBox: f.opts.DefaultBox,
		Frames:     f.opts.Frames,
	}

	if srcdoc, ok := f.el.Attribute("srcdoc"); ok {
		opts.URL = "about:srcdoc"

		return ParseString(srcdoc, opts)
	}

	src := strings.TrimSpace(dom.Attr(f.el, "src"))
	if src == "" || src == blankURL {
		opts.URL = blankURL

		return ParseString("", opts)
	}

	markup, ok := f.opts.Frames[src]
	if !ok {
		return nil, fmt.Errorf("iframe %q: %w", src, dom.ErrAccessDenied)
	}

	opts.URL = src

	return ParseString(markup, opts)
}
