package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Context tags the traversal root a record was discovered under.
type Context string

const (
	ContextMain   Context = "main"
	ContextShadow Context = "shadow"

	iframePrefix = "iframe-"
)

func IFrameContext(index int) Context {
	return Context(fmt.Sprintf("%s%d", iframePrefix, index))
}

// Shadow returns the context for a shadow root hosted under c. An iframe
// context is kept so that records stay partitioned by the frame that was
// entered first.
func (c Context) Shadow() Context {
	if c.IsIFrame() {
		return c
	}

	return ContextShadow
}

func (c Context) IsIFrame() bool {
	_, ok := c.IFrameIndex()

	return ok
}

func (c Context) IFrameIndex() (int, bool) {
	rest, ok := strings.CutPrefix(string(c), iframePrefix)
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

type Position struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type ElementRecord struct {
	TagName     string   `json:"tagName" yaml:"tagName"`
	ID          string   `json:"id" yaml:"id"`
	ClassName   string   `json:"className" yaml:"className"`
	TextContent string   `json:"textContent" yaml:"textContent"`
	Role        *string  `json:"role" yaml:"role"`
	AriaLabel   *string  `json:"ariaLabel" yaml:"ariaLabel"`
	DataTestID  *string  `json:"dataTestId" yaml:"dataTestId"`
	Placeholder *string  `json:"placeholder" yaml:"placeholder"`
	Type        *string  `json:"type" yaml:"type"`
	Href        *string  `json:"href" yaml:"href"`
	Name        *string  `json:"name" yaml:"name"`
	Context     Context  `json:"context" yaml:"context"`
	IsVisible   bool     `json:"isVisible" yaml:"isVisible"`
	Position    Position `json:"position" yaml:"position"`
	Selectors   []string `json:"selectors" yaml:"selectors"`
}

// Fallback returns the structural selector, which is always the last entry.
func (r ElementRecord) Fallback() string {
	if len(r.Selectors) == 0 {
		return ""
	}

	return r.Selectors[len(r.Selectors)-1]
}

type ShadowElementRecord struct {
	ElementRecord `yaml:",inline"`

	ShadowHost *string `json:"shadowHost" yaml:"shadowHost"`
}

type RootStatus string

const (
	RootScanned RootStatus = "scanned"
	RootSkipped RootStatus = "skipped"
)

// RootOutcome describes one traversal root visited during a scan.
type RootOutcome struct {
	Context Context    `json:"context" yaml:"context"`
	Status  RootStatus `json:"status" yaml:"status"`
	Records int        `json:"records" yaml:"records"`
	Reason  string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type ScanReport struct {
	ScanID        uuid.UUID       `json:"scanId" yaml:"scanId"`
	Elements      []ElementRecord `json:"elements" yaml:"elements"`
	TotalElements int             `json:"totalElements" yaml:"totalElements"`
	URL           string          `json:"url" yaml:"url"`
	Timestamp     int64           `json:"timestamp" yaml:"timestamp"`
	Roots         []RootOutcome   `json:"roots,omitempty" yaml:"roots,omitempty"`

	all []ElementRecord
}

// NewScanReport filters records down to the visible subset while keeping the
// unfiltered list reachable through All.
func NewScanReport(records []ElementRecord, url string, timestamp int64, roots []RootOutcome) *ScanReport {
	visible := make([]ElementRecord, 0, len(records))
	for _, r := range records {
		if r.IsVisible {
			visible = append(visible, r)
		}
	}

	return &ScanReport{
		ScanID:        uuid.New(),
		Elements:      visible,
		TotalElements: len(records),
		URL:           url,
		Timestamp:     timestamp,
		Roots:         roots,
		all:           records,
	}
}

// All returns every classified record, visible or not.
func (r *ScanReport) All() []ElementRecord {
	if r.all == nil {
		return r.Elements
	}

	return r.all
}

// Skipped returns the roots that could not be traversed.
func (r *ScanReport) Skipped() []RootOutcome {
	var skipped []RootOutcome
	for _, root := range r.Roots {
		if root.Status == RootSkipped {
			skipped = append(skipped, root)
		}
	}

	return skipped
}

// WithAll returns a copy of the report whose Elements holds every record.
func (r *ScanReport) WithAll() *ScanReport {
	cp := *r
	cp.Elements = r.All()

	return &cp
}
