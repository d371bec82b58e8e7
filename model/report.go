package model

// Edge identifies which requirement a violation is charged against:
// one of the four margins, or the page size itself
type Edge string

const (
	EdgeTop      Edge = "top"
	EdgeBottom   Edge = "bottom"
	EdgeLeft     Edge = "left"
	EdgeRight    Edge = "right"
	EdgePageSize Edge = "page_size"
)

// Violation records one margin or page-size finding on one page.
// Violations are ordinary data. A page with violations still produces
// a complete report; nothing about the checking pipeline fails.
type Violation struct {
	PageIndex int `json:"page_index"` // 0-based

	Edge Edge `json:"edge"`

	// Box is the offending content box. It is nil for page_size
	// violations, which concern the page itself rather than any
	// particular content.
	Box *ContentBox `json:"box,omitempty"`

	// Intrusion is how far the content crosses into the margin, in
	// points, rounded to two decimals. Always greater than zero.
	Intrusion float64 `json:"intrusion_pt"`

	Message string `json:"message"`
}

// PageReport collects the findings for a single page
type PageReport struct {
	PageIndex  int         `json:"page_index"` // 0-based
	Size       PageSize    `json:"size"`
	Skipped    bool        `json:"skipped,omitempty"`
	SkipReason string      `json:"skip_reason,omitempty"`
	Violations []Violation `json:"violations"`
}

// Compliant checks whether the page produced no findings. A skipped
// page is not compliant; its geometry could not be inspected.
func (p *PageReport) Compliant() bool {
	return !p.Skipped && len(p.Violations) == 0
}

// DocumentReport is the complete result of checking one PDF file
type DocumentReport struct {
	Path      string       `json:"path"`
	PageCount int          `json:"page_count"`
	Pages     []PageReport `json:"pages"`

	// ParseError is set when the file could not be opened or parsed
	// at all. In that case Pages is empty and PageCount is zero.
	ParseError string `json:"parse_error,omitempty"`
}

// Compliant checks whether the document passed every check: it was
// readable, no page was skipped, and no page produced violations
func (r *DocumentReport) Compliant() bool {
	if r.ParseError != "" {
		return false
	}
	for i := range r.Pages {
		if !r.Pages[i].Compliant() {
			return false
		}
	}
	return true
}

// ViolationCount returns the total number of violations across all pages
func (r *DocumentReport) ViolationCount() int {
	n := 0
	for i := range r.Pages {
		n += len(r.Pages[i].Violations)
	}
	return n
}

// SkippedPages returns the indices of pages that could not be inspected
func (r *DocumentReport) SkippedPages() []int {
	var skipped []int
	for i := range r.Pages {
		if r.Pages[i].Skipped {
			skipped = append(skipped, r.Pages[i].PageIndex)
		}
	}
	return skipped
}
