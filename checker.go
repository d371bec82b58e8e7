package marginalia

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/marginalia/margins"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/reader"
)

// Checker provides a fluent interface for checking PDF files against
// the layout requirements. Each configuration method returns a new
// Checker instance, making it safe for concurrent use and allowing
// method chaining.
type Checker struct {
	// Source
	path string

	// Reader
	r *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options checkOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Checker with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Checker) clone() *Checker {
	return &Checker{
		path:         c.path,
		r:            c.r,
		ownsReader:   c.ownsReader,
		readerOpened: c.readerOpened,
		options:      c.options.clone(),
		err:          c.err,
	}
}

// ensureReader opens the reader if not already open.
func (c *Checker) ensureReader() error {
	if c.readerOpened {
		return nil
	}
	if c.path == "" {
		return fmt.Errorf("no path specified")
	}

	r, err := reader.Open(c.path)
	if err != nil {
		return err
	}
	c.r = r
	c.ownsReader = true
	c.readerOpened = true
	return nil
}

// Close releases resources associated with the Checker.
// It is safe to call Close multiple times. A reader supplied through
// FromReader stays open; it belongs to the caller.
func (c *Checker) Close() error {
	if c.ownsReader && c.r != nil {
		err := c.r.Close()
		c.r = nil
		c.ownsReader = false
		c.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Checker instance)
// ============================================================================

// WithMargins replaces the margin requirements. The default is the
// sigconf spec, model.Sigconf.
//
// Example:
//
//	report, err := marginalia.Open("paper.pdf").
//	    WithMargins(model.MarginSpec{Top: 72, Bottom: 72, Left: 72, Right: 72}).
//	    Report()
func (c *Checker) WithMargins(spec model.MarginSpec) *Checker {
	newChk := c.clone()
	newChk.options.spec = spec
	return newChk
}

// WithSizeTolerance replaces the allowed deviation from Letter page
// dimensions, in points. The default is model.DefaultSizeTolerance.
//
// Example:
//
//	report, err := marginalia.Open("paper.pdf").WithSizeTolerance(0.05).Report()
func (c *Checker) WithSizeTolerance(tolerance float64) *Checker {
	newChk := c.clone()
	newChk.options.sizeTolerance = tolerance
	return newChk
}

// Pages restricts the check to the given pages (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	report, err := marginalia.Open("paper.pdf").Pages(1, 3, 5).Report()
func (c *Checker) Pages(pages ...int) *Checker {
	newChk := c.clone()
	newChk.options.pages = append(newChk.options.pages, pages...)
	return newChk
}

// PageRange restricts the check to a range of pages (1-indexed, inclusive).
//
// Example:
//
//	report, err := marginalia.Open("paper.pdf").PageRange(5, 10).Report()
func (c *Checker) PageRange(start, end int) *Checker {
	newChk := c.clone()
	for i := start; i <= end; i++ {
		newChk.options.pages = append(newChk.options.pages, i)
	}
	return newChk
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Report checks the document and returns the full per-page result.
//
// A file that cannot be opened or parsed does not produce an error:
// the report carries ParseError and an empty page list, so callers
// working through a batch of files treat it like any other result. The
// error return is reserved for calling mistakes, such as an empty path
// or a page selection outside the document.
//
// Pages whose geometry cannot be normalized are marked Skipped in the
// report with a diagnostic, and checking continues with the next page.
func (c *Checker) Report() (*model.DocumentReport, error) {
	if c.err != nil {
		return nil, c.err
	}

	report := &model.DocumentReport{Path: c.path}

	if err := c.ensureReader(); err != nil {
		var unreadable *reader.UnreadableError
		if errors.As(err, &unreadable) {
			report.ParseError = err.Error()
			return report, nil
		}
		return nil, err
	}
	defer c.Close()

	report.Path = c.r.Path()

	count, err := c.r.PageCount()
	if err != nil {
		report.ParseError = err.Error()
		return report, nil
	}
	report.PageCount = count

	indices, err := c.resolvePages(count)
	if err != nil {
		return nil, err
	}

	evaluator := margins.Evaluator{
		Spec:          c.options.spec,
		SizeTolerance: c.options.sizeTolerance,
	}

	report.Pages = make([]model.PageReport, 0, len(indices))
	for _, index := range indices {
		size, boxes, err := c.r.PageGeometry(index)
		if err != nil {
			report.Pages = append(report.Pages, model.PageReport{
				PageIndex:  index,
				Skipped:    true,
				SkipReason: skipReason(err),
				Violations: []model.Violation{},
			})
			continue
		}

		violations := evaluator.Evaluate(size, boxes)
		for i := range violations {
			violations[i].PageIndex = index
		}
		if violations == nil {
			violations = []model.Violation{}
		}

		report.Pages = append(report.Pages, model.PageReport{
			PageIndex:  index,
			Size:       size,
			Violations: violations,
		})
	}

	return report, nil
}

// Compliant checks the document and reports whether it passed: the
// file was readable, every checked page could be inspected, and no
// page produced violations.
//
// Example:
//
//	ok, err := marginalia.Open("paper.pdf").Compliant()
func (c *Checker) Compliant() (bool, error) {
	report, err := c.Report()
	if err != nil {
		return false, err
	}
	return report.Compliant(), nil
}

// resolvePages maps the configured 1-indexed page selection to sorted,
// deduplicated 0-based indices. An empty selection means all pages.
func (c *Checker) resolvePages(pageCount int) ([]int, error) {
	if len(c.options.pages) == 0 {
		indices := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			indices[i] = i
		}
		return indices, nil
	}

	seen := make(map[int]bool)
	var indices []int
	for _, p := range c.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			indices = append(indices, zeroIndexed)
		}
	}

	sort.Ints(indices)
	return indices, nil
}

// skipReason extracts the diagnostic for a page that could not be
// inspected. The page number lives in the report already, so the
// bare reason is enough.
func skipReason(err error) string {
	var unsupported *reader.UnsupportedPageError
	if errors.As(err, &unsupported) {
		return unsupported.Reason
	}
	return err.Error()
}
