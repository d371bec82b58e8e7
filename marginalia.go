// Package marginalia checks PDF files against the ACM sigconf physical
// layout: US Letter pages with at least 57pt of clear space at the top,
// 73pt at the bottom and 54pt on each side.
//
// Basic usage:
//
//	report, err := marginalia.Check("paper.pdf")
//	if err != nil {
//	    // handle error
//	}
//	for _, page := range report.Pages {
//	    for _, v := range page.Violations {
//	        fmt.Printf("page %d: %s\n", v.PageIndex+1, v.Message)
//	    }
//	}
//
// With options:
//
//	ok, err := marginalia.Open("paper.pdf").
//	    Pages(1, 2, 3).
//	    WithSizeTolerance(0.5).
//	    Compliant()
//
// A file that cannot be opened or parsed is not an error from Check:
// the report comes back with ParseError set, so a batch over many files
// keeps going. The error return is reserved for calling mistakes, such
// as an empty path or a page selection outside the document.
//
// For lower-level access to per-page geometry, the reader package is
// also available.
package marginalia

import (
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/reader"
)

// Check runs a full compliance check of one PDF file with the sigconf
// margin spec and default size tolerance. It is shorthand for
// Open(path).Report().
//
// Example:
//
//	report, err := marginalia.Check("paper.pdf")
func Check(path string) (*model.DocumentReport, error) {
	return Open(path).Report()
}

// Open prepares a check of the given PDF file and returns a Checker
// for fluent configuration. The file is not touched until a terminal
// operation such as Report or Compliant runs.
//
// Example:
//
//	report, err := marginalia.Open("paper.pdf").PageRange(1, 10).Report()
func Open(path string) *Checker {
	return &Checker{
		path:    path,
		options: defaultOptions(),
	}
}

// FromReader creates a Checker from an already-opened reader.Reader.
// This is useful when you need more control over the reader lifecycle.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := reader.Open("paper.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	report, err := marginalia.FromReader(r).Report()
func FromReader(r *reader.Reader) *Checker {
	return &Checker{
		r:            r,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	report := marginalia.Must(marginalia.Check("paper.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
