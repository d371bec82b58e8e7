package model

import "math"

// US Letter page dimensions in PDF points (1/72 inch)
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// DefaultSizeTolerance is the default allowed deviation, in points,
// between a page dimension and the expected Letter dimension. Real
// documents often carry boxes like 612.00 x 792.02 from unit
// round-tripping, which should still pass.
const DefaultSizeTolerance = 1.0

// PageSize holds the effective page dimensions in points, after any
// page rotation has been applied
type PageSize struct {
	Width  float64 `json:"width_pt"`
	Height float64 `json:"height_pt"`
}

// Letter returns the US Letter page size (612 x 792 points)
func Letter() PageSize {
	return PageSize{Width: LetterWidth, Height: LetterHeight}
}

// IsLetter checks whether the page is Letter-sized within the given
// tolerance in points. Both portrait and landscape orientations count.
func (s PageSize) IsLetter(tolerance float64) bool {
	portrait := math.Abs(s.Width-LetterWidth) <= tolerance &&
		math.Abs(s.Height-LetterHeight) <= tolerance
	landscape := math.Abs(s.Width-LetterHeight) <= tolerance &&
		math.Abs(s.Height-LetterWidth) <= tolerance
	return portrait || landscape
}

// MarginSpec defines the minimum clear distance, in points, required
// between page content and each page edge
type MarginSpec struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Sigconf holds the minimum margins required by the ACM sigconf
// two-column layout: 57pt top, 73pt bottom, 54pt left and right.
var Sigconf = MarginSpec{
	Top:    57,
	Bottom: 73,
	Left:   54,
	Right:  54,
}

// AllowedRect returns the region of a page, as a bounding box, inside
// which content must stay to satisfy the margins. The rectangle is
// computed from the page's own dimensions, not from the nominal Letter
// size, so margin findings stay meaningful on off-size pages.
func (m MarginSpec) AllowedRect(size PageSize) BBox {
	return NewBBoxFromCorners(
		m.Left,
		m.Bottom,
		size.Width-m.Right,
		size.Height-m.Top,
	)
}
