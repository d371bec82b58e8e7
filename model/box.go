package model

// Kind identifies what produced a content box on a page
type Kind string

const (
	KindText       Kind = "text"
	KindImage      Kind = "image"
	KindVectorPath Kind = "vector_path"
	KindAnnotation Kind = "annotation"
)

// ContentBox is the axis-aligned bounding box of one piece of visible
// page content, in page coordinates with the origin at the bottom-left.
// Coordinates are normalized at construction so that X1 >= X0 and
// Y1 >= Y0 always hold.
type ContentBox struct {
	Kind Kind    `json:"kind"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`

	// Label carries a short description of the content for report
	// messages, such as a text snippet or an image resource name.
	Label string `json:"label,omitempty"`
}

// NewContentBox creates a content box from two opposite corners.
// The corners may be given in any order.
func NewContentBox(kind Kind, x0, y0, x1, y1 float64) ContentBox {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return ContentBox{Kind: kind, X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// BoxFromBBox creates a content box covering the given bounding box
func BoxFromBBox(kind Kind, b BBox) ContentBox {
	return NewContentBox(kind, b.Left(), b.Bottom(), b.Right(), b.Top())
}

// Bounds returns the box as a BBox
func (c ContentBox) Bounds() BBox {
	return NewBBox(c.X0, c.Y0, c.X1-c.X0, c.Y1-c.Y0)
}

// Width returns the horizontal extent of the box
func (c ContentBox) Width() float64 { return c.X1 - c.X0 }

// Height returns the vertical extent of the box
func (c ContentBox) Height() float64 { return c.Y1 - c.Y0 }

// IsEmpty checks if the box has zero area. Empty boxes mark nothing
// visible and are ignored by margin evaluation.
func (c ContentBox) IsEmpty() bool {
	return c.X1 <= c.X0 || c.Y1 <= c.Y0
}
