package model

import (
	"math"
)

// Point represents a 2D point in PDF coordinate space (origin bottom-left)
type Point struct {
	X, Y float64
}

// BBox represents a bounding box in PDF coordinates.
// X, Y is the bottom-left corner; Y increases upward.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from position and size
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box from two corner points.
// The points may be given in any order.
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return NewBBoxFromCorners(p1.X, p1.Y, p2.X, p2.Y)
}

// NewBBoxFromCorners creates a bounding box from two opposite corners.
// The corners may be given in any order.
func NewBBoxFromCorners(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 { return b.X }

// Right returns the right edge X coordinate
func (b BBox) Right() float64 { return b.X + b.Width }

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 { return b.Y }

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 { return b.Y + b.Height }

// Intersects checks if two bounding boxes overlap
func (b BBox) Intersects(other BBox) bool {
	return b.Left() <= other.Right() && b.Right() >= other.Left() &&
		b.Bottom() <= other.Top() && b.Top() >= other.Bottom()
}

// Intersection returns the overlapping region of two bounding boxes,
// or the zero BBox if they do not overlap
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}

	left := math.Max(b.Left(), other.Left())
	right := math.Min(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())
	top := math.Min(b.Top(), other.Top())

	return BBox{
		X:      left,
		Y:      bottom,
		Width:  right - left,
		Height: top - bottom,
	}
}

// Union returns the smallest bounding box containing both boxes
func (b BBox) Union(other BBox) BBox {
	left := math.Min(b.Left(), other.Left())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Min(b.Bottom(), other.Bottom())
	top := math.Max(b.Top(), other.Top())

	return BBox{
		X:      left,
		Y:      bottom,
		Width:  right - left,
		Height: top - bottom,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty checks if the bounding box has zero or negative area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// IsValid checks if the bounding box has positive dimensions
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

// Matrix represents a 2D affine transformation matrix in PDF order:
// [a b c d e f] transforms (x, y) to (a*x + c*y + e, b*x + d*y + f)
type Matrix [6]float64

// Identity returns the identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// TransformBBox applies the matrix to all four corners of a box and
// returns the axis-aligned bounding box of the result. This is exact
// for translation and scaling and a safe over-estimate under rotation
// or skew.
func (m Matrix) TransformBBox(b BBox) BBox {
	p1 := m.Transform(Point{b.Left(), b.Bottom()})
	p2 := m.Transform(Point{b.Right(), b.Bottom()})
	p3 := m.Transform(Point{b.Left(), b.Top()})
	p4 := m.Transform(Point{b.Right(), b.Top()})

	minX := math.Min(math.Min(p1.X, p2.X), math.Min(p3.X, p4.X))
	maxX := math.Max(math.Max(p1.X, p2.X), math.Max(p3.X, p4.X))
	minY := math.Min(math.Min(p1.Y, p2.Y), math.Min(p3.Y, p4.Y))
	maxY := math.Max(math.Max(p1.Y, p2.Y), math.Max(p3.Y, p4.Y))

	return NewBBoxFromCorners(minX, minY, maxX, maxY)
}

// Multiply computes m * other. The receiver is applied first, then other:
// combined.Transform(p) == other.Transform(m.Transform(p))
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// IsIdentity checks if the matrix is the identity matrix
func (m Matrix) IsIdentity() bool {
	return m == Matrix{1, 0, 0, 1, 0, 0}
}
