package graphicsstate

import (
	"github.com/tsawler/marginalia/model"
)

// PathSegmentType defines the type of path segment
type PathSegmentType int

const (
	// PathMoveTo starts a new subpath
	PathMoveTo PathSegmentType = iota
	// PathLineTo draws a line to a point
	PathLineTo
	// PathCurveTo draws a cubic Bézier curve
	PathCurveTo
	// PathClosePath closes the current subpath
	PathClosePath
)

// PathSegment represents a single segment of a path
type PathSegment struct {
	Type PathSegmentType

	// For MoveTo and LineTo: single point
	// For CurveTo: control point 1, control point 2, end point
	Points []model.Point
}

// Path represents a graphics path being constructed
type Path struct {
	// Segments contains all the path segments
	Segments []PathSegment

	// CurrentPoint is the current point in user space
	CurrentPoint model.Point

	// SubpathStart is the start of the current subpath (for closepath)
	SubpathStart model.Point

	// HasCurrentPoint indicates if a current point has been set
	HasCurrentPoint bool
}

// NewPath creates a new empty path
func NewPath() *Path {
	return &Path{
		Segments: make([]PathSegment, 0),
	}
}

// MoveTo starts a new subpath at the specified point (m operator)
func (p *Path) MoveTo(x, y float64) {
	pt := model.Point{X: x, Y: y}
	p.Segments = append(p.Segments, PathSegment{
		Type:   PathMoveTo,
		Points: []model.Point{pt},
	})
	p.CurrentPoint = pt
	p.SubpathStart = pt
	p.HasCurrentPoint = true
}

// LineTo appends a line segment from current point to (x, y) (l operator)
func (p *Path) LineTo(x, y float64) {
	if !p.HasCurrentPoint {
		// Treat as moveto if no current point
		p.MoveTo(x, y)
		return
	}

	pt := model.Point{X: x, Y: y}
	p.Segments = append(p.Segments, PathSegment{
		Type:   PathLineTo,
		Points: []model.Point{pt},
	})
	p.CurrentPoint = pt
}

// CurveTo appends a cubic Bézier curve (c operator)
// Control points (x1, y1) and (x2, y2), end point (x3, y3)
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !p.HasCurrentPoint {
		p.MoveTo(x1, y1)
	}

	p.Segments = append(p.Segments, PathSegment{
		Type: PathCurveTo,
		Points: []model.Point{
			{X: x1, Y: y1},
			{X: x2, Y: y2},
			{X: x3, Y: y3},
		},
	})
	p.CurrentPoint = model.Point{X: x3, Y: y3}
}

// CurveToV appends a cubic Bézier curve with first control point = current point (v operator)
func (p *Path) CurveToV(x2, y2, x3, y3 float64) {
	if !p.HasCurrentPoint {
		return
	}
	p.CurveTo(p.CurrentPoint.X, p.CurrentPoint.Y, x2, y2, x3, y3)
}

// CurveToY appends a cubic Bézier curve with second control point = end point (y operator)
func (p *Path) CurveToY(x1, y1, x3, y3 float64) {
	if !p.HasCurrentPoint {
		return
	}
	p.CurveTo(x1, y1, x3, y3, x3, y3)
}

// ClosePath closes the current subpath (h operator)
func (p *Path) ClosePath() {
	if !p.HasCurrentPoint {
		return
	}

	p.Segments = append(p.Segments, PathSegment{
		Type: PathClosePath,
	})

	// Move current point back to subpath start
	p.CurrentPoint = p.SubpathStart
}

// Rectangle appends a rectangle as a complete subpath (re operator)
func (p *Path) Rectangle(x, y, width, height float64) {
	p.MoveTo(x, y)
	p.LineTo(x+width, y)
	p.LineTo(x+width, y+height)
	p.LineTo(x, y+height)
	p.ClosePath()
}

// Clear resets the path
func (p *Path) Clear() {
	p.Segments = p.Segments[:0]
	p.HasCurrentPoint = false
}

// IsEmpty returns true if the path has no segments
func (p *Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Points returns every point mentioned by the path, including Bézier
// control points. The hull of these points contains the rendered curve,
// so a bounding box over them is a safe over-estimate of the ink extent.
func (p *Path) Points() []model.Point {
	var pts []model.Point
	for _, seg := range p.Segments {
		pts = append(pts, seg.Points...)
	}
	return pts
}

// PathTracker follows path construction operators and reports the
// device-space extent of each painted path
type PathTracker struct {
	// Graphics state reference, for the CTM at paint time
	gs *GraphicsState

	current *Path
}

// NewPathTracker creates a path tracker bound to a graphics state
func NewPathTracker(gs *GraphicsState) *PathTracker {
	return &PathTracker{
		gs:      gs,
		current: NewPath(),
	}
}

// MoveTo handles the m operator
func (pt *PathTracker) MoveTo(x, y float64) {
	pt.current.MoveTo(x, y)
}

// LineTo handles the l operator
func (pt *PathTracker) LineTo(x, y float64) {
	pt.current.LineTo(x, y)
}

// CurveTo handles the c operator
func (pt *PathTracker) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	pt.current.CurveTo(x1, y1, x2, y2, x3, y3)
}

// CurveToV handles the v operator
func (pt *PathTracker) CurveToV(x2, y2, x3, y3 float64) {
	pt.current.CurveToV(x2, y2, x3, y3)
}

// CurveToY handles the y operator
func (pt *PathTracker) CurveToY(x1, y1, x3, y3 float64) {
	pt.current.CurveToY(x1, y1, x3, y3)
}

// ClosePath handles the h operator
func (pt *PathTracker) ClosePath() {
	pt.current.ClosePath()
}

// Rectangle handles the re operator
func (pt *PathTracker) Rectangle(x, y, width, height float64) {
	pt.current.Rectangle(x, y, width, height)
}

// Paint consumes the current path for a painting operator (S, s, f, F,
// f*, B, B*, b, b*) and returns its device-space bounding box. The
// second return value is false when there is no path to paint.
//
// The box covers the hull of all path points transformed through the
// CTM. For Bézier segments the control points are included, which can
// only grow the box, never shrink it.
func (pt *PathTracker) Paint(close bool) (model.BBox, bool) {
	if close {
		pt.current.ClosePath()
	}

	points := pt.current.Points()
	pt.current.Clear()

	if len(points) == 0 {
		return model.BBox{}, false
	}

	first := pt.gs.CTM.Transform(points[0])
	box := model.NewBBoxFromPoints(first, first)
	for _, p := range points[1:] {
		dp := pt.gs.CTM.Transform(p)
		box = box.Union(model.NewBBoxFromPoints(dp, dp))
	}

	return box, true
}

// EndPath handles the n operator (end path without filling or stroking)
func (pt *PathTracker) EndPath() {
	pt.current.Clear()
}

// HasPath reports whether a path is under construction
func (pt *PathTracker) HasPath() bool {
	return !pt.current.IsEmpty()
}
