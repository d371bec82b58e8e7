// Package model provides the shared data types for PDF margin checking.
//
// This package defines the vocabulary the rest of the module speaks:
// page geometry primitives, the layout requirements being checked
// against, the content boxes extracted from pages, and the report
// types that carry findings back to callers.
//
// # Layout Requirements
//
// The check targets the ACM sigconf physical layout. Its constants are
// exposed directly:
//
//   - [LetterWidth], [LetterHeight] - the required page size in points
//   - [Sigconf] - the required minimum margins
//   - [DefaultSizeTolerance] - allowed deviation from Letter dimensions
//
// [MarginSpec] describes a set of minimum margins, and
// [MarginSpec.AllowedRect] derives the region content must stay inside
// for a given page size.
//
// # Content Boxes
//
// A [ContentBox] is the axis-aligned footprint of one piece of visible
// page content, tagged with a [Kind] (text, image, vector path, or
// annotation). Boxes use page coordinates with the origin at the
// bottom-left corner and are normalized at construction.
//
// # Reports
//
// Findings are plain data, not errors. Each finding is a [Violation]
// charged against an [Edge]; violations roll up into a [PageReport]
// per page and a [DocumentReport] per file. A document that fails to
// parse still yields a report, with ParseError set.
//
// # Geometry
//
// Geometric primitives support the coordinate work:
//
//   - [BBox] - bounding box with intersection and union calculations
//   - [Point] - 2D point
//   - [Matrix] - 2D affine transformation matrix in PDF operand order
package model
