// Package pages provides access to the pages of a PDF document.
//
// Pages are loaded one at a time by index, with inheritable attributes
// (MediaBox, CropBox, Rotate, Resources) already merged in from the
// page tree:
//
//	count, _ := pages.Count(r)
//	page, _ := pages.Load(r, 0)  // 0-indexed
//
// # Page Attributes
//
// The [Page] type carries the attributes that matter for layout
// inspection:
//
//   - MediaBox - page extent in points
//   - CropBox - visible area (optional)
//   - Rotate - page rotation, normalized to 0, 90, 180, or 270
//   - Resources - fonts, XObjects, and other named resources
//   - Annots - annotation dictionaries
//
// [Page.Size] applies the rotation, so a Letter page rotated 90
// degrees reports 792 x 612 points.
//
// # Content Streams
//
// [Page.ContentStream] decodes the page content on demand. A Contents
// array is concatenated into a single byte slice, the way viewers
// treat it. Decoding is separate from loading so that page geometry
// remains available when a content stream is damaged.
package pages
