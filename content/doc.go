// Package content walks PDF content streams and reports the bounding
// box of everything that leaves visible marks on a page.
//
// The extractor executes the drawing operations of a content stream
// against a graphics state machine and records one box per visible
// item: a text run, an image placement, a painted vector path. It does
// not rasterize anything. Boxes land in whatever coordinate space the
// base matrix establishes, so callers decide whether they want raw PDF
// user space or page-relative visual coordinates:
//
//	extractor := content.NewExtractor(reader)
//	boxes, err := extractor.Extract(data, page.Resources, page.BaseTransform())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, box := range boxes {
//	    fmt.Printf("%s at (%.1f, %.1f)\n", box.Kind, box.X0, box.Y0)
//	}
//
// # What Counts as Visible
//
// Text shown with rendering mode 3 moves the text position but paints
// no glyphs, so it produces no box. The same goes for strings that
// decode to nothing but whitespace. Path segments contribute only when
// a painting operator fires; a path ended with the no-op operator n is
// discarded. Form XObjects are walked recursively with their matrix
// composed onto the current transformation, and their BBox entry clips
// whatever they draw.
//
// # Damaged Streams
//
// A page's content stream must parse; everything beyond that degrades.
// Unknown operators are skipped, missing fonts fall back to standard
// metrics, and forms that fail to decode simply contribute nothing.
// The goal is a usable set of boxes from real-world files, not strict
// validation.
package content
