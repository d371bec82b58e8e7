// Package reader provides document-level access to PDF files for
// layout inspection.
//
// A Reader owns an open file handle and hands out per-page geometry:
// the visual page size and the bounding boxes of everything placed on
// the page. It is the entry point the rest of the module builds on.
//
// # Opening Documents
//
// Use [Open] to open a PDF file:
//
//	r, err := reader.Open("paper.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Open failures are always an [UnreadableError]; unwrap it to tell a
// missing file from a corrupt or encrypted one.
//
// # Page Geometry
//
// Pages are addressed by 0-based index:
//
//	n, err := r.PageCount()
//	size, boxes, err := r.PageGeometry(0)
//
// PageGeometry applies the page rotation, so a portrait page with
// /Rotate 90 reports a landscape size and boxes already mapped into
// that orientation. Individual pages that cannot be measured return an
// [UnsupportedPageError] without poisoning the rest of the document.
package reader
