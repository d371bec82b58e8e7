package reader

import (
	"fmt"

	"seehuhn.de/go/pdf"

	"github.com/tsawler/marginalia/content"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/pages"
)

// UnreadableError reports a document that could not be opened at all,
// such as a missing file or a corrupt cross-reference structure. The
// underlying cause is available through errors.Unwrap.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("unreadable PDF %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}

// UnsupportedPageError reports a single page whose geometry could not
// be determined. The rest of the document remains usable; callers
// record the reason and move on to the next page.
type UnsupportedPageError struct {
	Page   int // 0-based page index
	Reason string
}

func (e *UnsupportedPageError) Error() string {
	return fmt.Sprintf("page %d unsupported: %s", e.Page, e.Reason)
}

// Reader is an open PDF document positioned for layout inspection.
// It is not safe for concurrent use; callers wanting parallelism open
// one Reader per goroutine.
type Reader struct {
	path      string
	pdf       *pdf.Reader
	extractor *content.Extractor
}

// Open opens a PDF file for reading. Failures of any kind come back as
// an *UnreadableError wrapping the underlying cause. Damaged but
// recoverable files open in a tolerant mode, so structural defects
// surface later as skipped pages rather than here.
func Open(path string) (*Reader, error) {
	opt := &pdf.ReaderOptions{
		ErrorHandling: pdf.ErrorHandlingReport,
	}
	r, err := pdf.Open(path, opt)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}

	return &Reader{
		path:      path,
		pdf:       r,
		extractor: content.NewExtractor(r),
	}, nil
}

// Close closes the underlying file
func (r *Reader) Close() error {
	return r.pdf.Close()
}

// Path returns the path the document was opened from
func (r *Reader) Path() string {
	return r.path
}

// PageCount returns the number of pages. A page tree too damaged to
// count is an *UnreadableError.
func (r *Reader) PageCount() (int, error) {
	n, err := pages.Count(r.pdf)
	if err != nil {
		return 0, &UnreadableError{Path: r.path, Err: err}
	}
	return n, nil
}

// Page loads the page at the given index (0-based)
func (r *Reader) Page(index int) (*pages.Page, error) {
	return pages.Load(r.pdf, index)
}

// PageGeometry returns the visual page size and the bounding boxes of
// everything on the page: content stream marks plus annotation
// rectangles. Boxes come out in page-relative visual coordinates, with
// the page rotation applied, so (0, 0) is the bottom-left corner of
// the page as displayed and the size reflects the displayed
// orientation.
//
// Pages that cannot be measured - no MediaBox, undecodable content
// stream - return an *UnsupportedPageError.
func (r *Reader) PageGeometry(index int) (model.PageSize, []model.ContentBox, error) {
	page, err := pages.Load(r.pdf, index)
	if err != nil {
		return model.PageSize{}, nil, &UnsupportedPageError{Page: index, Reason: err.Error()}
	}

	size := page.Size()
	base := page.BaseTransform()

	data, err := page.ContentStream(r.pdf)
	if err != nil {
		return model.PageSize{}, nil, &UnsupportedPageError{Page: index, Reason: err.Error()}
	}

	boxes, err := r.extractor.Extract(data, page.Resources, base)
	if err != nil {
		return model.PageSize{}, nil, &UnsupportedPageError{Page: index, Reason: err.Error()}
	}

	// Annotations claim layout space even when flagged hidden, so all
	// of them are counted.
	for _, rect := range page.AnnotationRects(r.pdf) {
		box := model.BoxFromBBox(model.KindAnnotation, base.TransformBBox(rect))
		if box.IsEmpty() {
			continue
		}
		boxes = append(boxes, box)
	}

	return size, boxes, nil
}
