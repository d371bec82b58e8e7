package pages

import (
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/tsawler/marginalia/model"
)

// Page represents a single PDF page with the attributes needed for
// layout inspection. Inheritable entries (MediaBox, CropBox, Rotate,
// Resources) arrive already merged from the page tree.
type Page struct {
	Index int           // Zero-based position in the document
	Ref   pdf.Reference // Reference to the page dictionary, zero if direct
	Dict  pdf.Dict      // The merged page dictionary

	MediaBox model.BBox  // Page extent in points (required)
	CropBox  *model.BBox // Visible region, nil when absent
	Rotate   int         // Normalized to 0, 90, 180, or 270

	Resources pdf.Dict  // Resource dictionary, may be nil
	Annots    pdf.Array // Annotation array, may be nil
}

// Count returns the total number of pages in the document
func Count(r pdf.Getter) (int, error) {
	return pagetree.NumPages(r)
}

// Load reads the page at the given index (0-based) and resolves the
// attributes needed for layout inspection. A page whose MediaBox is
// missing, both on the page and on its ancestors, is an error: without
// it the page has no defined extent.
func Load(r pdf.Getter, index int) (*Page, error) {
	ref, dict, err := pagetree.GetPage(r, index)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", index, err)
	}
	if dict == nil {
		return nil, fmt.Errorf("page %d: missing page dictionary", index)
	}

	page := &Page{
		Index: index,
		Ref:   ref,
		Dict:  dict,
	}

	mediaBox, err := pdf.GetRectangle(r, dict["MediaBox"])
	if err != nil {
		return nil, fmt.Errorf("page %d: invalid MediaBox: %w", index, err)
	}
	if mediaBox == nil {
		return nil, fmt.Errorf("page %d: missing MediaBox", index)
	}
	page.MediaBox = boxFromRect(mediaBox)

	// CropBox is optional and defaults to the MediaBox when absent.
	// A malformed CropBox is ignored rather than failing the page.
	if cropBox, err := pdf.GetRectangle(r, dict["CropBox"]); err == nil && cropBox != nil {
		box := boxFromRect(cropBox)
		page.CropBox = &box
	}

	page.Rotate = normalizeRotation(r, dict["Rotate"])

	if resources, err := pdf.GetDict(r, dict["Resources"]); err == nil {
		page.Resources = resources
	}

	if annots, err := pdf.GetArray(r, dict["Annots"]); err == nil {
		page.Annots = annots
	}

	return page, nil
}

// Size returns the page dimensions in points with the rotation applied,
// so callers see the page the way a viewer displays it. A rotation of
// 90 or 270 degrees swaps width and height.
func (p *Page) Size() model.PageSize {
	width := p.MediaBox.Width
	height := p.MediaBox.Height
	if p.Rotate == 90 || p.Rotate == 270 {
		width, height = height, width
	}
	return model.PageSize{Width: width, Height: height}
}

// BaseTransform returns the matrix mapping content coordinates into
// page-relative visual space: the MediaBox origin moves to (0, 0) and
// the page rotation is applied, so (0, 0) is always the bottom-left
// corner of the page as displayed. Content boxes transformed through
// this matrix compare directly against margins computed from Size.
func (p *Page) BaseTransform() model.Matrix {
	w := p.MediaBox.Width
	h := p.MediaBox.Height
	move := model.Translate(-p.MediaBox.X, -p.MediaBox.Y)

	switch p.Rotate {
	case 90:
		return move.Multiply(model.Matrix{0, -1, 1, 0, 0, w})
	case 180:
		return move.Multiply(model.Matrix{-1, 0, 0, -1, w, h})
	case 270:
		return move.Multiply(model.Matrix{0, 1, -1, 0, h, 0})
	default:
		return move
	}
}

// ContentStream returns the decoded content stream data for the page.
// When Contents holds an array of streams, their data is concatenated
// with a newline separator, matching how viewers process them. A page
// without a Contents entry returns nil data and no error.
func (p *Page) ContentStream(r pdf.Getter) ([]byte, error) {
	contents, err := pdf.Resolve(r, p.Dict["Contents"])
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	switch c := contents.(type) {
	case nil:
		return nil, nil

	case *pdf.Stream:
		return decodeStream(r, c)

	case pdf.Array:
		var buf bytes.Buffer
		for i, elem := range c {
			stream, err := pdf.GetStream(r, elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
			if stream == nil {
				continue
			}
			data, err := decodeStream(r, stream)
			if err != nil {
				return nil, fmt.Errorf("failed to decode contents[%d]: %w", i, err)
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.Write(data)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("invalid Contents type: %T", contents)
	}
}

// AnnotationRects returns the bounding rectangles of the page's
// annotations. Hidden and NoView annotations are included because they
// still claim layout space. Entries without a usable Rect are skipped.
func (p *Page) AnnotationRects(r pdf.Getter) []model.BBox {
	var rects []model.BBox
	for _, obj := range p.Annots {
		annot, err := pdf.GetDict(r, obj)
		if err != nil || annot == nil {
			continue
		}
		rect, err := pdf.GetRectangle(r, annot["Rect"])
		if err != nil || rect == nil {
			continue
		}
		rects = append(rects, boxFromRect(rect))
	}
	return rects
}

// decodeStream applies the stream's filter chain and reads the result
func decodeStream(r pdf.Getter, stream *pdf.Stream) ([]byte, error) {
	body, err := pdf.DecodeStream(r, stream, 0)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(body)
}

// normalizeRotation reduces a Rotate entry to one of 0, 90, 180, or
// 270. Negative multiples of 90 wrap around, anything else falls back
// to the default of 0.
func normalizeRotation(r pdf.Getter, obj pdf.Object) int {
	rotate, err := pdf.GetInteger(r, obj)
	if err != nil {
		return 0
	}
	n := int(rotate) % 360
	if n < 0 {
		n += 360
	}
	if n%90 != 0 {
		return 0
	}
	return n
}

// boxFromRect converts a PDF rectangle to a normalized bounding box
func boxFromRect(rect *pdf.Rectangle) model.BBox {
	return model.NewBBoxFromCorners(rect.LLx, rect.LLy, rect.URx, rect.URy)
}
