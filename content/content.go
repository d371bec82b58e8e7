package content

import (
	"fmt"
	"io"
	"strings"

	"seehuhn.de/go/pdf"

	"github.com/tsawler/marginalia/contentstream"
	"github.com/tsawler/marginalia/font"
	"github.com/tsawler/marginalia/graphicsstate"
	"github.com/tsawler/marginalia/model"
)

// maxFormDepth bounds form XObject nesting. Well-formed documents stay
// in the single digits.
const maxFormDepth = 16

// maxLabelLen is the longest content snippet carried as a box label
const maxLabelLen = 40

// resourceScope is one level of resource lookup. The page contributes
// the outermost scope; each form XObject pushes its own.
type resourceScope struct {
	dict  pdf.Dict
	fonts map[string]*font.Font
	clip  *model.BBox // device-space clip from the enclosing form, nil at page level
}

// Extractor walks content stream operations and collects the bounding
// box of everything that leaves visible marks on the page: text runs,
// images, painted vector paths. Boxes come out in the coordinate space
// defined by the base matrix passed to Extract.
type Extractor struct {
	r pdf.Getter

	gs     *graphicsstate.GraphicsState
	paths  *graphicsstate.PathTracker
	scopes []resourceScope
	boxes  []model.ContentBox

	// Parsed fonts shared across pages and forms, keyed by their
	// indirect reference
	fontCache map[pdf.Reference]*font.Font

	// References of form XObjects on the current draw stack, to stop
	// self-referencing forms
	formPath  map[pdf.Reference]bool
	formDepth int
}

// NewExtractor creates a content extractor reading objects through r
func NewExtractor(r pdf.Getter) *Extractor {
	return &Extractor{
		r:         r,
		fontCache: make(map[pdf.Reference]*font.Font),
		formPath:  make(map[pdf.Reference]bool),
	}
}

// Extract parses the content stream data and returns the boxes of all
// visible content. The base matrix is applied under every drawing
// operation; passing the page's BaseTransform yields boxes in
// page-relative visual coordinates. The resources dictionary supplies
// fonts and XObjects; it may be nil for pages without resources.
//
// Damaged structures inside the stream degrade to best-effort boxes.
// Only an unparseable stream is an error.
func (e *Extractor) Extract(data []byte, resources pdf.Dict, base model.Matrix) ([]model.ContentBox, error) {
	operations, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}

	e.gs = graphicsstate.NewGraphicsState()
	e.gs.CTM = base
	e.paths = graphicsstate.NewPathTracker(e.gs)
	e.scopes = []resourceScope{{dict: resources, fonts: make(map[string]*font.Font)}}
	e.boxes = nil

	for _, op := range operations {
		e.processOperation(op)
	}

	return e.boxes, nil
}

// processOperation processes a single content stream operation.
// Unknown operators and malformed operands are ignored; a damaged
// stream should degrade, not fail the page.
func (e *Extractor) processOperation(op contentstream.Operation) {
	switch op.Operator {
	// Graphics state
	case "q":
		e.gs.Save()
	case "Q":
		if err := e.gs.Restore(); err != nil {
			// Unbalanced restore, keep going with the current state
			return
		}
	case "cm":
		if len(op.Operands) == 6 {
			e.gs.Transform(operandsToMatrix(op.Operands))
		}

	// Text state
	case "BT":
		e.gs.BeginText()
	case "ET":
		e.gs.EndText()
	case "Tf":
		if len(op.Operands) == 2 {
			if name, ok := op.Operands[0].(pdf.Name); ok {
				if size, ok := toFloat(op.Operands[1]); ok {
					e.gs.SetFont(string(name), size)
				}
			}
		}
	case "Tc":
		if len(op.Operands) == 1 {
			if spacing, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetCharSpacing(spacing)
			}
		}
	case "Tw":
		if len(op.Operands) == 1 {
			if spacing, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetWordSpacing(spacing)
			}
		}
	case "Tz":
		if len(op.Operands) == 1 {
			if scale, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetHorizontalScaling(scale)
			}
		}
	case "TL":
		if len(op.Operands) == 1 {
			if leading, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetLeading(leading)
			}
		}
	case "Tr":
		if len(op.Operands) == 1 {
			if mode, ok := toInt(op.Operands[0]); ok {
				e.gs.SetRenderingMode(mode)
			}
		}
	case "Ts":
		if len(op.Operands) == 1 {
			if rise, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetTextRise(rise)
			}
		}

	// Text positioning
	case "Tm":
		if len(op.Operands) == 6 {
			e.gs.SetTextMatrix(operandsToMatrix(op.Operands))
		}
	case "Td":
		if len(op.Operands) == 2 {
			tx, _ := toFloat(op.Operands[0])
			ty, _ := toFloat(op.Operands[1])
			e.gs.TranslateText(tx, ty)
		}
	case "TD":
		if len(op.Operands) == 2 {
			tx, _ := toFloat(op.Operands[0])
			ty, _ := toFloat(op.Operands[1])
			e.gs.TranslateTextSetLeading(tx, ty)
		}
	case "T*":
		e.gs.NextLine()

	// Text showing
	case "Tj":
		if len(op.Operands) == 1 {
			if str, ok := op.Operands[0].(pdf.String); ok {
				e.showText([]byte(str))
			}
		}
	case "TJ":
		if len(op.Operands) == 1 {
			if arr, ok := op.Operands[0].(pdf.Array); ok {
				e.showTextArray(arr)
			}
		}
	case "'":
		e.gs.NextLine()
		if len(op.Operands) == 1 {
			if str, ok := op.Operands[0].(pdf.String); ok {
				e.showText([]byte(str))
			}
		}
	case "\"":
		if len(op.Operands) == 3 {
			if wordSpacing, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetWordSpacing(wordSpacing)
			}
			if charSpacing, ok := toFloat(op.Operands[1]); ok {
				e.gs.SetCharSpacing(charSpacing)
			}
			e.gs.NextLine()
			if str, ok := op.Operands[2].(pdf.String); ok {
				e.showText([]byte(str))
			}
		}

	// Path construction
	case "m":
		if len(op.Operands) == 2 {
			x, _ := toFloat(op.Operands[0])
			y, _ := toFloat(op.Operands[1])
			e.paths.MoveTo(x, y)
		}
	case "l":
		if len(op.Operands) == 2 {
			x, _ := toFloat(op.Operands[0])
			y, _ := toFloat(op.Operands[1])
			e.paths.LineTo(x, y)
		}
	case "c":
		if len(op.Operands) == 6 {
			x1, _ := toFloat(op.Operands[0])
			y1, _ := toFloat(op.Operands[1])
			x2, _ := toFloat(op.Operands[2])
			y2, _ := toFloat(op.Operands[3])
			x3, _ := toFloat(op.Operands[4])
			y3, _ := toFloat(op.Operands[5])
			e.paths.CurveTo(x1, y1, x2, y2, x3, y3)
		}
	case "v":
		if len(op.Operands) == 4 {
			x2, _ := toFloat(op.Operands[0])
			y2, _ := toFloat(op.Operands[1])
			x3, _ := toFloat(op.Operands[2])
			y3, _ := toFloat(op.Operands[3])
			e.paths.CurveToV(x2, y2, x3, y3)
		}
	case "y":
		if len(op.Operands) == 4 {
			x1, _ := toFloat(op.Operands[0])
			y1, _ := toFloat(op.Operands[1])
			x3, _ := toFloat(op.Operands[2])
			y3, _ := toFloat(op.Operands[3])
			e.paths.CurveToY(x1, y1, x3, y3)
		}
	case "h":
		e.paths.ClosePath()
	case "re":
		if len(op.Operands) == 4 {
			x, _ := toFloat(op.Operands[0])
			y, _ := toFloat(op.Operands[1])
			w, _ := toFloat(op.Operands[2])
			h, _ := toFloat(op.Operands[3])
			e.paths.Rectangle(x, y, w, h)
		}

	// Path painting
	case "S", "f", "F", "f*", "B", "B*":
		if box, ok := e.paths.Paint(false); ok {
			e.emit(model.KindVectorPath, box, "")
		}
	case "s", "b", "b*":
		if box, ok := e.paths.Paint(true); ok {
			e.emit(model.KindVectorPath, box, "")
		}
	case "n":
		e.paths.EndPath()

	// XObjects and inline images
	case "Do":
		if len(op.Operands) == 1 {
			if name, ok := op.Operands[0].(pdf.Name); ok {
				e.drawXObject(name)
			}
		}
	case "BI":
		e.emit(model.KindImage, e.gs.CTM.TransformBBox(unitSquare()), "inline image")
	}
}

// showText measures a string shown by Tj, ' or " and records its box.
// Invisible text (rendering mode 3) and whitespace-only strings advance
// the text position without producing a box.
func (e *Extractor) showText(data []byte) {
	if len(data) == 0 {
		return
	}

	f := e.currentFont()
	if f.IsVertical() {
		e.showTextVertical(f, data)
		return
	}

	ts := &e.gs.Text

	var advance float64
	for _, code := range f.Codes(data) {
		w := f.GetWidth(code)*f.WidthScale()*ts.FontSize + ts.CharSpacing
		// Word spacing applies to the single-byte space code only
		if code == 32 && !f.Composite {
			w += ts.WordSpacing
		}
		advance += w
	}
	advance *= ts.HorizontalScaling / 100

	if !e.gs.TextInvisible() {
		decoded := f.DecodeString(data)
		if strings.TrimSpace(decoded) != "" {
			box := model.NewBBoxFromCorners(
				0, f.Descent()*ts.FontSize+ts.Rise,
				advance, f.Ascent()*ts.FontSize+ts.Rise,
			)
			e.emit(model.KindText, e.gs.TextComposite().TransformBBox(box), textLabel(decoded))
		}
	}

	e.gs.AdvanceText(advance)
}

// showTextVertical measures a string in vertical writing mode. Glyphs
// stack downward along the baseline with advances from the W2 metrics.
func (e *Extractor) showTextVertical(f *font.Font, data []byte) {
	ts := &e.gs.Text

	var advance float64
	for _, code := range f.Codes(data) {
		advance += f.W1(code)*f.WidthScale()*ts.FontSize + ts.CharSpacing
	}

	if !e.gs.TextInvisible() {
		decoded := f.DecodeString(data)
		if strings.TrimSpace(decoded) != "" {
			half := ts.FontSize / 2
			box := model.NewBBoxFromCorners(-half, advance, half, 0)
			e.emit(model.KindText, e.gs.TextComposite().TransformBBox(box), textLabel(decoded))
		}
	}

	e.gs.AdvanceTextVertical(advance)
}

// showTextArray handles the TJ operator: strings are shown, numbers
// adjust the position in thousandths of text space.
func (e *Extractor) showTextArray(arr pdf.Array) {
	vertical := e.currentFont().IsVertical()

	for _, item := range arr {
		switch v := item.(type) {
		case pdf.String:
			e.showText([]byte(v))
		case pdf.Integer:
			if vertical {
				e.gs.AdjustTextVertical(float64(v))
			} else {
				e.gs.AdjustText(float64(v))
			}
		case pdf.Real:
			if vertical {
				e.gs.AdjustTextVertical(float64(v))
			} else {
				e.gs.AdjustText(float64(v))
			}
		}
	}
}

// drawXObject handles the Do operator. Image XObjects occupy the unit
// square mapped through the CTM; form XObjects are walked recursively.
// XObjects that cannot be resolved are skipped.
func (e *Extractor) drawXObject(name pdf.Name) {
	scope := e.scopes[len(e.scopes)-1]
	if scope.dict == nil {
		return
	}

	xobjects, err := pdf.GetDict(e.r, scope.dict["XObject"])
	if err != nil || xobjects == nil {
		return
	}

	obj := xobjects[name]
	stream, err := pdf.GetStream(e.r, obj)
	if err != nil || stream == nil {
		return
	}

	subtype, err := pdf.GetName(e.r, stream.Dict["Subtype"])
	if err != nil {
		return
	}

	switch subtype {
	case "Image":
		e.emit(model.KindImage, e.gs.CTM.TransformBBox(unitSquare()), string(name))
	case "Form":
		e.drawForm(obj, stream)
	}
}

// drawForm walks a form XObject's content with the form matrix composed
// onto the CTM. The form's BBox clips its output, and forms already on
// the draw stack are skipped so self-referencing forms terminate.
func (e *Extractor) drawForm(obj pdf.Object, stream *pdf.Stream) {
	if e.formDepth >= maxFormDepth {
		return
	}

	if ref, ok := obj.(pdf.Reference); ok {
		if e.formPath[ref] {
			return
		}
		e.formPath[ref] = true
		defer delete(e.formPath, ref)
	}

	data, err := decodeStream(e.r, stream)
	if err != nil {
		return
	}
	operations, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return
	}

	// Forms without their own resources inherit the enclosing scope's
	resources, err := pdf.GetDict(e.r, stream.Dict["Resources"])
	if err != nil || resources == nil {
		resources = e.scopes[len(e.scopes)-1].dict
	}

	depth := e.gs.Depth()
	e.gs.Save()

	if m, err := pdf.GetArray(e.r, stream.Dict["Matrix"]); err == nil && len(m) == 6 {
		e.gs.Transform(operandsToMatrix(m))
	}

	clip := e.scopes[len(e.scopes)-1].clip
	if rect, err := pdf.GetRectangle(e.r, stream.Dict["BBox"]); err == nil && rect != nil {
		b := e.gs.CTM.TransformBBox(model.NewBBoxFromCorners(rect.LLx, rect.LLy, rect.URx, rect.URy))
		if clip != nil {
			b = b.Intersection(*clip)
		}
		clip = &b
	}

	e.formDepth++
	e.scopes = append(e.scopes, resourceScope{
		dict:  resources,
		fonts: make(map[string]*font.Font),
		clip:  clip,
	})

	for _, op := range operations {
		e.processOperation(op)
	}

	e.scopes = e.scopes[:len(e.scopes)-1]
	e.formDepth--

	// Unwind any save levels the form left behind
	for e.gs.Depth() > depth {
		if err := e.gs.Restore(); err != nil {
			break
		}
	}
}

// currentFont returns the font selected by the last Tf, parsing it from
// the current resource scope on first use. Unresolvable fonts fall back
// to Helvetica metrics so text advance still approximates.
func (e *Extractor) currentFont() *font.Font {
	name := e.gs.Text.FontName
	scope := &e.scopes[len(e.scopes)-1]

	if f, ok := scope.fonts[name]; ok {
		return f
	}
	f := e.loadFont(scope.dict, name)
	scope.fonts[name] = f
	return f
}

// loadFont parses a font out of a resources dictionary
func (e *Extractor) loadFont(resources pdf.Dict, name string) *font.Font {
	if resources != nil {
		if fonts, err := pdf.GetDict(e.r, resources["Font"]); err == nil && fonts != nil {
			if obj := fonts[pdf.Name(name)]; obj != nil {
				ref, isRef := obj.(pdf.Reference)
				if isRef {
					if f, ok := e.fontCache[ref]; ok {
						return f
					}
				}
				if f, err := font.ParseFont(e.r, name, obj); err == nil {
					if isRef {
						e.fontCache[ref] = f
					}
					return f
				}
			}
		}
	}
	return font.NewFont(name, "Helvetica", "Type1")
}

// emit records a content box, clipped to the enclosing form's BBox.
// Boxes with no area mark nothing visible and are dropped.
func (e *Extractor) emit(kind model.Kind, b model.BBox, label string) {
	if clip := e.scopes[len(e.scopes)-1].clip; clip != nil {
		b = b.Intersection(*clip)
	}

	box := model.BoxFromBBox(kind, b)
	box.Label = label
	if box.IsEmpty() {
		return
	}
	e.boxes = append(e.boxes, box)
}

// decodeStream applies the stream's filter chain and reads the result
func decodeStream(r pdf.Getter, stream *pdf.Stream) ([]byte, error) {
	body, err := pdf.DecodeStream(r, stream, 0)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(body)
}

// unitSquare returns the box images are drawn into before the CTM
func unitSquare() model.BBox {
	return model.NewBBox(0, 0, 1, 1)
}

// textLabel trims a decoded string down to a short locator for report
// messages
func textLabel(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxLabelLen {
		return string(runes[:maxLabelLen])
	}
	return s
}

// Helper functions

func toFloat(obj pdf.Object) (float64, bool) {
	switch v := obj.(type) {
	case pdf.Integer:
		return float64(v), true
	case pdf.Real:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(obj pdf.Object) (int, bool) {
	if i, ok := obj.(pdf.Integer); ok {
		return int(i), true
	}
	return 0, false
}

func operandsToMatrix(operands []pdf.Object) model.Matrix {
	if len(operands) != 6 {
		return model.Identity()
	}

	var m model.Matrix
	for i, op := range operands {
		m[i], _ = toFloat(op)
	}
	return m
}
