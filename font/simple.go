package font

import (
	"fmt"
	"io"
	"math"

	"seehuhn.de/go/pdf"
)

// FontDescriptor holds the metrics from a font descriptor dictionary
// that matter for measuring text extents.
type FontDescriptor struct {
	FontName     string
	Flags        int
	FontBBox     pdf.Rectangle
	ItalicAngle  float64
	Ascent       float64
	Descent      float64
	CapHeight    float64
	MissingWidth float64
}

// ParseFont builds a Font from a font dictionary. The name is the
// resource key under which content streams select the font.
func ParseFont(r pdf.Getter, name string, obj pdf.Object) (*Font, error) {
	fontDict, err := pdf.GetDict(r, obj)
	if err != nil {
		return nil, err
	}
	if fontDict == nil {
		return nil, fmt.Errorf("font %s: missing font dictionary", name)
	}

	subtype, err := pdf.GetName(r, fontDict["Subtype"])
	if err != nil && !pdf.IsMalformed(err) {
		return nil, err
	}
	if subtype == "" {
		// Malformed dictionary, assume a simple font
		subtype = "Type1"
	}

	if subtype == "Type0" {
		return newType0Font(r, name, fontDict)
	}
	return newSimpleFont(r, name, fontDict, string(subtype))
}

// newSimpleFont parses a Type1, TrueType, MMType1 or Type3 font.
// Character codes are single bytes mapped through the encoding.
func newSimpleFont(r pdf.Getter, name string, fontDict pdf.Dict, subtype string) (*Font, error) {
	baseObj, err := pdf.Resolve(r, fontDict["BaseFont"])
	if err != nil {
		return nil, err
	}

	f := NewFont(name, extractName(baseObj), subtype)

	// Type3 fonts use an arbitrary glyph space defined by FontMatrix
	if subtype == "Type3" {
		f.parseFontMatrix(r, fontDict)
		if bbox, err := pdf.GetRectangle(r, fontDict["FontBBox"]); err == nil && bbox != nil {
			if bbox.URy != 0 {
				f.ascent = bbox.URy * f.heightScale
			}
			if bbox.LLy != 0 {
				f.descent = bbox.LLy * f.heightScale
			}
		}
	}

	if err := f.parseEncoding(r, fontDict); err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	if err := f.parseWidths(r, fontDict); err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}

	// Optional, the standard 14 fonts usually omit it
	f.parseFontDescriptor(r, fontDict)

	f.parseToUnicode(r, fontDict)

	return f, nil
}

// parseEncoding reads the Encoding entry, which is either the name of a
// predefined encoding or a dictionary with a BaseEncoding and a
// Differences array.
func (f *Font) parseEncoding(r pdf.Getter, fontDict pdf.Dict) error {
	encodingObj, err := pdf.Resolve(r, fontDict["Encoding"])
	if err != nil {
		return err
	}
	if encodingObj == nil {
		// No encoding specified, use the font's built-in encoding
		f.Encoding = "StandardEncoding"
		return nil
	}

	switch enc := encodingObj.(type) {
	case pdf.Name:
		f.Encoding = string(enc)
		return nil

	case pdf.Dict:
		if base, err := pdf.GetName(r, enc["BaseEncoding"]); err == nil && base != "" {
			f.Encoding = string(base)
		} else {
			f.Encoding = "StandardEncoding"
		}

		diffs, err := pdf.GetArray(r, enc["Differences"])
		if err != nil {
			return err
		}
		if len(diffs) > 0 {
			return f.applyEncodingDifferences(r, diffs)
		}
		return nil
	}

	return fmt.Errorf("invalid encoding type: %T", encodingObj)
}

// applyEncodingDifferences maps the Differences array onto the base
// encoding. The array alternates between a code and the glyph names
// assigned to consecutive codes starting there.
func (f *Font) applyEncodingDifferences(r pdf.Getter, diffs pdf.Array) error {
	glyphs := make(map[byte]string)
	code := 0
	for _, item := range diffs {
		obj, err := pdf.Resolve(r, item)
		if err != nil {
			return err
		}
		switch v := obj.(type) {
		case pdf.Integer:
			code = int(v)
		case pdf.Name:
			if code >= 0 && code < 256 {
				glyphs[byte(code)] = string(v)
			}
			code++
		default:
			return fmt.Errorf("invalid differences entry: %T", obj)
		}
	}

	if len(glyphs) > 0 {
		f.encoding = NewCustomEncodingFromGlyphs(GetEncoding(f.Encoding), glyphs)
	}
	return nil
}

// parseWidths reads the Widths array. Entries override the defaults
// loaded for standard fonts.
func (f *Font) parseWidths(r pdf.Getter, fontDict pdf.Dict) error {
	widths, err := pdf.GetArray(r, fontDict["Widths"])
	if err != nil {
		return err
	}
	if widths == nil {
		// The standard 14 fonts may omit the array
		return nil
	}

	firstChar := 0
	if fc, err := pdf.GetInteger(r, fontDict["FirstChar"]); err == nil {
		firstChar = int(fc)
	}

	for i, w := range widths {
		width, err := pdf.GetNumber(r, w)
		if err != nil {
			continue
		}
		f.widths[firstChar+i] = float64(width)
	}
	return nil
}

// parseFontDescriptor reads the metrics relevant for text extents.
// Missing descriptors are not an error, the defaults stand.
func (f *Font) parseFontDescriptor(r pdf.Getter, fontDict pdf.Dict) {
	fdDict, err := pdf.GetDict(r, fontDict["FontDescriptor"])
	if err != nil || fdDict == nil {
		return
	}

	fd := &FontDescriptor{}

	fontNameObj, _ := pdf.Resolve(r, fdDict["FontName"])
	fd.FontName = extractName(fontNameObj)

	if flags, err := pdf.GetInteger(r, fdDict["Flags"]); err == nil {
		fd.Flags = int(flags)
	}
	if bbox, err := pdf.GetRectangle(r, fdDict["FontBBox"]); err == nil && bbox != nil {
		fd.FontBBox = *bbox
	}

	fd.ItalicAngle = getNumber(r, fdDict["ItalicAngle"])
	fd.Ascent = getNumber(r, fdDict["Ascent"])
	fd.Descent = getNumber(r, fdDict["Descent"])
	fd.CapHeight = getNumber(r, fdDict["CapHeight"])
	fd.MissingWidth = getNumber(r, fdDict["MissingWidth"])

	f.Descriptor = fd

	if fd.MissingWidth > 0 {
		f.defaultWidth = fd.MissingWidth
	}

	// Prefer descriptor metrics for the vertical extent, fall back to
	// the bounding box
	if fd.Ascent != 0 {
		f.ascent = fd.Ascent * f.heightScale
	} else if fd.FontBBox.URy != 0 {
		f.ascent = fd.FontBBox.URy * f.heightScale
	}
	if fd.Descent != 0 {
		f.descent = fd.Descent * f.heightScale
	} else if fd.FontBBox.LLy != 0 {
		f.descent = fd.FontBBox.LLy * f.heightScale
	}
}

// parseFontMatrix reads the Type3 FontMatrix and derives the scale from
// glyph space to text space.
func (f *Font) parseFontMatrix(r pdf.Getter, fontDict pdf.Dict) {
	matrix, err := pdf.GetArray(r, fontDict["FontMatrix"])
	if err != nil || len(matrix) < 6 {
		return
	}
	var m [6]float64
	for i := range m {
		m[i] = getNumber(r, matrix[i])
	}
	if m[0] != 0 {
		f.widthScale = math.Abs(m[0])
	}
	if m[3] != 0 {
		f.heightScale = math.Abs(m[3])
	}
}

// parseToUnicode loads and parses the ToUnicode CMap stream if present.
// Failures are ignored, text decoding then falls back to the encoding.
func (f *Font) parseToUnicode(r pdf.Getter, fontDict pdf.Dict) {
	stm, err := pdf.GetStream(r, fontDict["ToUnicode"])
	if err != nil || stm == nil {
		return
	}
	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return
	}
	if cmap, err := ParseToUnicodeCMap(data); err == nil {
		f.ToUnicodeCMap = cmap
	}
}

// extractName extracts a name or string value from a PDF object
func extractName(obj pdf.Object) string {
	switch v := obj.(type) {
	case pdf.Name:
		return string(v)
	case pdf.String:
		return string(v)
	}
	return ""
}

// getNumber extracts a numeric value, treating malformed entries as zero
func getNumber(r pdf.Getter, obj pdf.Object) float64 {
	n, err := pdf.GetNumber(r, obj)
	if err != nil {
		return 0
	}
	return float64(n)
}
