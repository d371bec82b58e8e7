package font

import (
	"strings"
)

// Font represents a PDF font with the metrics needed to place text.
// Widths are keyed by character code: the byte value for simple fonts,
// the CID for composite fonts.
type Font struct {
	Name     string
	BaseFont string
	Subtype  string
	Encoding string

	// Composite is true for Type0 fonts, whose codes are two bytes wide
	Composite bool

	// Character width information in glyph space
	widths       map[int]float64
	widthRanges  []WidthRange
	defaultWidth float64

	// Multipliers from glyph space to text space (1/1000 except Type3,
	// which takes them from its FontMatrix)
	widthScale  float64
	heightScale float64

	// Vertical extent as fractions of the font size
	ascent  float64
	descent float64

	// Vertical writing metrics (Identity-V composite fonts)
	vertical  bool
	defaultW1 float64
	w2Ranges  []VerticalMetrics

	// Custom encoding built from /Differences, overrides Encoding
	encoding Encoding

	// Descriptor metrics, nil when the dictionary has none
	Descriptor *FontDescriptor

	// ToUnicode CMap for character code to Unicode mapping
	ToUnicodeCMap *CMap
}

// NewFont creates a new font
func NewFont(name, baseFont, subtype string) *Font {
	f := &Font{
		Name:         name,
		BaseFont:     baseFont,
		Subtype:      subtype,
		Encoding:     "WinAnsiEncoding", // Default
		widths:       make(map[int]float64),
		defaultWidth: 500.0,
		widthScale:   0.001,
		heightScale:  0.001,
		ascent:       0.8,
		descent:      -0.2,
	}

	// Load default metrics for Standard 14 fonts
	if m, ok := standardMetrics[stripSubsetPrefix(baseFont)]; ok {
		f.ascent = m[0] / 1000
		f.descent = m[1] / 1000
	}
	f.loadStandardWidths()

	return f
}

// GetWidth returns the width of a character code (in 1000ths of em)
func (f *Font) GetWidth(code int) float64 {
	if w, ok := f.widths[code]; ok {
		return w
	}

	for _, wr := range f.widthRanges {
		if code >= wr.StartCID && code <= wr.EndCID {
			if wr.Widths != nil {
				idx := code - wr.StartCID
				if idx < len(wr.Widths) {
					return wr.Widths[idx]
				}
			} else {
				return wr.Width
			}
		}
	}

	return f.defaultWidth
}

// GetStringWidth calculates the total width of a string in glyph space.
// Only meaningful for simple fonts where codes match ASCII.
func (f *Font) GetStringWidth(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += f.GetWidth(int(r))
	}
	return total
}

// WidthScale returns the multiplier from glyph-space widths to text
// space. For most fonts this is 1/1000; Type3 fonts use their FontMatrix.
func (f *Font) WidthScale() float64 {
	return f.widthScale
}

// Ascent returns the top of the glyph extent as a fraction of font size
func (f *Font) Ascent() float64 {
	return f.ascent
}

// Descent returns the bottom of the glyph extent as a fraction of font
// size (negative below the baseline)
func (f *Font) Descent() float64 {
	return f.descent
}

// Codes splits a show-text string into character codes: one byte per
// code for simple fonts, two bytes big-endian for composite fonts.
func (f *Font) Codes(data []byte) []int {
	if !f.Composite {
		codes := make([]int, len(data))
		for i, b := range data {
			codes[i] = int(b)
		}
		return codes
	}

	codes := make([]int, 0, len(data)/2+1)
	for i := 0; i < len(data); i += 2 {
		if i+1 < len(data) {
			codes = append(codes, int(data[i])<<8|int(data[i+1]))
		} else {
			// Odd trailing byte in a malformed string
			codes = append(codes, int(data[i]))
		}
	}
	return codes
}

// W1 returns the vertical advance for a code in glyph space. Vertical
// advances are negative for top-to-bottom writing.
func (f *Font) W1(code int) float64 {
	for _, vm := range f.w2Ranges {
		if code >= vm.StartCID && code <= vm.EndCID {
			if vm.Metrics != nil {
				idx := code - vm.StartCID
				if idx < len(vm.Metrics) {
					return vm.Metrics[idx].W1
				}
			} else {
				return vm.W1
			}
		}
	}

	if f.defaultW1 != 0 {
		return f.defaultW1
	}
	return -1000.0
}

// IsStandardFont returns true if this is one of the Standard 14 fonts
func (f *Font) IsStandardFont() bool {
	_, ok := standardFonts[stripSubsetPrefix(f.BaseFont)]
	return ok
}

// DecodeString decodes a string of character codes to Unicode
// Priority order:
// 1. Use ToUnicode CMap if present (most accurate)
// 2. Check for UTF-16 Byte Order Mark (BOM) - FEFF or FFFE
// 3. Use the custom encoding built from /Differences
// 4. Use font's Encoding property (standard encodings)
// 5. Fall back to raw bytes as string
// All decoded strings are normalized to NFC
func (f *Font) DecodeString(data []byte) string {
	var decoded string

	// Priority 1: ToUnicode CMap (most accurate)
	if f.ToUnicodeCMap != nil {
		decoded = f.ToUnicodeCMap.LookupString(data)
		return NormalizeUnicode(decoded)
	}

	// Priority 2: Check for UTF-16 Byte Order Mark (BOM)
	// PDF hex strings starting with FEFF or FFFE are UTF-16 encoded
	if len(data) >= 2 {
		if data[0] == 0xFE && data[1] == 0xFF {
			decoded = DecodeUTF16BE(data[2:])
			return NormalizeUnicode(decoded)
		} else if data[0] == 0xFF && data[1] == 0xFE {
			decoded = DecodeUTF16LE(data[2:])
			return NormalizeUnicode(decoded)
		}
	}

	// Priority 3: Custom encoding from /Differences
	if f.encoding != nil {
		decoded = f.encoding.DecodeString(data)
		return NormalizeUnicode(decoded)
	}

	// Priority 4: Use font's Encoding property
	if f.Encoding != "" {
		enc := GetEncoding(f.Encoding)
		decoded = enc.DecodeString(data)
		return NormalizeUnicode(decoded)
	}

	// Priority 5: Fall back to raw bytes as string
	decoded = string(data)
	return NormalizeUnicode(decoded)
}

// IsVertical returns true if this font uses vertical writing mode.
// Vertical writing is indicated by the Identity-V encoding, commonly used
// for East Asian languages where text flows top-to-bottom.
func (f *Font) IsVertical() bool {
	return f.vertical || IsVerticalEncoding(f.Encoding)
}

// IsVerticalEncoding checks if an encoding name indicates vertical writing mode
// Identity-V is used for vertical text in CJK fonts
// Identity-H (or any other encoding) is horizontal
func IsVerticalEncoding(encoding string) bool {
	return encoding == "Identity-V"
}

// stripSubsetPrefix removes the "ABCDEF+" tag embedded subset fonts
// carry in front of their base name
func stripSubsetPrefix(baseFont string) string {
	if len(baseFont) > 7 && baseFont[6] == '+' {
		tag := baseFont[:6]
		if strings.ToUpper(tag) == tag && !strings.ContainsAny(tag, "0123456789") {
			return baseFont[7:]
		}
	}
	return baseFont
}

// loadStandardWidths loads default widths for Standard 14 fonts
func (f *Font) loadStandardWidths() {
	// For Standard 14 fonts, use predefined widths
	if widths, ok := standardFonts[stripSubsetPrefix(f.BaseFont)]; ok {
		// Copy standard widths
		for r, w := range widths {
			f.widths[int(r)] = w
		}
	} else {
		// For non-standard fonts, use default widths until the
		// /Widths array is parsed
		f.setDefaultWidths()
	}
}

// setDefaultWidths sets default widths for all printable ASCII characters
func (f *Font) setDefaultWidths() {
	// Use Helvetica widths as default
	for r := rune(32); r <= 126; r++ {
		if w, ok := helveticaWidths[r]; ok {
			f.widths[int(r)] = w
		} else {
			f.widths[int(r)] = 500.0 // Fallback
		}
	}
}

// Standard 14 font names
var standardFonts = map[string]map[rune]float64{
	"Helvetica":             helveticaWidths,
	"Helvetica-Bold":        helveticaBoldWidths,
	"Helvetica-Oblique":     helveticaWidths,
	"Helvetica-BoldOblique": helveticaBoldWidths,
	"Times-Roman":           timesWidths,
	"Times-Bold":            timesBoldWidths,
	"Times-Italic":          timesWidths,
	"Times-BoldItalic":      timesBoldWidths,
	"Courier":               courierWidths,
	"Courier-Bold":          courierWidths,
	"Courier-Oblique":       courierWidths,
	"Courier-BoldOblique":   courierWidths,
	"Symbol":                symbolWidths,
	"ZapfDingbats":          zapfDingbatsWidths,
}

// Standard 14 vertical metrics {ascender, descender} in 1000ths of em,
// from the AFM files (font bounding box for Symbol and ZapfDingbats)
var standardMetrics = map[string][2]float64{
	"Helvetica":             {718, -207},
	"Helvetica-Bold":        {718, -207},
	"Helvetica-Oblique":     {718, -207},
	"Helvetica-BoldOblique": {718, -207},
	"Times-Roman":           {683, -217},
	"Times-Bold":            {683, -217},
	"Times-Italic":          {683, -217},
	"Times-BoldItalic":      {683, -217},
	"Courier":               {629, -157},
	"Courier-Bold":          {629, -157},
	"Courier-Oblique":       {629, -157},
	"Courier-BoldOblique":   {629, -157},
	"Symbol":                {1010, -293},
	"ZapfDingbats":          {820, -143},
}

// Helvetica widths (in 1000ths of em) - simplified version
// Only includes common ASCII characters
var helveticaWidths = map[rune]float64{
	' ':  278,
	'!':  278,
	'"':  355,
	'#':  556,
	'$':  556,
	'%':  889,
	'&':  667,
	'\'': 191,
	'(':  333,
	')':  333,
	'*':  389,
	'+':  584,
	',':  278,
	'-':  333,
	'.':  278,
	'/':  278,
	'0':  556,
	'1':  556,
	'2':  556,
	'3':  556,
	'4':  556,
	'5':  556,
	'6':  556,
	'7':  556,
	'8':  556,
	'9':  556,
	':':  278,
	';':  278,
	'<':  584,
	'=':  584,
	'>':  584,
	'?':  556,
	'@':  1015,
	'A':  667,
	'B':  667,
	'C':  722,
	'D':  722,
	'E':  667,
	'F':  611,
	'G':  778,
	'H':  722,
	'I':  278,
	'J':  500,
	'K':  667,
	'L':  556,
	'M':  833,
	'N':  722,
	'O':  778,
	'P':  667,
	'Q':  778,
	'R':  722,
	'S':  667,
	'T':  611,
	'U':  722,
	'V':  667,
	'W':  944,
	'X':  667,
	'Y':  667,
	'Z':  611,
	'[':  278,
	'\\': 278,
	']':  278,
	'^':  469,
	'_':  556,
	'`':  333,
	'a':  556,
	'b':  556,
	'c':  500,
	'd':  556,
	'e':  556,
	'f':  278,
	'g':  556,
	'h':  556,
	'i':  222,
	'j':  222,
	'k':  500,
	'l':  222,
	'm':  833,
	'n':  556,
	'o':  556,
	'p':  556,
	'q':  556,
	'r':  333,
	's':  500,
	't':  278,
	'u':  556,
	'v':  500,
	'w':  722,
	'x':  500,
	'y':  500,
	'z':  500,
	'{':  334,
	'|':  260,
	'}':  334,
	'~':  584,
}

// Helvetica-Bold widths (simplified)
var helveticaBoldWidths = map[rune]float64{
	' ': 278,
	'A': 722,
	'B': 722,
	'C': 722,
	'D': 722,
	'E': 667,
	'F': 611,
	'G': 778,
	'H': 722,
	'I': 278,
	'J': 556,
	'K': 722,
	'L': 611,
	'M': 833,
	'N': 722,
	'O': 778,
	'P': 667,
	'Q': 778,
	'R': 722,
	'S': 667,
	'T': 611,
	'U': 722,
	'V': 667,
	'W': 944,
	'X': 667,
	'Y': 667,
	'Z': 611,
	'a': 556,
	'b': 611,
	'c': 556,
	'd': 611,
	'e': 556,
	'f': 333,
	'g': 611,
	'h': 611,
	'i': 278,
	'j': 278,
	'k': 556,
	'l': 278,
	'm': 889,
	'n': 611,
	'o': 611,
	'p': 611,
	'q': 611,
	'r': 389,
	's': 556,
	't': 333,
	'u': 611,
	'v': 556,
	'w': 778,
	'x': 556,
	'y': 556,
	'z': 500,
}

// Times-Roman widths (simplified)
var timesWidths = map[rune]float64{
	' ': 250,
	'A': 722,
	'B': 667,
	'C': 667,
	'D': 722,
	'E': 611,
	'F': 556,
	'G': 722,
	'H': 722,
	'I': 333,
	'J': 389,
	'K': 722,
	'L': 611,
	'M': 889,
	'N': 722,
	'O': 722,
	'P': 556,
	'Q': 722,
	'R': 667,
	'S': 556,
	'T': 611,
	'U': 722,
	'V': 722,
	'W': 944,
	'X': 722,
	'Y': 722,
	'Z': 611,
	'a': 444,
	'b': 500,
	'c': 444,
	'd': 500,
	'e': 444,
	'f': 333,
	'g': 500,
	'h': 500,
	'i': 278,
	'j': 278,
	'k': 500,
	'l': 278,
	'm': 778,
	'n': 500,
	'o': 500,
	'p': 500,
	'q': 500,
	'r': 333,
	's': 389,
	't': 278,
	'u': 500,
	'v': 500,
	'w': 722,
	'x': 500,
	'y': 500,
	'z': 444,
}

// Times-Bold widths (simplified)
var timesBoldWidths = map[rune]float64{
	' ': 250,
	'A': 722,
	'B': 667,
	'C': 722,
	'D': 722,
	'E': 667,
	'F': 611,
	'G': 778,
	'H': 778,
	'I': 389,
	'J': 500,
	'K': 778,
	'L': 667,
	'M': 944,
	'N': 722,
	'O': 778,
	'P': 611,
	'Q': 778,
	'R': 722,
	'S': 556,
	'T': 667,
	'U': 722,
	'V': 722,
	'W': 1000,
	'X': 722,
	'Y': 722,
	'Z': 667,
	'a': 500,
	'b': 556,
	'c': 444,
	'd': 556,
	'e': 444,
	'f': 333,
	'g': 500,
	'h': 556,
	'i': 278,
	'j': 333,
	'k': 556,
	'l': 278,
	'm': 833,
	'n': 556,
	'o': 500,
	'p': 556,
	'q': 556,
	'r': 444,
	's': 389,
	't': 333,
	'u': 556,
	'v': 500,
	'w': 722,
	'x': 500,
	'y': 500,
	'z': 444,
}

// Courier widths (monospaced)
var courierWidths = map[rune]float64{}

// Symbol widths
var symbolWidths = map[rune]float64{}

// ZapfDingbats widths
var zapfDingbatsWidths = map[rune]float64{}

func init() {
	// Courier is monospaced - all characters have same width
	for r := rune(32); r <= 126; r++ {
		courierWidths[r] = 600
	}

	// Symbol and ZapfDingbats - use default width for now
	for r := rune(32); r <= 126; r++ {
		symbolWidths[r] = 500
		zapfDingbatsWidths[r] = 500
	}
}
