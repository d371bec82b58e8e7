package font

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Encoding maps single-byte character codes to Unicode
type Encoding interface {
	// Decode returns the Unicode rune for a character code
	Decode(b byte) rune

	// DecodeString decodes a byte sequence to a Unicode string
	DecodeString(data []byte) string

	// Name returns the PDF name of the encoding
	Name() string
}

// Predefined encodings named by the /Encoding entry of a font dictionary
var (
	// WinAnsiEncoding is Windows Code Page 1252, the most common
	// encoding in PDFs produced on Windows
	WinAnsiEncoding Encoding = &charmapEncoding{name: "WinAnsiEncoding", cm: charmap.Windows1252}

	// MacRomanEncoding is the Mac OS Roman encoding
	MacRomanEncoding Encoding = &charmapEncoding{name: "MacRomanEncoding", cm: charmap.Macintosh}

	// PDFDocEncoding is the encoding for text strings outside content
	// streams (bookmarks, metadata)
	PDFDocEncoding Encoding = &tableEncoding{name: "PDFDocEncoding", table: &pdfDocTable}

	// StandardEncodingTable is Adobe's StandardEncoding, the built-in
	// encoding of the Type 1 standard fonts
	StandardEncodingTable Encoding = &tableEncoding{name: "StandardEncoding", table: &standardTable}
)

// GetEncoding returns the encoding for a PDF encoding name.
// Unknown names fall back to WinAnsiEncoding, the most common case.
func GetEncoding(name string) Encoding {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding":
		return MacRomanEncoding
	case "PDFDocEncoding":
		return PDFDocEncoding
	case "StandardEncoding":
		return StandardEncodingTable
	default:
		return WinAnsiEncoding
	}
}

// DecodeWithEncoding decodes data using a named encoding
func DecodeWithEncoding(data []byte, encodingName string) string {
	return GetEncoding(encodingName).DecodeString(data)
}

// NormalizeUnicode normalizes a string to NFC (composed form).
// PDFs may contain decomposed characters (e + combining acute instead
// of é); normalizing makes extracted text comparable.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// IsValidUTF8 reports whether a string is valid UTF-8
func IsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// DecodeUTF16BE decodes big-endian UTF-16 data (without BOM) to a string
func DecodeUTF16BE(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}

// DecodeUTF16LE decodes little-endian UTF-16 data (without BOM) to a string
func DecodeUTF16LE(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
	}
	return string(utf16.Decode(units))
}

// charmapEncoding wraps an x/text character map
type charmapEncoding struct {
	name string
	cm   *charmap.Charmap
}

func (e *charmapEncoding) Decode(b byte) rune {
	return e.cm.DecodeByte(b)
}

func (e *charmapEncoding) DecodeString(data []byte) string {
	return decodeBytes(e, data)
}

func (e *charmapEncoding) Name() string {
	return e.name
}

// tableEncoding decodes through a 256-entry lookup table.
// Zero entries are undefined codes and decode to U+FFFD.
type tableEncoding struct {
	name  string
	table *[256]rune
}

func (e *tableEncoding) Decode(b byte) rune {
	if r := e.table[b]; r != 0 {
		return r
	}
	return utf8.RuneError
}

func (e *tableEncoding) DecodeString(data []byte) string {
	return decodeBytes(e, data)
}

func (e *tableEncoding) Name() string {
	return e.name
}

// customEncoding applies /Differences overrides on top of a base encoding
type customEncoding struct {
	base        Encoding
	differences map[byte]rune
}

// NewCustomEncoding creates an encoding that overrides specific codes
// of a base encoding with direct rune mappings
func NewCustomEncoding(base Encoding, differences map[byte]rune) Encoding {
	return &customEncoding{base: base, differences: differences}
}

// NewCustomEncodingFromGlyphs creates an encoding from a /Differences
// array, which maps codes to glyph names like /quoteright or /Euro.
// Glyph names that cannot be resolved keep the base encoding's mapping.
func NewCustomEncodingFromGlyphs(base Encoding, differences map[byte]string) Encoding {
	runes := make(map[byte]rune, len(differences))
	for code, glyphName := range differences {
		if r, ok := glyphNameToUnicode[glyphName]; ok {
			runes[code] = r
		} else if r, ok := parseUniGlyphName(glyphName); ok {
			runes[code] = r
		}
	}
	return &customEncoding{base: base, differences: runes}
}

func (e *customEncoding) Decode(b byte) rune {
	if r, ok := e.differences[b]; ok {
		return r
	}
	return e.base.Decode(b)
}

func (e *customEncoding) DecodeString(data []byte) string {
	return decodeBytes(e, data)
}

func (e *customEncoding) Name() string {
	return e.base.Name() + "+custom"
}

// decodeBytes decodes each byte through an encoding
func decodeBytes(e Encoding, data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(e.Decode(b))
	}
	return sb.String()
}

// parseUniGlyphName resolves Adobe's uniXXXX and uXXXX glyph name
// conventions, used by fonts for glyphs without a standard name
func parseUniGlyphName(name string) (rune, bool) {
	var hex string
	if strings.HasPrefix(name, "uni") && len(name) == 7 {
		hex = name[3:]
	} else if strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7 {
		hex = name[1:]
	} else {
		return 0, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// pdfDocTable is the PDFDocEncoding table from Annex D of PDF 32000-1:2008.
var pdfDocTable = buildPDFDocTable()

func buildPDFDocTable() [256]rune {
	var t [256]rune

	t[0x09] = '\t'
	t[0x0A] = '\n'
	t[0x0D] = '\r'

	// 0x18-0x1F: accent characters
	accents := []rune{0x02D8, 0x02C7, 0x02C6, 0x02D9, 0x02DD, 0x02DB, 0x02DA, 0x02DC}
	for i, r := range accents {
		t[0x18+i] = r
	}

	// ASCII range maps to itself
	for i := 0x20; i <= 0x7E; i++ {
		t[i] = rune(i)
	}

	// 0x80-0x9E: typographic characters
	high := []rune{
		0x2022, // bullet
		0x2020, // dagger
		0x2021, // daggerdbl
		0x2026, // ellipsis
		0x2014, // emdash
		0x2013, // endash
		0x0192, // florin
		0x2044, // fraction
		0x2039, // guilsinglleft
		0x203A, // guilsinglright
		0x2212, // minus
		0x2030, // perthousand
		0x201E, // quotedblbase
		0x201C, // quotedblleft
		0x201D, // quotedblright
		0x2018, // quoteleft
		0x2019, // quoteright
		0x201A, // quotesinglbase
		0x2122, // trademark
		0xFB01, // fi
		0xFB02, // fl
		0x0141, // Lslash
		0x0152, // OE
		0x0160, // Scaron
		0x0178, // Ydieresis
		0x017D, // Zcaron
		0x0131, // dotlessi
		0x0142, // lslash
		0x0153, // oe
		0x0161, // scaron
		0x017E, // zcaron
	}
	for i, r := range high {
		t[0x80+i] = r
	}

	t[0xA0] = 0x20AC // Euro

	// 0xA1-0xFF matches Latin-1
	for i := 0xA1; i <= 0xFF; i++ {
		t[i] = rune(i)
	}

	return t
}

// standardTable is Adobe's StandardEncoding
var standardTable = buildStandardTable()

func buildStandardTable() [256]rune {
	var t [256]rune

	// ASCII range maps to itself except the quote characters
	for i := 0x20; i <= 0x7E; i++ {
		t[i] = rune(i)
	}
	t[0x27] = 0x2019 // quoteright
	t[0x60] = 0x2018 // quoteleft

	high := map[byte]rune{
		0xA1: 0x00A1, // exclamdown
		0xA2: 0x00A2, // cent
		0xA3: 0x00A3, // sterling
		0xA4: 0x2044, // fraction
		0xA5: 0x00A5, // yen
		0xA6: 0x0192, // florin
		0xA7: 0x00A7, // section
		0xA8: 0x00A4, // currency
		0xA9: 0x0027, // quotesingle
		0xAA: 0x201C, // quotedblleft
		0xAB: 0x00AB, // guillemotleft
		0xAC: 0x2039, // guilsinglleft
		0xAD: 0x203A, // guilsinglright
		0xAE: 0xFB01, // fi
		0xAF: 0xFB02, // fl
		0xB1: 0x2013, // endash
		0xB2: 0x2020, // dagger
		0xB3: 0x2021, // daggerdbl
		0xB4: 0x00B7, // periodcentered
		0xB6: 0x00B6, // paragraph
		0xB7: 0x2022, // bullet
		0xB8: 0x201A, // quotesinglbase
		0xB9: 0x201E, // quotedblbase
		0xBA: 0x201D, // quotedblright
		0xBB: 0x00BB, // guillemotright
		0xBC: 0x2026, // ellipsis
		0xBD: 0x2030, // perthousand
		0xBF: 0x00BF, // questiondown
		0xC1: 0x0060, // grave
		0xC2: 0x00B4, // acute
		0xC3: 0x02C6, // circumflex
		0xC4: 0x02DC, // tilde
		0xC5: 0x00AF, // macron
		0xC6: 0x02D8, // breve
		0xC7: 0x02D9, // dotaccent
		0xC8: 0x00A8, // dieresis
		0xCA: 0x02DA, // ring
		0xCB: 0x00B8, // cedilla
		0xCD: 0x02DD, // hungarumlaut
		0xCE: 0x02DB, // ogonek
		0xCF: 0x02C7, // caron
		0xD0: 0x2014, // emdash
		0xE1: 0x00C6, // AE
		0xE3: 0x00AA, // ordfeminine
		0xE8: 0x0141, // Lslash
		0xE9: 0x00D8, // Oslash
		0xEA: 0x0152, // OE
		0xEB: 0x00BA, // ordmasculine
		0xF1: 0x00E6, // ae
		0xF5: 0x0131, // dotlessi
		0xF8: 0x0142, // lslash
		0xF9: 0x00F8, // oslash
		0xFA: 0x0153, // oe
		0xFB: 0x00DF, // germandbls
	}
	for b, r := range high {
		t[b] = r
	}

	return t
}

// glyphNameToUnicode maps Adobe glyph names to Unicode, for resolving
// /Differences arrays. Covers the Adobe Glyph List entries that appear
// in Latin text fonts.
var glyphNameToUnicode = buildGlyphNameTable()

func buildGlyphNameTable() map[string]rune {
	m := map[string]rune{
		// ASCII punctuation
		"space":        ' ',
		"exclam":       '!',
		"quotedbl":     '"',
		"numbersign":   '#',
		"dollar":       '$',
		"percent":      '%',
		"ampersand":    '&',
		"quotesingle":  '\'',
		"parenleft":    '(',
		"parenright":   ')',
		"asterisk":     '*',
		"plus":         '+',
		"comma":        ',',
		"hyphen":       '-',
		"period":       '.',
		"slash":        '/',
		"colon":        ':',
		"semicolon":    ';',
		"less":         '<',
		"equal":        '=',
		"greater":      '>',
		"question":     '?',
		"at":           '@',
		"bracketleft":  '[',
		"backslash":    '\\',
		"bracketright": ']',
		"asciicircum":  '^',
		"underscore":   '_',
		"grave":        '`',
		"braceleft":    '{',
		"bar":          '|',
		"braceright":   '}',
		"asciitilde":   '~',

		// Latin-1 supplement
		"exclamdown":     0x00A1,
		"cent":           0x00A2,
		"sterling":       0x00A3,
		"currency":       0x00A4,
		"yen":            0x00A5,
		"brokenbar":      0x00A6,
		"section":        0x00A7,
		"dieresis":       0x00A8,
		"copyright":      0x00A9,
		"ordfeminine":    0x00AA,
		"guillemotleft":  0x00AB,
		"logicalnot":     0x00AC,
		"registered":     0x00AE,
		"macron":         0x00AF,
		"degree":         0x00B0,
		"plusminus":      0x00B1,
		"acute":          0x00B4,
		"mu":             0x00B5,
		"paragraph":      0x00B6,
		"periodcentered": 0x00B7,
		"cedilla":        0x00B8,
		"ordmasculine":   0x00BA,
		"guillemotright": 0x00BB,
		"onequarter":     0x00BC,
		"onehalf":        0x00BD,
		"threequarters":  0x00BE,
		"questiondown":   0x00BF,
		"multiply":       0x00D7,
		"divide":         0x00F7,

		// Accented capitals
		"Agrave":      0x00C0,
		"Aacute":      0x00C1,
		"Acircumflex": 0x00C2,
		"Atilde":      0x00C3,
		"Adieresis":   0x00C4,
		"Aring":       0x00C5,
		"AE":          0x00C6,
		"Ccedilla":    0x00C7,
		"Egrave":      0x00C8,
		"Eacute":      0x00C9,
		"Ecircumflex": 0x00CA,
		"Edieresis":   0x00CB,
		"Igrave":      0x00CC,
		"Iacute":      0x00CD,
		"Icircumflex": 0x00CE,
		"Idieresis":   0x00CF,
		"Eth":         0x00D0,
		"Ntilde":      0x00D1,
		"Ograve":      0x00D2,
		"Oacute":      0x00D3,
		"Ocircumflex": 0x00D4,
		"Otilde":      0x00D5,
		"Odieresis":   0x00D6,
		"Oslash":      0x00D8,
		"Ugrave":      0x00D9,
		"Uacute":      0x00DA,
		"Ucircumflex": 0x00DB,
		"Udieresis":   0x00DC,
		"Yacute":      0x00DD,
		"Thorn":       0x00DE,
		"germandbls":  0x00DF,

		// Accented lowercase
		"agrave":      0x00E0,
		"aacute":      0x00E1,
		"acircumflex": 0x00E2,
		"atilde":      0x00E3,
		"adieresis":   0x00E4,
		"aring":       0x00E5,
		"ae":          0x00E6,
		"ccedilla":    0x00E7,
		"egrave":      0x00E8,
		"eacute":      0x00E9,
		"ecircumflex": 0x00EA,
		"edieresis":   0x00EB,
		"igrave":      0x00EC,
		"iacute":      0x00ED,
		"icircumflex": 0x00EE,
		"idieresis":   0x00EF,
		"eth":         0x00F0,
		"ntilde":      0x00F1,
		"ograve":      0x00F2,
		"oacute":      0x00F3,
		"ocircumflex": 0x00F4,
		"otilde":      0x00F5,
		"odieresis":   0x00F6,
		"oslash":      0x00F8,
		"ugrave":      0x00F9,
		"uacute":      0x00FA,
		"ucircumflex": 0x00FB,
		"udieresis":   0x00FC,
		"yacute":      0x00FD,
		"thorn":       0x00FE,
		"ydieresis":   0x00FF,

		// General punctuation
		"quoteleft":      0x2018,
		"quoteright":     0x2019,
		"quotesinglbase": 0x201A,
		"quotedblleft":   0x201C,
		"quotedblright":  0x201D,
		"quotedblbase":   0x201E,
		"dagger":         0x2020,
		"daggerdbl":      0x2021,
		"bullet":         0x2022,
		"ellipsis":       0x2026,
		"perthousand":    0x2030,
		"guilsinglleft":  0x2039,
		"guilsinglright": 0x203A,
		"fraction":       0x2044,
		"endash":         0x2013,
		"emdash":         0x2014,
		"trademark":      0x2122,
		"minus":          0x2212,
		"Euro":           0x20AC,
		"florin":         0x0192,

		// Latin extended
		"dotlessi":  0x0131,
		"Lslash":    0x0141,
		"lslash":    0x0142,
		"OE":        0x0152,
		"oe":        0x0153,
		"Scaron":    0x0160,
		"scaron":    0x0161,
		"Ydieresis": 0x0178,
		"Zcaron":    0x017D,
		"zcaron":    0x017E,

		// Spacing accents
		"circumflex":   0x02C6,
		"caron":        0x02C7,
		"breve":        0x02D8,
		"dotaccent":    0x02D9,
		"ring":         0x02DA,
		"ogonek":       0x02DB,
		"tilde":        0x02DC,
		"hungarumlaut": 0x02DD,
	}

	// Letters and digits name themselves
	for r := 'A'; r <= 'Z'; r++ {
		m[string(r)] = r
	}
	for r := 'a'; r <= 'z'; r++ {
		m[string(r)] = r
	}
	digits := []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	for i, name := range digits {
		m[name] = rune('0' + i)
	}

	return m
}
