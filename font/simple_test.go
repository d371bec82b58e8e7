package font

import (
	"strings"
	"testing"

	"seehuhn.de/go/pdf"
)

func TestParseFont_BasicFont(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	fontDict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	if font.Name != "F1" {
		t.Errorf("Expected name 'F1', got '%s'", font.Name)
	}

	if font.BaseFont != "Helvetica" {
		t.Errorf("Expected BaseFont 'Helvetica', got '%s'", font.BaseFont)
	}

	if font.Subtype != "Type1" {
		t.Errorf("Expected Subtype 'Type1', got '%s'", font.Subtype)
	}

	if font.Encoding != "StandardEncoding" {
		t.Errorf("Expected default encoding 'StandardEncoding', got '%s'", font.Encoding)
	}

	if font.Composite {
		t.Error("Simple font should not be composite")
	}
}

func TestParseFont_WithWidths(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	fontDict := pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("Type1"),
		"BaseFont":  pdf.Name("CustomFont"),
		"FirstChar": pdf.Integer(32),
		"LastChar":  pdf.Integer(34),
		"Widths": pdf.Array{
			pdf.Real(250.0), // Space width
			pdf.Real(333.0), // ! width
			pdf.Real(408.0), // " width
		},
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	if w := font.GetWidth(' '); w != 250.0 {
		t.Errorf("Expected space width 250.0, got %f", w)
	}

	if w := font.GetWidth('!'); w != 333.0 {
		t.Errorf("Expected width 333.0 for '!', got %f", w)
	}

	if w := font.GetWidth('"'); w != 408.0 {
		t.Errorf("Expected width 408.0 for '\"', got %f", w)
	}
}

func TestParseFont_IndirectWidths(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	// Widths arrays are commonly stored as indirect objects
	ref := data.Alloc()
	err := data.Put(ref, pdf.Array{
		pdf.Integer(700),
		pdf.Integer(600),
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	fontDict := pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("Type1"),
		"BaseFont":  pdf.Name("CustomFont"),
		"FirstChar": pdf.Integer(65),
		"LastChar":  pdf.Integer(66),
		"Widths":    ref,
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	if w := font.GetWidth('A'); w != 700.0 {
		t.Errorf("Expected width 700.0 for 'A', got %f", w)
	}

	if w := font.GetWidth('B'); w != 600.0 {
		t.Errorf("Expected width 600.0 for 'B', got %f", w)
	}
}

func TestParseFont_WithNamedEncoding(t *testing.T) {
	tests := []struct {
		name     string
		encoding pdf.Name
		expected string
	}{
		{"WinAnsi", "WinAnsiEncoding", "WinAnsiEncoding"},
		{"MacRoman", "MacRomanEncoding", "MacRomanEncoding"},
		{"MacExpert", "MacExpertEncoding", "MacExpertEncoding"},
		{"Standard", "StandardEncoding", "StandardEncoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pdf.NewData(pdf.V1_7)

			fontDict := pdf.Dict{
				"Type":     pdf.Name("Font"),
				"Subtype":  pdf.Name("Type1"),
				"BaseFont": pdf.Name("TestFont"),
				"Encoding": tt.encoding,
			}

			font, err := ParseFont(data, "F1", fontDict)
			if err != nil {
				t.Fatalf("ParseFont failed: %v", err)
			}

			if font.Encoding != tt.expected {
				t.Errorf("Expected encoding '%s', got '%s'", tt.expected, font.Encoding)
			}
		})
	}
}

func TestParseFont_WithCustomEncoding(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	encodingDict := pdf.Dict{
		"Type":         pdf.Name("Encoding"),
		"BaseEncoding": pdf.Name("WinAnsiEncoding"),
		"Differences": pdf.Array{
			pdf.Integer(39),
			pdf.Name("quotesingle"),
			pdf.Name("quoteright"), // Code 40
			pdf.Integer(96),
			pdf.Name("grave"),
		},
	}

	fontDict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("TestFont"),
		"Encoding": encodingDict,
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	// Should use the base encoding name
	if font.Encoding != "WinAnsiEncoding" {
		t.Errorf("Expected base encoding 'WinAnsiEncoding', got '%s'", font.Encoding)
	}

	// The differences must override the base encoding
	if got := font.DecodeString([]byte{39}); got != "'" {
		t.Errorf("DecodeString(39) = %q, want %q", got, "'")
	}
	if got := font.DecodeString([]byte{40}); got != "’" {
		t.Errorf("DecodeString(40) = %q, want %q", got, "’")
	}
	if got := font.DecodeString([]byte{96}); got != "`" {
		t.Errorf("DecodeString(96) = %q, want %q", got, "`")
	}

	// Codes outside the differences still use the base encoding
	if got := font.DecodeString([]byte{65}); got != "A" {
		t.Errorf("DecodeString(65) = %q, want %q", got, "A")
	}
}

func TestParseFont_StandardFont(t *testing.T) {
	// The Standard 14 fonts work without font descriptors
	standardFonts := []string{
		"Helvetica",
		"Helvetica-Bold",
		"Helvetica-Oblique",
		"Helvetica-BoldOblique",
		"Times-Roman",
		"Times-Bold",
		"Times-Italic",
		"Times-BoldItalic",
		"Courier",
		"Courier-Bold",
		"Courier-Oblique",
		"Courier-BoldOblique",
		"Symbol",
		"ZapfDingbats",
	}

	for _, fontName := range standardFonts {
		t.Run(fontName, func(t *testing.T) {
			data := pdf.NewData(pdf.V1_7)

			fontDict := pdf.Dict{
				"Type":     pdf.Name("Font"),
				"Subtype":  pdf.Name("Type1"),
				"BaseFont": pdf.Name(fontName),
			}

			font, err := ParseFont(data, "F1", fontDict)
			if err != nil {
				t.Fatalf("ParseFont failed for %s: %v", fontName, err)
			}

			if !font.IsStandardFont() {
				t.Errorf("Font %s should be recognized as standard font", fontName)
			}

			// Standard fonts should have widths loaded
			if width := font.GetWidth('A'); width == 0 {
				t.Errorf("Font %s should have width for 'A'", fontName)
			}
		})
	}
}

func TestParseFontDescriptor(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	descriptorDict := pdf.Dict{
		"Type":         pdf.Name("FontDescriptor"),
		"FontName":     pdf.Name("TestFont-Regular"),
		"Flags":        pdf.Integer(32),
		"FontBBox":     pdf.Array{pdf.Real(-100), pdf.Real(-200), pdf.Real(1000), pdf.Real(800)},
		"ItalicAngle":  pdf.Real(0),
		"Ascent":       pdf.Real(750),
		"Descent":      pdf.Real(-250),
		"CapHeight":    pdf.Real(700),
		"StemV":        pdf.Real(80),
		"MissingWidth": pdf.Real(500),
	}

	fontDict := pdf.Dict{
		"Type":           pdf.Name("Font"),
		"Subtype":        pdf.Name("Type1"),
		"BaseFont":       pdf.Name("TestFont-Regular"),
		"FontDescriptor": descriptorDict,
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	if font.Descriptor == nil {
		t.Fatal("Font descriptor should be parsed")
	}

	fd := font.Descriptor

	if fd.FontName != "TestFont-Regular" {
		t.Errorf("Expected FontName 'TestFont-Regular', got '%s'", fd.FontName)
	}

	if fd.Flags != 32 {
		t.Errorf("Expected Flags 32, got %d", fd.Flags)
	}

	if fd.Ascent != 750 {
		t.Errorf("Expected Ascent 750, got %f", fd.Ascent)
	}

	if fd.Descent != -250 {
		t.Errorf("Expected Descent -250, got %f", fd.Descent)
	}

	if fd.CapHeight != 700 {
		t.Errorf("Expected CapHeight 700, got %f", fd.CapHeight)
	}

	if fd.FontBBox.LLx != -100 || fd.FontBBox.LLy != -200 ||
		fd.FontBBox.URx != 1000 || fd.FontBBox.URy != 800 {
		t.Errorf("FontBBox not parsed correctly: %v", fd.FontBBox)
	}

	// The descriptor metrics determine the line extent fractions
	if got := font.Ascent(); got != 0.75 {
		t.Errorf("Expected ascent fraction 0.75, got %f", got)
	}
	if got := font.Descent(); got != -0.25 {
		t.Errorf("Expected descent fraction -0.25, got %f", got)
	}
}

func TestParseFontDescriptor_MissingWidth(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	fontDict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("TestFont"),
		"FontDescriptor": pdf.Dict{
			"Type":         pdf.Name("FontDescriptor"),
			"FontName":     pdf.Name("TestFont"),
			"MissingWidth": pdf.Integer(250),
		},
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	// Characters without an entry fall back to MissingWidth
	if w := font.GetWidth(0x2022); w != 250.0 {
		t.Errorf("Expected missing width 250.0, got %f", w)
	}
}

func TestParseFont_Type3(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	fontDict := pdf.Dict{
		"Type":    pdf.Name("Font"),
		"Subtype": pdf.Name("Type3"),
		"FontMatrix": pdf.Array{
			pdf.Real(0.01), pdf.Integer(0), pdf.Integer(0),
			pdf.Real(0.01), pdf.Integer(0), pdf.Integer(0),
		},
		"FontBBox":  pdf.Array{pdf.Integer(0), pdf.Integer(-20), pdf.Integer(100), pdf.Integer(80)},
		"FirstChar": pdf.Integer(97),
		"LastChar":  pdf.Integer(98),
		"Widths":    pdf.Array{pdf.Integer(50), pdf.Integer(60)},
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	// Type3 glyph space is defined by the FontMatrix, not 1/1000
	if got := font.WidthScale(); got != 0.01 {
		t.Errorf("Expected width scale 0.01, got %f", got)
	}

	if w := font.GetWidth(97); w != 50.0 {
		t.Errorf("Expected width 50.0, got %f", w)
	}

	// Text space width: 50 * 0.01 = 0.5 per font size unit
	if w := font.GetWidth(97) * font.WidthScale(); w != 0.5 {
		t.Errorf("Expected text space width 0.5, got %f", w)
	}

	if got := font.Ascent(); got != 0.8 {
		t.Errorf("Expected ascent 0.8 from FontBBox, got %f", got)
	}
	if got := font.Descent(); got != -0.2 {
		t.Errorf("Expected descent -0.2 from FontBBox, got %f", got)
	}
}

func TestParseFont_ToUnicode(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	cmapData := `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<00> <FF>
endcodespacerange
1 beginbfchar
<41> <0058>
endbfchar
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

	stm := &pdf.Stream{
		Dict: pdf.Dict{
			"Length": pdf.Integer(len(cmapData)),
		},
		R: strings.NewReader(cmapData),
	}

	fontDict := pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("Type1"),
		"BaseFont":  pdf.Name("TestFont"),
		"ToUnicode": stm,
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	if font.ToUnicodeCMap == nil {
		t.Fatal("ToUnicode CMap should be parsed")
	}

	// The CMap maps 'A' to 'X'
	if got := font.DecodeString([]byte{0x41}); got != "X" {
		t.Errorf("DecodeString = %q, want %q", got, "X")
	}
}

func TestParseFont_Dispatch(t *testing.T) {
	tests := []struct {
		name      string
		subtype   pdf.Name
		composite bool
	}{
		{"Type1", "Type1", false},
		{"TrueType", "TrueType", false},
		{"Type3", "Type3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pdf.NewData(pdf.V1_7)

			fontDict := pdf.Dict{
				"Type":     pdf.Name("Font"),
				"Subtype":  tt.subtype,
				"BaseFont": pdf.Name("TestFont"),
			}

			font, err := ParseFont(data, "F1", fontDict)
			if err != nil {
				t.Fatalf("ParseFont failed: %v", err)
			}

			if font.Subtype != string(tt.subtype) {
				t.Errorf("Expected subtype '%s', got '%s'", tt.subtype, font.Subtype)
			}

			if font.Composite != tt.composite {
				t.Errorf("Expected composite %v, got %v", tt.composite, font.Composite)
			}
		})
	}
}

func TestParseFont_MissingDict(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	_, err := ParseFont(data, "F1", nil)
	if err == nil {
		t.Error("Expected error for missing font dictionary, got nil")
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		input    pdf.Object
		expected string
	}{
		{"Name", pdf.Name("TestName"), "TestName"},
		{"String", pdf.String("TestString"), "TestString"},
		{"Nil", nil, ""},
		{"Integer", pdf.Integer(123), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractName(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestGetNumber(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	tests := []struct {
		name     string
		input    pdf.Object
		expected float64
	}{
		{"Integer", pdf.Integer(42), 42.0},
		{"Real", pdf.Real(3.14), 3.14},
		{"Nil", nil, 0.0},
		{"Name", pdf.Name("test"), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getNumber(data, tt.input)
			if result != tt.expected {
				t.Errorf("Expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestCharacterWidthCalculation(t *testing.T) {
	data := pdf.NewData(pdf.V1_7)

	fontDict := pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("Type1"),
		"BaseFont":  pdf.Name("TestFont"),
		"FirstChar": pdf.Integer(65), // 'A'
		"LastChar":  pdf.Integer(67), // 'C'
		"Widths": pdf.Array{
			pdf.Real(700.0),
			pdf.Real(600.0),
			pdf.Real(650.0),
		},
	}

	font, err := ParseFont(data, "F1", fontDict)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	if w := font.GetWidth('A'); w != 700.0 {
		t.Errorf("Expected width 700.0 for 'A', got %f", w)
	}

	if w := font.GetWidth('B'); w != 600.0 {
		t.Errorf("Expected width 600.0 for 'B', got %f", w)
	}

	if w := font.GetWidth('C'); w != 650.0 {
		t.Errorf("Expected width 650.0 for 'C', got %f", w)
	}

	// Characters outside the width table get the fallback width
	if w := font.GetWidth('Ω'); w != 500.0 {
		t.Errorf("Expected default width 500.0 for 'Ω', got %f", w)
	}

	stringWidth := font.GetStringWidth("ABC")
	expectedWidth := 700.0 + 600.0 + 650.0
	if stringWidth != expectedWidth {
		t.Errorf("Expected string width %f, got %f", expectedWidth, stringWidth)
	}
}

func TestWidthsArrayEdgeCases(t *testing.T) {
	t.Run("EmptyWidths", func(t *testing.T) {
		data := pdf.NewData(pdf.V1_7)

		fontDict := pdf.Dict{
			"Type":      pdf.Name("Font"),
			"Subtype":   pdf.Name("Type1"),
			"BaseFont":  pdf.Name("TestFont"),
			"FirstChar": pdf.Integer(32),
			"LastChar":  pdf.Integer(32),
			"Widths":    pdf.Array{},
		}

		font, err := ParseFont(data, "F1", fontDict)
		if err != nil {
			t.Fatalf("ParseFont failed: %v", err)
		}

		// With no entries, the defaults remain
		if w := font.GetWidth(0x2022); w != 500.0 {
			t.Errorf("Expected default width 500.0, got %f", w)
		}
	})

	t.Run("MissingWidths", func(t *testing.T) {
		data := pdf.NewData(pdf.V1_7)

		fontDict := pdf.Dict{
			"Type":      pdf.Name("Font"),
			"Subtype":   pdf.Name("Type1"),
			"BaseFont":  pdf.Name("Helvetica"),
			"FirstChar": pdf.Integer(32),
			"LastChar":  pdf.Integer(126),
			// No Widths array
		}

		font, err := ParseFont(data, "F1", fontDict)
		if err != nil {
			t.Fatalf("ParseFont failed: %v", err)
		}

		// Should fall back to standard font widths
		if !font.IsStandardFont() {
			t.Error("Should recognize as standard font")
		}

		if w := font.GetWidth('A'); w != 667.0 {
			t.Errorf("Expected Helvetica width 667.0 for 'A', got %f", w)
		}
	})

	t.Run("MixedWidths", func(t *testing.T) {
		data := pdf.NewData(pdf.V1_7)

		fontDict := pdf.Dict{
			"Type":      pdf.Name("Font"),
			"Subtype":   pdf.Name("Type1"),
			"BaseFont":  pdf.Name("TestFont"),
			"FirstChar": pdf.Integer(65),
			"LastChar":  pdf.Integer(67),
			"Widths": pdf.Array{
				pdf.Integer(700),
				pdf.Real(600.5),
				pdf.Integer(650),
			},
		}

		font, err := ParseFont(data, "F1", fontDict)
		if err != nil {
			t.Fatalf("ParseFont failed: %v", err)
		}

		if w := font.GetWidth('A'); w != 700.0 {
			t.Errorf("Expected width 700.0, got %f", w)
		}

		if w := font.GetWidth('B'); w != 600.5 {
			t.Errorf("Expected width 600.5, got %f", w)
		}
	})
}
