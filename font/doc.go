// Package font provides PDF font handling including Type1, TrueType, and CID fonts.
//
// This package parses font dictionaries into the metrics needed to measure
// placed text: character widths, vertical extents, and writing mode.
//
// # Font Parsing
//
// Fonts are built from PDF font dictionaries via [ParseFont], which
// dispatches on the Subtype entry:
//
//	f, err := font.ParseFont(r, "F1", fontDict)
//
// Simple fonts (Type1, TrueType, MMType1, Type3) use single-byte codes
// mapped through an encoding. Composite Type0 fonts use two-byte codes
// that index the descendant CIDFont's width tables.
//
// # Character Widths
//
// Width information drives glyph extent calculation:
//
//	width := f.GetWidth(code)      // Glyph space units (1000ths of em)
//	scale := f.WidthScale()        // Glyph space to text space factor
//
// The Standard 14 fonts carry built-in width tables and work without
// a font descriptor or Widths array.
//
// # Text Decoding
//
// [Font.DecodeString] converts raw string operands to Unicode, trying
// the ToUnicode CMap first and falling back to the font's encoding:
//
//	text := f.DecodeString(rawBytes)
//
// # Encodings
//
// Character encodings map single-byte codes to Unicode:
//
//   - Standard PDF encodings (WinAnsiEncoding, MacRomanEncoding, etc.)
//   - Custom encodings built from /Differences arrays
//   - ToUnicode CMaps for explicit Unicode conversion
package font
