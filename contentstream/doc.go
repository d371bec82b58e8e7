// Package contentstream provides parsing of PDF content streams.
//
// Content streams contain the instructions for rendering page content,
// including text display, graphics operations, and image placement.
//
// # Content Stream Operations
//
// PDF content streams consist of operators and their operands:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// # Common Operators
//
// Text operators:
//   - BT, ET - Begin/end text object
//   - Tf - Set font and size
//   - Tm - Set text matrix
//   - Tj, TJ - Show text
//   - Td, TD - Move text position
//
// Graphics state operators:
//   - q, Q - Save/restore graphics state
//   - cm - Modify CTM (current transformation matrix)
//   - Do - Paint a named XObject
//
// Path operators:
//   - m, l - Move to, line to
//   - re - Rectangle
//   - S, s, f, f* - Stroke and fill paths
//
// # Inline Images
//
// An inline image (BI ... ID ... EI) embeds raw binary data directly in
// the stream. The parser records a single "BI" operation carrying the
// image parameter dictionary and skips over the pixel data.
//
// # Operand Types
//
// Operands are represented with the object types of seehuhn.de/go/pdf:
//   - Numbers (pdf.Integer, pdf.Real)
//   - Strings (pdf.String)
//   - Names (pdf.Name)
//   - Arrays (pdf.Array)
//   - Dictionaries (pdf.Dict)
//   - Booleans (pdf.Boolean), with null parsed as a nil object
package contentstream
