// Package graphicsstate provides PDF graphics state management.
//
// The PDF graphics state controls where content lands on the page,
// including transformation matrices and text positioning state. This
// package implements the state stack used during content stream
// processing.
//
// # Graphics State
//
// The main type is GraphicsState, which tracks:
//   - CTM (Current Transformation Matrix) for coordinate transformations
//   - Text state (font, size, spacing, matrices)
//
// Example usage:
//
//	gs := graphicsstate.NewGraphicsState()
//	gs.Save()              // Push state (q operator)
//	gs.Transform(matrix)   // Modify CTM (cm operator)
//	gs.SetFont("F1", 12)   // Set font (Tf operator)
//	gs.Restore()           // Pop state (Q operator)
//
// # Text State
//
// Text rendering uses a separate TextState structure that tracks:
//   - Font name and size (Tf operator)
//   - Character and word spacing (Tc, Tw operators)
//   - Horizontal scaling (Tz operator)
//   - Leading for line spacing (TL operator)
//   - Rendering mode and rise (Tr, Ts operators)
//   - Text and text line matrices (Tm, Td operators)
//
// TextComposite returns the text matrix combined with the CTM, which
// maps text space directly to device space. AdvanceText moves the text
// matrix after glyphs are shown, and AdjustText applies the kerning
// adjustments found in TJ arrays.
//
// # Path Operations
//
// The package also includes path construction and a PathTracker that
// reports the device-space extent of each painted path:
//   - MoveTo, LineTo, CurveTo for path construction
//   - Rectangle for the re operator
//   - Paint for the stroking and filling operators
//   - EndPath for the n operator
package graphicsstate
