package graphicsstate

import (
	"fmt"

	"github.com/tsawler/marginalia/model"
)

// GraphicsState represents the PDF graphics state
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []*GraphicsState
}

// TextState represents text-specific state
type TextState struct {
	// Font and size
	FontName string
	FontSize float64

	// Character and word spacing
	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling (percentage)
	HorizontalScaling float64

	// Leading (line spacing)
	Leading float64

	// Text rendering mode
	RenderingMode int

	// Text rise
	Rise float64

	// Text matrices
	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM: model.Identity(),
		Text: TextState{
			FontSize:          12.0,
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Clone creates a copy of the graphics state. The saved-state stack is
// not shared with the clone.
func (gs *GraphicsState) Clone() *GraphicsState {
	return &GraphicsState{
		CTM:  gs.CTM,
		Text: gs.Text,
	}
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, gs.Clone())
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return fmt.Errorf("graphics state stack underflow")
	}

	// Pop from stack
	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	// Restore state
	gs.CTM = saved.CTM
	gs.Text = saved.Text

	return nil
}

// Transform applies a transformation matrix to CTM (cm operator)
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont sets the current font (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// SetCharSpacing sets character spacing (Tc operator)
func (gs *GraphicsState) SetCharSpacing(spacing float64) {
	gs.Text.CharSpacing = spacing
}

// SetWordSpacing sets word spacing (Tw operator)
func (gs *GraphicsState) SetWordSpacing(spacing float64) {
	gs.Text.WordSpacing = spacing
}

// SetHorizontalScaling sets horizontal scaling (Tz operator)
func (gs *GraphicsState) SetHorizontalScaling(scale float64) {
	gs.Text.HorizontalScaling = scale
}

// SetLeading sets text leading (TL operator)
func (gs *GraphicsState) SetLeading(leading float64) {
	gs.Text.Leading = leading
}

// SetRenderingMode sets text rendering mode (Tr operator)
func (gs *GraphicsState) SetRenderingMode(mode int) {
	gs.Text.RenderingMode = mode
}

// SetTextRise sets text rise (Ts operator)
func (gs *GraphicsState) SetTextRise(rise float64) {
	gs.Text.Rise = rise
}

// TextInvisible reports whether the current rendering mode paints no
// ink. Mode 3 neither fills nor strokes; such text occupies no visible
// space on the page.
func (gs *GraphicsState) TextInvisible() bool {
	return gs.Text.RenderingMode == 3
}

// BeginText initializes text state (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// EndText ends a text object (ET operator)
func (gs *GraphicsState) EndText() {
	// No state to reset; positions are re-established by the next BT
}

// SetTextMatrix sets the text matrix (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText moves to the start of the next line, offset by (tx, ty)
// from the start of the current line (Td operator)
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	translation := model.Translate(tx, ty)
	gs.Text.TextLineMatrix = translation.Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading translates text and sets leading (TD operator)
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.SetLeading(-ty)
	gs.TranslateText(tx, ty)
}

// NextLine moves to next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// TextComposite returns the matrix mapping text space to device space:
// the text matrix followed by the CTM. Font size, horizontal scaling
// and rise are not folded in; callers apply those to their text space
// coordinates directly.
func (gs *GraphicsState) TextComposite() model.Matrix {
	return gs.Text.TextMatrix.Multiply(gs.CTM)
}

// AdvanceText moves the text position tx units horizontally in text
// space after showing text. The text line matrix is unaffected.
func (gs *GraphicsState) AdvanceText(tx float64) {
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
}

// AdjustText applies a TJ position adjustment given in thousandths of a
// unit of text space. Positive values move the position back.
func (gs *GraphicsState) AdjustText(amount float64) {
	tx := -amount / 1000 * gs.Text.FontSize * gs.Text.HorizontalScaling / 100
	gs.AdvanceText(tx)
}

// AdvanceTextVertical moves the text position ty units vertically in
// text space, for fonts with vertical writing mode. Advances are
// negative, moving down the column.
func (gs *GraphicsState) AdvanceTextVertical(ty float64) {
	gs.Text.TextMatrix = model.Translate(0, ty).Multiply(gs.Text.TextMatrix)
}

// AdjustTextVertical applies a TJ position adjustment in vertical
// writing mode. Horizontal scaling does not apply to vertical advances.
func (gs *GraphicsState) AdjustTextVertical(amount float64) {
	ty := -amount / 1000 * gs.Text.FontSize
	gs.AdvanceTextVertical(ty)
}

// Depth returns the number of saved states on the stack
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}
