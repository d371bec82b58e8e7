package margins

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/marginalia/model"
)

func textBox(x0, y0, x1, y1 float64) model.ContentBox {
	return model.NewContentBox(model.KindText, x0, y0, x1, y1)
}

func checkViolation(t *testing.T, v model.Violation, edge model.Edge, intrusion float64) {
	t.Helper()
	if v.Edge != edge {
		t.Errorf("Edge = %q, want %q", v.Edge, edge)
	}
	if v.Intrusion != intrusion {
		t.Errorf("Intrusion = %v, want %v", v.Intrusion, intrusion)
	}
}

func TestEvaluateInsideAllowedRect(t *testing.T) {
	boxes := []model.ContentBox{
		textBox(54, 73, 558, 735), // exactly fills the allowed region
		textBox(100, 400, 500, 412),
		model.NewContentBox(model.KindImage, 200, 200, 400, 350),
	}

	violations := Evaluate(model.Letter(), model.Sigconf, boxes)
	if len(violations) != 0 {
		t.Fatalf("Evaluate() = %d violations, want 0: %+v", len(violations), violations)
	}
}

func TestEvaluateSingleEdge(t *testing.T) {
	tests := []struct {
		name      string
		box       model.ContentBox
		edge      model.Edge
		intrusion float64
	}{
		{"top", textBox(100, 700, 200, 740), model.EdgeTop, 5},
		{"bottom", textBox(100, 70, 200, 100), model.EdgeBottom, 3},
		{"left", textBox(50, 100, 200, 112), model.EdgeLeft, 4},
		{"right", textBox(400, 100, 560, 112), model.EdgeRight, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{tt.box})
			if len(violations) != 1 {
				t.Fatalf("Evaluate() = %d violations, want 1: %+v", len(violations), violations)
			}
			checkViolation(t, violations[0], tt.edge, tt.intrusion)
			if violations[0].Box == nil || *violations[0].Box != tt.box {
				t.Errorf("Box = %+v, want %+v", violations[0].Box, tt.box)
			}
		})
	}
}

func TestEvaluatePageSize(t *testing.T) {
	tests := []struct {
		name      string
		size      model.PageSize
		tolerance float64
		intrusion float64 // 0 means no violation expected
	}{
		{"exact letter", model.PageSize{Width: 612, Height: 792}, 0.05, 0},
		{"unit drift within tolerance", model.PageSize{Width: 612, Height: 792.02}, 0.05, 0},
		{"landscape letter", model.PageSize{Width: 792, Height: 612}, 0.05, 0},
		{"narrow", model.PageSize{Width: 600, Height: 792}, 0.05, 12},
		{"a4", model.PageSize{Width: 595.276, Height: 841.89}, 1, 49.89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluator{Spec: model.Sigconf, SizeTolerance: tt.tolerance}
			violations := ev.Evaluate(tt.size, nil)

			if tt.intrusion == 0 {
				if len(violations) != 0 {
					t.Fatalf("Evaluate() = %+v, want none", violations)
				}
				return
			}
			if len(violations) != 1 {
				t.Fatalf("Evaluate() = %d violations, want 1: %+v", len(violations), violations)
			}
			checkViolation(t, violations[0], model.EdgePageSize, tt.intrusion)
			if violations[0].Box != nil {
				t.Errorf("Box = %+v, want nil for a page size violation", violations[0].Box)
			}
		})
	}
}

func TestEvaluateDefaultTolerance(t *testing.T) {
	if got := Evaluate(model.PageSize{Width: 612.5, Height: 792}, model.Sigconf, nil); len(got) != 0 {
		t.Errorf("Evaluate(612.5x792) = %+v, want none", got)
	}

	got := Evaluate(model.PageSize{Width: 610, Height: 792}, model.Sigconf, nil)
	if len(got) != 1 || got[0].Edge != model.EdgePageSize || got[0].Intrusion != 2 {
		t.Errorf("Evaluate(610x792) = %+v, want one page_size violation of 2pt", got)
	}
}

// TestEvaluateOrderingLaw pins the report order on a page that breaks
// everything at once: all four margins plus the page size.
func TestEvaluateOrderingLaw(t *testing.T) {
	size := model.PageSize{Width: 600, Height: 792}
	boxes := []model.ContentBox{
		textBox(0, 0, 600, 792),     // crosses all four edges
		textBox(100, 740, 200, 780), // crosses top only, by less
	}

	violations := Evaluate(size, model.Sigconf, boxes)

	want := []struct {
		edge      model.Edge
		intrusion float64
	}{
		{model.EdgeTop, 57},
		{model.EdgeTop, 45},
		{model.EdgeBottom, 73},
		{model.EdgeLeft, 54},
		{model.EdgeRight, 54},
		{model.EdgePageSize, 12},
	}
	if len(violations) != len(want) {
		t.Fatalf("Evaluate() = %d violations, want %d: %+v", len(violations), len(want), violations)
	}
	for i, w := range want {
		if violations[i].Edge != w.edge || violations[i].Intrusion != w.intrusion {
			t.Errorf("violations[%d] = %s %.2f, want %s %.2f",
				i, violations[i].Edge, violations[i].Intrusion, w.edge, w.intrusion)
		}
	}
}

func TestEvaluateLeftMarginScenario(t *testing.T) {
	box := textBox(0, 400, 300, 412)

	violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{box})
	if len(violations) != 1 {
		t.Fatalf("Evaluate() = %d violations, want 1: %+v", len(violations), violations)
	}
	checkViolation(t, violations[0], model.EdgeLeft, 54)
}

func TestEvaluateMultiEdgeBox(t *testing.T) {
	box := textBox(40, 730, 120, 750)

	violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{box})
	if len(violations) != 2 {
		t.Fatalf("Evaluate() = %d violations, want 2: %+v", len(violations), violations)
	}
	checkViolation(t, violations[0], model.EdgeTop, 15)
	checkViolation(t, violations[1], model.EdgeLeft, 14)
	if *violations[0].Box != box || *violations[1].Box != box {
		t.Errorf("both violations should carry the box %+v", box)
	}
}

func TestEvaluateDedup(t *testing.T) {
	base := textBox(50, 100, 200, 112)

	t.Run("exact duplicates collapse", func(t *testing.T) {
		violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{base, base})
		if len(violations) != 1 {
			t.Fatalf("Evaluate() = %d violations, want 1: %+v", len(violations), violations)
		}
	})

	t.Run("same intrusion from different boxes kept", func(t *testing.T) {
		shifted := textBox(50, 200, 200, 212)
		violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{base, shifted})
		if len(violations) != 2 {
			t.Fatalf("Evaluate() = %d violations, want 2: %+v", len(violations), violations)
		}
		if *violations[0].Box != base || *violations[1].Box != shifted {
			t.Errorf("tied violations out of content order: %+v, %+v", violations[0].Box, violations[1].Box)
		}
	})

	t.Run("label distinguishes otherwise equal boxes", func(t *testing.T) {
		labeled := base
		labeled.Label = "Figure 1"
		violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{base, labeled})
		if len(violations) != 2 {
			t.Fatalf("Evaluate() = %d violations, want 2: %+v", len(violations), violations)
		}
	})
}

func TestEvaluateRoundingGuard(t *testing.T) {
	t.Run("hairline crossing rounds to clean", func(t *testing.T) {
		box := textBox(53.996, 100, 200, 112) // 0.004pt past the left line
		if got := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{box}); len(got) != 0 {
			t.Errorf("Evaluate() = %+v, want none", got)
		}
	})

	t.Run("crossing above half a hundredth reported", func(t *testing.T) {
		box := textBox(53.994, 100, 200, 112)
		got := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{box})
		if len(got) != 1 || got[0].Intrusion != 0.01 {
			t.Fatalf("Evaluate() = %+v, want one left violation of 0.01pt", got)
		}
	})
}

func TestEvaluateIgnoresEmptyBoxes(t *testing.T) {
	boxes := []model.ContentBox{
		model.NewContentBox(model.KindVectorPath, 0, 100, 0, 200),   // zero width at the page edge
		model.NewContentBox(model.KindVectorPath, 100, 50, 300, 50), // zero height in the bottom band
	}

	if got := Evaluate(model.Letter(), model.Sigconf, boxes); len(got) != 0 {
		t.Errorf("Evaluate() = %+v, want none", got)
	}
}

func TestEvaluateBlankPage(t *testing.T) {
	if got := Evaluate(model.Letter(), model.Sigconf, nil); got != nil {
		t.Errorf("Evaluate() = %+v, want nil", got)
	}
}

func TestEvaluateRepeatable(t *testing.T) {
	size := model.PageSize{Width: 600, Height: 792}
	boxes := []model.ContentBox{
		textBox(0, 0, 600, 792),
		textBox(100, 740, 200, 780),
	}

	first := Evaluate(size, model.Sigconf, boxes)
	second := Evaluate(size, model.Sigconf, boxes)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated evaluation differs (-first +second):\n%s", diff)
	}
}

func TestViolationMessages(t *testing.T) {
	t.Run("labeled text", func(t *testing.T) {
		box := textBox(0, 400, 300, 412)
		box.Label = "Abstract"
		violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{box})
		if len(violations) != 1 {
			t.Fatalf("Evaluate() = %+v, want one violation", violations)
		}
		want := `text "Abstract" at (0.00, 400.00)-(300.00, 412.00) crosses the left margin by 54.00pt`
		if violations[0].Message != want {
			t.Errorf("Message = %q, want %q", violations[0].Message, want)
		}
	})

	t.Run("unlabeled vector path", func(t *testing.T) {
		box := model.NewContentBox(model.KindVectorPath, 560, 100, 580, 200)
		violations := Evaluate(model.Letter(), model.Sigconf, []model.ContentBox{box})
		if len(violations) != 1 {
			t.Fatalf("Evaluate() = %+v, want one violation", violations)
		}
		if !strings.HasPrefix(violations[0].Message, "vector path at ") {
			t.Errorf("Message = %q, want a vector path prefix", violations[0].Message)
		}
	})

	t.Run("page size", func(t *testing.T) {
		violations := Evaluate(model.PageSize{Width: 600, Height: 792}, model.Sigconf, nil)
		if len(violations) != 1 {
			t.Fatalf("Evaluate() = %+v, want one violation", violations)
		}
		want := "page size 600.00 x 792.00pt is not Letter (612 x 792pt), off by 12.00pt"
		if violations[0].Message != want {
			t.Errorf("Message = %q, want %q", violations[0].Message, want)
		}
	})
}

func TestRoundPt(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{54, 54},
		{0.004, 0},
		{0.006, 0.01},
		{73.129, 73.13},
		{-1.237, -1.24},
	}

	for _, tt := range tests {
		if got := RoundPt(tt.in); got != tt.want {
			t.Errorf("RoundPt(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
