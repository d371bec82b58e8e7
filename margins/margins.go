package margins

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/marginalia/model"
)

// Evaluate checks one page against the margin spec and reports every
// finding. It is a pure function: the same inputs always produce the
// same violations in the same order.
//
// Two independent checks run. The page size is compared against US
// Letter within model.DefaultSizeTolerance, and every content box is
// compared against the region the margins leave free on the page's own
// dimensions. An off-size page is therefore still checked for margin
// consistency against its own box.
//
// Violations come back sorted by edge in the fixed report order (top,
// bottom, left, right, then page size) and by descending intrusion
// within an edge. PageIndex is left zero; the caller assembling
// per-page reports fills it in.
func Evaluate(size model.PageSize, spec model.MarginSpec, boxes []model.ContentBox) []model.Violation {
	return evaluate(size, spec, model.DefaultSizeTolerance, boxes)
}

// Evaluator carries a margin spec and a size tolerance for repeated
// use across the pages of a document.
//
// A zero SizeTolerance demands exact Letter dimensions. Most callers
// want model.DefaultSizeTolerance.
type Evaluator struct {
	Spec          model.MarginSpec
	SizeTolerance float64
}

// Evaluate checks one page. See the package-level Evaluate.
func (e Evaluator) Evaluate(size model.PageSize, boxes []model.ContentBox) []model.Violation {
	return evaluate(size, e.Spec, e.SizeTolerance, boxes)
}

func evaluate(size model.PageSize, spec model.MarginSpec, tolerance float64, boxes []model.ContentBox) []model.Violation {
	var violations []model.Violation

	if !size.IsLetter(tolerance) {
		if dev := RoundPt(sizeDeviation(size)); dev > 0 {
			violations = append(violations, sizeViolation(size, dev))
		}
	}

	// Boundary lines of the region content must stay inside, from the
	// page's own dimensions
	top := size.Height - spec.Top
	bottom := spec.Bottom
	left := spec.Left
	right := size.Width - spec.Right

	for _, box := range boxes {
		if box.IsEmpty() {
			continue
		}
		violations = appendIntrusion(violations, model.EdgeTop, box.Y1-top, box)
		violations = appendIntrusion(violations, model.EdgeBottom, bottom-box.Y0, box)
		violations = appendIntrusion(violations, model.EdgeLeft, left-box.X0, box)
		violations = appendIntrusion(violations, model.EdgeRight, box.X1-right, box)
	}

	violations = dedup(violations)
	sortViolations(violations)
	return violations
}

// appendIntrusion adds a violation for one edge when the crossing,
// after rounding, is still positive. Crossings that round to zero are
// not reported.
func appendIntrusion(violations []model.Violation, edge model.Edge, raw float64, box model.ContentBox) []model.Violation {
	intrusion := RoundPt(raw)
	if intrusion <= 0 {
		return violations
	}
	b := box
	return append(violations, model.Violation{
		Edge:      edge,
		Box:       &b,
		Intrusion: intrusion,
		Message:   edgeMessage(edge, intrusion, box),
	})
}

func sizeViolation(size model.PageSize, deviation float64) model.Violation {
	return model.Violation{
		Edge:      model.EdgePageSize,
		Intrusion: deviation,
		Message: fmt.Sprintf("page size %.2f x %.2fpt is not Letter (%g x %gpt), off by %.2fpt",
			size.Width, size.Height, model.LetterWidth, model.LetterHeight, deviation),
	}
}

// sizeDeviation returns how far the page is from US Letter: the larger
// of the two per-dimension deviations, taken against the closer of the
// portrait and landscape orientations.
func sizeDeviation(size model.PageSize) float64 {
	portrait := math.Max(
		math.Abs(size.Width-model.LetterWidth),
		math.Abs(size.Height-model.LetterHeight),
	)
	landscape := math.Max(
		math.Abs(size.Width-model.LetterHeight),
		math.Abs(size.Height-model.LetterWidth),
	)
	return math.Min(portrait, landscape)
}

// edgeMessage describes one margin crossing: what the content is and
// where it sits on the page.
func edgeMessage(edge model.Edge, intrusion float64, box model.ContentBox) string {
	what := kindNoun(box.Kind)
	if box.Label != "" {
		what = fmt.Sprintf("%s %q", what, box.Label)
	}
	return fmt.Sprintf("%s at (%.2f, %.2f)-(%.2f, %.2f) crosses the %s margin by %.2fpt",
		what, box.X0, box.Y0, box.X1, box.Y1, edge, intrusion)
}

// kindNoun maps a content kind to the word used in messages
func kindNoun(k model.Kind) string {
	switch k {
	case model.KindText:
		return "text"
	case model.KindImage:
		return "image"
	case model.KindVectorPath:
		return "vector path"
	case model.KindAnnotation:
		return "annotation"
	}
	return string(k)
}

// dedup removes violations that repeat an earlier one in every field.
// Distinct boxes intruding by the same rounded amount all stay.
func dedup(violations []model.Violation) []model.Violation {
	if len(violations) < 2 {
		return violations
	}

	// Message and PageIndex are derived, so edge, intrusion and box
	// together identify a violation
	type key struct {
		edge      model.Edge
		intrusion float64
		box       model.ContentBox
		hasBox    bool
	}
	seen := make(map[key]bool, len(violations))
	kept := violations[:0]
	for _, v := range violations {
		k := key{edge: v.Edge, intrusion: v.Intrusion}
		if v.Box != nil {
			k.box, k.hasBox = *v.Box, true
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, v)
	}
	return kept
}

// sortViolations orders violations by edge in the fixed report order,
// then by descending intrusion. The sort is stable, so violations tied
// on both keys keep their content order.
func sortViolations(violations []model.Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		if a, b := edgeRank(violations[i].Edge), edgeRank(violations[j].Edge); a != b {
			return a < b
		}
		return violations[i].Intrusion > violations[j].Intrusion
	})
}

// edgeRank fixes the report order of edges: the four margins first,
// then the page-size finding.
func edgeRank(e model.Edge) int {
	switch e {
	case model.EdgeTop:
		return 0
	case model.EdgeBottom:
		return 1
	case model.EdgeLeft:
		return 2
	case model.EdgeRight:
		return 3
	case model.EdgePageSize:
		return 4
	}
	return 5
}

// RoundPt rounds a point value to the two-decimal precision used for
// reported intrusions
func RoundPt(v float64) float64 {
	return math.Round(v*100) / 100
}
