package font

import (
	"fmt"

	"seehuhn.de/go/pdf"
)

// WidthRange represents one entry of a CIDFont W array
type WidthRange struct {
	StartCID int
	EndCID   int
	Width    float64   // Single width for range
	Widths   []float64 // Individual widths (if Width == 0)
}

// VerticalMetrics represents one entry of a CIDFont W2 array
type VerticalMetrics struct {
	StartCID int
	EndCID   int
	W1       float64  // Vertical advance for the whole range
	Metrics  []Metric // Individual metrics
}

// Metric is the vertical advance and position vector of a single CID
type Metric struct {
	W1 float64
	VX float64
	VY float64
}

// newType0Font parses a Type0 (composite) font. Character codes are
// two bytes wide under the Identity encodings and index the descendant
// CIDFont's widths.
func newType0Font(r pdf.Getter, name string, fontDict pdf.Dict) (*Font, error) {
	baseObj, err := pdf.Resolve(r, fontDict["BaseFont"])
	if err != nil {
		return nil, err
	}

	f := NewFont(name, extractName(baseObj), "Type0")
	f.Composite = true

	// Codes are CIDs, the standard width tables do not apply
	f.widths = make(map[int]float64)
	f.defaultWidth = 1000.0

	if enc, err := pdf.GetName(r, fontDict["Encoding"]); err == nil && enc != "" {
		f.Encoding = string(enc)
	} else {
		f.Encoding = "Identity-H"
	}
	f.vertical = IsVerticalEncoding(f.Encoding)

	// The descendant font carries the width information
	descendants, err := pdf.GetArray(r, fontDict["DescendantFonts"])
	if err != nil {
		return nil, err
	}
	if len(descendants) == 0 {
		return nil, fmt.Errorf("font %s: missing DescendantFonts", name)
	}
	cidDict, err := pdf.GetDict(r, descendants[0])
	if err != nil {
		return nil, err
	}
	if cidDict == nil {
		return nil, fmt.Errorf("font %s: descendant font is not a dictionary", name)
	}
	if err := f.parseCIDFont(r, cidDict); err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}

	f.parseToUnicode(r, fontDict)

	return f, nil
}

// parseCIDFont reads the width and metric entries of a descendant
// CIDFont dictionary.
func (f *Font) parseCIDFont(r pdf.Getter, cidDict pdf.Dict) error {
	// Default width for CIDs not covered by W
	if dw := getNumber(r, cidDict["DW"]); dw != 0 {
		f.defaultWidth = dw
	}

	wArr, err := pdf.GetArray(r, cidDict["W"])
	if err != nil {
		return err
	}
	if wArr != nil {
		if err := f.parseWidthArray(r, wArr); err != nil {
			return err
		}
	}

	// Vertical writing metrics. DW2 is [vy w1], the position vector
	// component and the default vertical advance.
	if dw2, err := pdf.GetArray(r, cidDict["DW2"]); err == nil && len(dw2) >= 2 {
		f.defaultW1 = getNumber(r, dw2[1])
	}
	if w2, err := pdf.GetArray(r, cidDict["W2"]); err == nil && w2 != nil {
		f.parseW2Array(r, w2)
	}

	f.parseFontDescriptor(r, cidDict)

	return nil
}

// parseWidthArray parses the W array.
// Format: [c [w1 w2 ... wn]] or [cfirst clast w]
func (f *Font) parseWidthArray(r pdf.Getter, w pdf.Array) error {
	for i := 0; i < len(w); {
		// First element is always a CID (start of range)
		first, err := pdf.GetInteger(r, w[i])
		if err != nil {
			return fmt.Errorf("invalid W array entry at %d: %w", i, err)
		}
		i++

		if i >= len(w) {
			break
		}

		// Second element is either an array of widths or an end CID
		second, err := pdf.Resolve(r, w[i])
		if err != nil {
			return err
		}

		if widthsArray, ok := second.(pdf.Array); ok {
			// Format: c [w1 w2 ... wn]
			widths := make([]float64, len(widthsArray))
			for j, wv := range widthsArray {
				widths[j] = getNumber(r, wv)
			}
			f.widthRanges = append(f.widthRanges, WidthRange{
				StartCID: int(first),
				EndCID:   int(first) + len(widths) - 1,
				Widths:   widths,
			})
			i++
		} else {
			// Format: cfirst clast w
			last, err := pdf.GetInteger(r, w[i])
			if err != nil {
				return fmt.Errorf("invalid W array entry at %d: %w", i, err)
			}
			i++

			if i >= len(w) {
				break
			}
			width := getNumber(r, w[i])
			i++

			f.widthRanges = append(f.widthRanges, WidthRange{
				StartCID: int(first),
				EndCID:   int(last),
				Width:    width,
			})
		}
	}
	return nil
}

// parseW2Array parses the W2 array. Entries come in groups of three,
// the vertical advance and the two position vector components.
// Format: [c [w1y vx vy ...]] or [cfirst clast w1y vx vy]
func (f *Font) parseW2Array(r pdf.Getter, w2 pdf.Array) {
	for i := 0; i < len(w2); {
		first, err := pdf.GetInteger(r, w2[i])
		if err != nil {
			return
		}
		i++

		if i >= len(w2) {
			return
		}

		second, err := pdf.Resolve(r, w2[i])
		if err != nil {
			return
		}

		if metricsArray, ok := second.(pdf.Array); ok {
			// Format: c [w1y vx vy ...]
			var metrics []Metric
			for j := 0; j+2 < len(metricsArray); j += 3 {
				metrics = append(metrics, Metric{
					W1: getNumber(r, metricsArray[j]),
					VX: getNumber(r, metricsArray[j+1]),
					VY: getNumber(r, metricsArray[j+2]),
				})
			}
			if len(metrics) > 0 {
				f.w2Ranges = append(f.w2Ranges, VerticalMetrics{
					StartCID: int(first),
					EndCID:   int(first) + len(metrics) - 1,
					Metrics:  metrics,
				})
			}
			i++
		} else {
			// Format: cfirst clast w1y vx vy
			last, err := pdf.GetInteger(r, w2[i])
			if err != nil {
				return
			}
			i++

			if i+2 >= len(w2) {
				return
			}
			w1 := getNumber(r, w2[i])
			i += 3 // skip the position vector

			f.w2Ranges = append(f.w2Ranges, VerticalMetrics{
				StartCID: int(first),
				EndCID:   int(last),
				W1:       w1,
			})
		}
	}
}
