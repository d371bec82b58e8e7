package marginalia

import "github.com/tsawler/marginalia/model"

// checkOptions holds configuration for a compliance check.
type checkOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Layout requirements
	spec          model.MarginSpec
	sizeTolerance float64
}

// defaultOptions returns the default check options: all pages against
// the sigconf margins with the default size tolerance.
func defaultOptions() checkOptions {
	return checkOptions{
		pages:         nil, // nil means all pages
		spec:          model.Sigconf,
		sizeTolerance: model.DefaultSizeTolerance,
	}
}

// clone creates a deep copy of checkOptions.
func (o checkOptions) clone() checkOptions {
	newOpts := checkOptions{
		spec:          o.spec,
		sizeTolerance: o.sizeTolerance,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
