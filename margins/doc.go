// Package margins decides whether page content respects the sigconf
// layout requirements: US Letter pages with at least 57pt clear at the
// top, 73pt at the bottom and 54pt on each side.
//
// Evaluation is pure. Given a page size and the boxes of everything
// visible on the page, Evaluate reports one violation per crossed edge
// per box, plus a single page-size violation when the page is not
// Letter within tolerance:
//
//	violations := margins.Evaluate(size, model.Sigconf, boxes)
//	for _, v := range violations {
//	    fmt.Println(v.Message)
//	}
//
// The two checks are independent. A page of the wrong size still has
// its margins measured against its own dimensions, so authors get the
// full picture in one pass instead of fixing the size and only then
// learning about margin problems.
//
// Intrusions are rounded to two decimals before reporting, and a
// crossing that rounds to zero counts as clean. Reports for the same
// input are identical across runs and platforms, which keeps stored
// reports diffable.
package margins
