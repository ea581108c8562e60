// Package imposer arranges the pages of many source PDFs onto larger sheets
// in a fixed grid (N-up imposition). Inputs are processed strictly in the
// order supplied; pages keep that order across the output. Unreadable inputs
// are reported, not fatal — the run only fails when no page survives at all
// or the combined output cannot be written.
package imposer

import (
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// maxBadFileDetails caps the per-file detail returned to the caller so a
// pathological batch of rejects cannot blow up the response. TotalBad always
// carries the true count.
const maxBadFileDetails = 50

// Result is the outcome of one imposition run.
type Result struct {
	// Output is the combined PDF. Nil when the run failed.
	Output []byte
	// SourcePages counts the pages placed, across all accepted inputs.
	SourcePages int
	// SheetCount counts the pages of the output document.
	SheetCount int
	// BadFiles lists the first rejected inputs, at most maxBadFileDetails,
	// in submission order.
	BadFiles []BadFile
	// TotalBad is the true number of rejected inputs.
	TotalBad int
}

// Impose validates the inputs, flattens all readable pages into one sequence,
// and lays them out per opts. The returned Result is non-nil even when err is
// non-nil, so callers can still report how many inputs were rejected.
func Impose(inputs []Input, opts Options) (*Result, error) {
	refs, bad := flatten(inputs)

	res := &Result{TotalBad: len(bad)}
	if len(bad) > maxBadFileDetails {
		res.BadFiles = bad[:maxBadFileDetails]
	} else {
		res.BadFiles = bad
	}

	if len(refs) == 0 {
		return res, errors.New("no pages could be read from any input file")
	}

	geo := ComputeGeometry(opts)

	out, err := assembleSafe(refs, geo)
	if err != nil {
		return res, err
	}

	data, err := encode(out)
	if err != nil {
		return res, err
	}

	capacity := opts.Grid.Capacity()
	res.Output = data
	res.SourcePages = len(refs)
	res.SheetCount = (len(refs) + capacity - 1) / capacity
	return res, nil
}

// assembleSafe runs assemble and converts gofpdi parse panics into an error.
// A file that pdfcpu accepted can still trip the importer; that is a fault of
// the run, not of a single page, so it surfaces as fatal.
func assembleSafe(refs []pageRef, geo Geometry) (out *gofpdf.Fpdf, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("assembling sheets: %v", r)
		}
	}()
	return assemble(refs, geo)
}
