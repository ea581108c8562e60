package imposer

import (
	"bytes"
	"errors"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// minPDFSize is a cheap lower bound: no real PDF with at least one page fits
// in fewer bytes, so anything smaller is rejected before parsing.
const minPDFSize = 1024

var pdfMagic = []byte("%PDF-")

var (
	errBadHeader = errors.New("Not a valid PDF (bad header or too small)")
	errZeroPages = errors.New("0 pages")
)

// document is an opened, validated source PDF. Many page references share one
// document; it is read-only for the rest of the run.
type document struct {
	name      string
	data      []byte
	pageCount int
	dims      []types.Dim
}

// openDocument parses raw upload bytes into a queryable document handle.
// Protection metadata is tolerated as long as the page structure is readable;
// a parseable document with no pages is still rejected because it can
// contribute nothing to the output.
func openDocument(name string, data []byte) (*document, error) {
	if len(data) < minPDFSize || !bytes.HasPrefix(data, pdfMagic) {
		return nil, errBadHeader
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}
	if ctx.PageCount == 0 {
		return nil, errZeroPages
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, err
	}

	return &document{
		name:      name,
		data:      data,
		pageCount: ctx.PageCount,
		dims:      dims,
	}, nil
}

// pageSize returns the media box dimensions of a 1-based page.
func (d *document) pageSize(page int) (w, h float64) {
	dim := d.dims[page-1]
	return dim.Width, dim.Height
}
