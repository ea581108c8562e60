package imposer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// assemble lays the flattened page sequence out onto sheets. Chunk k of the
// sequence (grid capacity pages) becomes sheet k; within a chunk, page j goes
// into cell j. Every page is scaled uniformly to fit its cell and centered in
// it, so aspect ratio is preserved and nothing is cropped.
//
// One importer serves the whole run. gofpdi numbers template names per
// importer, so a second importer writing into the same output would reuse the
// names of the first and overwrite its pages. Each document instead keeps one
// persistent reader for the run; gofpdi keys its source state and its
// (source, page) template cache by that pointer, which keeps every placement
// resolving to the right page of the right document no matter how many cells
// or sheets a document feeds.
func assemble(refs []pageRef, geo Geometry) (*gofpdf.Fpdf, error) {
	out := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: geo.SheetW, Ht: geo.SheetH},
	})
	out.SetMargins(0, 0, 0)
	out.SetAutoPageBreak(false, 0)

	capacity := len(geo.Cells)
	imp := gofpdi.NewImporter()
	readers := make(map[*document]*io.ReadSeeker)

	for i, ref := range refs {
		if i%capacity == 0 {
			out.AddPage()
		}
		cell := geo.Cells[i%capacity]

		rs, ok := readers[ref.doc]
		if !ok {
			var r io.ReadSeeker = bytes.NewReader(ref.doc.data)
			rs = &r
			readers[ref.doc] = rs
		}
		tpl := imp.ImportPageFromStream(out, rs, ref.page, "/MediaBox")

		pw, ph := ref.doc.pageSize(ref.page)
		x, y, w, h := placement(cell, pw, ph)
		imp.UseImportedTemplate(out, tpl, x, y, w, h)
	}

	if out.Err() {
		return nil, out.Error()
	}
	return out, nil
}

// placement scales a pw×ph source page uniformly to the largest size that
// still fits the cell and centers it there. Aspect ratio is preserved and the
// page is never cropped.
func placement(cell Cell, pw, ph float64) (x, y, w, h float64) {
	scale := math.Min(cell.W/pw, cell.H/ph)
	w, h = pw*scale, ph*scale
	x = cell.X + (cell.W-w)/2
	y = cell.Y + (cell.H-h)/2
	return
}

// encode serializes the assembled output document. Failure here is fatal to
// the whole run; it indicates a resource problem, not a bad input.
func encode(out *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing output PDF: %w", err)
	}
	return buf.Bytes(), nil
}
