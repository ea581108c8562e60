package imposer

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Paper selects the physical sheet format of the output document.
type Paper string

const (
	PaperA4 Paper = "A4"
	PaperA3 Paper = "A3"
)

// Orientation selects which way the output sheets are turned.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Grid describes the cell layout of one sheet.
type Grid struct {
	Cols int
	Rows int
}

// Capacity returns how many source pages fit on one sheet.
func (g Grid) Capacity() int { return g.Cols * g.Rows }

// Options is the layout configuration for one imposition run. The HTTP layer
// range-checks margins and gaps ([0,50] mm) and the enum fields before the
// engine sees them.
type Options struct {
	Paper       Paper
	Orientation Orientation
	Grid        Grid
	MarginMM    float64
	GapMM       float64
}

// Cell is one slot of a sheet's grid, in points with a top-left origin.
type Cell struct {
	X float64
	Y float64
	W float64
	H float64
}

// Geometry is the computed sheet size and cell table for one run. Cells are
// row-major; cell 0 is the top-left slot of the sheet.
type Geometry struct {
	SheetW float64
	SheetH float64
	Cells  []Cell
}

const mmToPt = 72.0 / 25.4

// ComputeGeometry maps layout options to sheet dimensions and a cell table.
// It never fails: margins and gaps large enough to leave no room produce
// degenerate (zero or negative size) cells, which callers are expected to
// have ruled out by range-checking the options.
func ComputeGeometry(opts Options) Geometry {
	dim := types.PaperSize[string(opts.Paper)]
	sheetW, sheetH := dim.Width, dim.Height
	if opts.Orientation == Landscape {
		sheetW, sheetH = sheetH, sheetW
	}

	margin := opts.MarginMM * mmToPt
	gap := opts.GapMM * mmToPt
	cols, rows := opts.Grid.Cols, opts.Grid.Rows

	cellW := (sheetW - 2*margin - float64(cols-1)*gap) / float64(cols)
	cellH := (sheetH - 2*margin - float64(rows-1)*gap) / float64(rows)

	cells := make([]Cell, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, Cell{
				X: margin + float64(c)*(cellW+gap),
				Y: margin + float64(r)*(cellH+gap),
				W: cellW,
				H: cellH,
			})
		}
	}

	return Geometry{SheetW: sheetW, SheetH: sheetH, Cells: cells}
}
