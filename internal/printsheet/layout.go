package printsheet

import (
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/units"
)

// Grid is the placement of cards on a sheet, in centimetres from the top
// left corner of the page.
type Grid struct {
	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64
	MarginLeft float64
	MarginTop  float64
}

// GridFor returns the grid a variant is printed on. Grids are centred on
// the page in both directions.
func GridFor(kind Kind, v cards.Variant) Grid {
	if kind == KindLarge {
		edge := units.Large().CardCM()
		return centred(2, 2, edge, edge)
	}
	switch v {
	case cards.VariantControl:
		return centred(2, 3, units.PictureCardCM, units.ControlCardCM)
	case cards.VariantLabel:
		return centred(2, 8, units.PictureCardCM, units.LabelCardCM)
	default:
		return centred(2, 3, units.PictureCardCM, units.PictureCardCM)
	}
}

func centred(cols, rows int, w, h float64) Grid {
	usableW := units.PageWidthCM - 2*units.PageMarginCM
	usableH := units.PageHeightCM - 2*units.PageMarginCM
	return Grid{
		Columns:    cols,
		Rows:       rows,
		CellWidth:  w,
		CellHeight: h,
		MarginLeft: (usableW - float64(cols)*w) / 2,
		MarginTop:  (usableH - float64(rows)*h) / 2,
	}
}

// Capacity is the number of cells on the grid.
func (g Grid) Capacity() int {
	return g.Columns * g.Rows
}

// CellOrigin returns the top left corner of cell i, filled row by row.
func (g Grid) CellOrigin(i int) (x, y float64) {
	col, row := i%g.Columns, i/g.Columns
	return units.PageMarginCM + g.MarginLeft + float64(col)*g.CellWidth,
		units.PageMarginCM + g.MarginTop + float64(row)*g.CellHeight
}
