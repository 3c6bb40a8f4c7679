// Package printsheet lays cards out on A4 sheets and renders the sheets as a
// printable HTML document, a PDF or a quality report.
package printsheet

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/compose"
)

// ErrUnknownKind is returned for a layout name other than standard or large.
var ErrUnknownKind = errors.New("unknown print layout")

// Kind selects the print layout.
type Kind string

const (
	// KindStandard prints control, picture and label sheets.
	KindStandard Kind = "standard"
	// KindLarge prints images only, four to a page.
	KindLarge Kind = "large"
)

// ParseKind validates a layout name. Empty means standard.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindStandard:
		return KindStandard, nil
	case KindLarge:
		return KindLarge, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Capacity returns how many cards of a variant fit on one standard page.
func Capacity(v cards.Variant) int {
	return GridFor(KindStandard, v).Capacity()
}

// Paginate splits n items into pages of capacity items. Each span is a
// half-open [start, end) range; only the last one may be short.
func Paginate(n, capacity int) [][2]int {
	if n <= 0 || capacity <= 0 {
		return nil
	}
	spans := make([][2]int, 0, (n+capacity-1)/capacity)
	for start := 0; start < n; start += capacity {
		spans = append(spans, [2]int{start, min(start+capacity, n)})
	}
	return spans
}

// Cell is one grid position. A nil Card is an empty placeholder.
type Cell struct {
	Card *cards.Card
}

// Empty reports whether the cell is a placeholder.
func (c Cell) Empty() bool {
	return c.Card == nil
}

// Page is one A4 sheet holding a single variant.
type Page struct {
	Variant cards.Variant
	// Number counts pages of the same variant, starting at 1.
	Number int
	Grid   Grid
	Cells  []Cell
}

// Title is the on-screen heading of the page, hidden when printing.
func (p Page) Title(kind Kind) string {
	if kind == KindLarge {
		return fmt.Sprintf("Images - Page %d", p.Number)
	}
	var name string
	switch p.Variant {
	case cards.VariantControl:
		name = "Control Cards"
	case cards.VariantPicture:
		name = "Picture Cards"
	default:
		name = "Label Cards"
	}
	return fmt.Sprintf("%s - Page %d", name, p.Number)
}

// Filled returns the number of cells holding a card.
func (p Page) Filled() int {
	n := 0
	for _, c := range p.Cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}

// Document is a laid out print job.
type Document struct {
	Kind  Kind
	Style compose.Style
	Pages []Page
}

// Build lays the collection out. The standard layout emits every control
// page, then every picture page, then every label page; the large layout
// emits image pages only.
func Build(kind Kind, list []cards.Card, style compose.Style) (*Document, error) {
	if len(list) == 0 {
		return nil, cards.ErrEmptyCollection
	}
	doc := &Document{Kind: kind, Style: style}
	switch kind {
	case KindStandard:
		for _, v := range cards.Variants() {
			doc.Pages = append(doc.Pages, buildPages(list, v, GridFor(kind, v))...)
		}
	case KindLarge:
		doc.Pages = buildPages(list, cards.VariantPicture, GridFor(kind, cards.VariantPicture))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return doc, nil
}

func buildPages(list []cards.Card, v cards.Variant, grid Grid) []Page {
	capacity := grid.Capacity()
	var pages []Page
	for i, span := range Paginate(len(list), capacity) {
		cells := make([]Cell, capacity)
		for j := span[0]; j < span[1]; j++ {
			cells[j-span[0]] = Cell{Card: &list[j]}
		}
		pages = append(pages, Page{Variant: v, Number: i + 1, Grid: grid, Cells: cells})
	}
	return pages
}
