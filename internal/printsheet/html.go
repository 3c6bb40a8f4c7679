package printsheet

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/compose"
	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/imageio"
	"github.com/kozaktomas/card-generator/internal/units"
)

//go:embed templates/print.html
var templateFS embed.FS

var printTemplate = template.Must(template.ParseFS(templateFS, "templates/print.html"))

type htmlDocument struct {
	Title         string
	Kind          Kind
	FontFamily    string
	BorderColor   template.CSS
	PageWidth     template.CSS
	PageHeight    template.CSS
	PageMargin    template.CSS
	Border        template.CSS
	Radius        template.CSS
	LabelInternal template.CSS
	PrintDelay    int
	Pages         []htmlPage
}

// CardStyle sizes a card of the given variant.
func (d htmlDocument) CardStyle(variant string) template.CSS {
	g := GridFor(d.Kind, cards.Variant(variant))
	return template.CSS(fmt.Sprintf("width: %s; height: %s;",
		units.FormatCM(g.CellWidth), units.FormatCM(g.CellHeight)))
}

type htmlPage struct {
	Title     string
	Class     string
	GridStyle template.CSS
	Cells     []htmlCell
}

type htmlCell struct {
	Empty    bool
	Variant  string
	Label    string
	Src      template.URL
	FontSize template.CSS
}

// RenderHTML writes the document as one self-contained HTML page that opens
// the print dialog once loaded. Images are inlined as data URIs. Label sizes
// are fitted with the fonts of backend at print size.
func RenderHTML(w io.Writer, doc *Document, backend canvas.Backend) error {
	data := htmlDocument{
		Title:         "Montessori Cards - Print",
		Kind:          doc.Kind,
		FontFamily:    doc.Style.FontFamily,
		BorderColor:   template.CSS(doc.Style.BorderHex()),
		PageWidth:     template.CSS(units.FormatCM(units.PageWidthCM)),
		PageHeight:    template.CSS(units.FormatCM(units.PageHeightCM)),
		PageMargin:    template.CSS(units.FormatCM(units.PageMarginCM)),
		Border:        template.CSS(units.FormatCM(units.BorderCM)),
		Radius:        template.CSS(units.FormatCM(units.CornerRadiusCM)),
		LabelInternal: template.CSS(units.FormatCM(units.LabelInternalCM)),
		PrintDelay:    constants.PrintDelayMillis,
	}
	if doc.Kind == KindLarge {
		data.Title = "Montessori Images - Print"
	}

	fitter := newLabelFitter(backend, doc.Style.FontFamily)
	uris := make(map[string]template.URL)
	for _, p := range doc.Pages {
		hp := htmlPage{
			Title:     p.Title(doc.Kind),
			Class:     pageClass(doc.Kind, p.Variant),
			GridStyle: gridStyle(p.Grid),
		}
		for _, c := range p.Cells {
			if c.Empty() {
				hp.Cells = append(hp.Cells, htmlCell{Empty: true})
				continue
			}
			cell := htmlCell{Variant: string(p.Variant), Label: c.Card.Label}
			if p.Variant.HasImage() {
				uri, ok := uris[c.Card.ID]
				if !ok {
					// Preformatted by DataURI; html/template would otherwise reject data: URLs.
					uri = template.URL(imageio.DataURI(c.Card.Image())) //nolint:gosec
					uris[c.Card.ID] = uri
				}
				cell.Src = uri
			}
			if p.Variant.HasLabel() && doc.Kind != KindLarge {
				cell.FontSize = template.CSS(strconv.FormatFloat(fitter.size(c.Card.Label), 'f', -1, 64) + "px")
			}
			hp.Cells = append(hp.Cells, cell)
		}
		data.Pages = append(data.Pages, hp)
	}

	if err := printTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute print template: %w", err)
	}
	return nil
}

func pageClass(kind Kind, v cards.Variant) string {
	if kind == KindLarge {
		return "large"
	}
	return string(v)
}

func gridStyle(g Grid) template.CSS {
	col := units.FormatCM(g.CellWidth)
	row := units.FormatCM(g.CellHeight)
	return template.CSS(fmt.Sprintf(
		"grid-template-columns: repeat(%d, %s); grid-template-rows: repeat(%d, %s); margin-left: %s; margin-top: %s;",
		g.Columns, col, g.Rows, row, units.FormatCM(g.MarginLeft), units.FormatCM(g.MarginTop)))
}

// labelFitter sizes labels in CSS pixels for the printed card.
type labelFitter struct {
	compositor *compose.Compositor
	surface    canvas.Surface
	family     string
	cache      map[string]float64
}

func newLabelFitter(backend canvas.Backend, family string) *labelFitter {
	return &labelFitter{
		compositor: compose.New(backend, units.Print().Constants()),
		surface:    backend.NewSurface(1, 1),
		family:     family,
		cache:      make(map[string]float64),
	}
}

func (f *labelFitter) size(label string) float64 {
	if s, ok := f.cache[label]; ok {
		return s
	}
	s := f.compositor.LabelFontSize(f.surface, label, f.family)
	f.cache[label] = s
	return s
}
