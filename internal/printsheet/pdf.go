package printsheet

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"

	"codeberg.org/go-pdf/fpdf"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/compose"
	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/imageio"
	"github.com/kozaktomas/card-generator/internal/units"
)

// Layout returns the card layout cards are printed at.
func (k Kind) Layout() units.Layout {
	if k == KindLarge {
		return units.Large()
	}
	return units.Print()
}

// RenderPDF writes the document as an A4 PDF. Every filled cell holds the
// composited card at print resolution; placeholders stay blank. A card whose
// image cannot be decoded leaves its cell blank and is logged.
func RenderPDF(ctx context.Context, w io.Writer, doc *Document, backend canvas.Backend) error {
	pdf := fpdf.New("P", "cm", "A4", "")
	pdf.SetMargins(units.PageMarginCM, units.PageMarginCM, units.PageMarginCM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Montessori Cards", true)
	pdf.SetCreator("card-generator", true)

	comp := compose.New(backend, doc.Kind.Layout().ConstantsAt(constants.PrintDPI))
	decoded := make(map[string]image.Image)
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	for pi, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		for ci, cell := range page.Cells {
			if cell.Empty() {
				continue
			}
			card := cell.Card
			var src image.Image
			if page.Variant.HasImage() {
				img, ok := decoded[card.ID]
				if !ok {
					var err error
					img, err = imageio.Decode(card.Image())
					if err != nil {
						log.Printf("WARNING: skipping card %s on page %d: %v", card.ID, pi+1, err)
						decoded[card.ID] = nil
						continue
					}
					decoded[card.ID] = img
				}
				if img == nil {
					continue
				}
				src = img
			}

			out, err := comp.Draw(src, card.Label, page.Variant, doc.Style)
			if err != nil {
				return fmt.Errorf("failed to draw card %s: %w", card.ID, err)
			}
			data, err := imageio.EncodePNG(out)
			if err != nil {
				return fmt.Errorf("failed to encode card %s: %w", card.ID, err)
			}

			name := fmt.Sprintf("page%d-cell%d", pi, ci)
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
			x, y := page.Grid.CellOrigin(ci)
			pdf.ClipRoundedRect(x, y, page.Grid.CellWidth, page.Grid.CellHeight, units.CornerRadiusCM, false)
			pdf.ImageOptions(name, x, y, page.Grid.CellWidth, page.Grid.CellHeight, false, opts, 0, "")
			pdf.ClipEnd()
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("failed to render page %d: %w", pi+1, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
