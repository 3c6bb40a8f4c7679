package printsheet

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/compose"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: 120, B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func imageCards(t *testing.T, n, edge int) []cards.Card {
	t.Helper()
	list := testCards(n)
	data := pngOf(t, edge, edge)
	for i := range list {
		list[i].Original = data
	}
	return list
}

// findAll returns every element node with the given tag and class.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && (class == "" || hasClass(n, class)) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func renderHTML(t *testing.T, kind Kind, list []cards.Card, style compose.Style) (*html.Node, string) {
	t.Helper()
	doc, err := Build(kind, list, style)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc, &canvas.Recorder{}); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	root, err := html.Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("invalid HTML: %v", err)
	}
	return root, buf.String()
}

func TestRenderHTML_Standard(t *testing.T) {
	list := imageCards(t, 7, 40)
	list[2].Label = `<b>cat & "dog"</b>`
	root, raw := renderHTML(t, KindStandard, list, compose.DefaultStyle())

	pages := findAll(root, "div", "page")
	if len(pages) != 5 {
		t.Fatalf("expected 5 pages, got %d", len(pages))
	}
	if got := text(findAll(pages[0], "div", "page-title")[0]); got != "Control Cards - Page 1" {
		t.Errorf("unexpected first title %q", got)
	}

	if n := len(findAll(root, "div", "card-control")); n != 7 {
		t.Errorf("expected 7 control cards, got %d", n)
	}
	if n := len(findAll(root, "div", "card-picture")); n != 7 {
		t.Errorf("expected 7 picture cards, got %d", n)
	}
	if n := len(findAll(root, "div", "card-label")); n != 7 {
		t.Errorf("expected 7 label cards, got %d", n)
	}
	// 5 + 5 padding the control and picture pages, 9 on the label page.
	if n := len(findAll(root, "div", "placeholder")); n != 19 {
		t.Errorf("expected 19 placeholders, got %d", n)
	}

	imgs := findAll(root, "img", "")
	if len(imgs) != 14 {
		t.Fatalf("expected 14 images, got %d", len(imgs))
	}
	for _, img := range imgs {
		if !strings.HasPrefix(attr(img, "src"), "data:image/png;base64,") {
			t.Errorf("image not inlined: %.40s", attr(img, "src"))
		}
	}

	labels := findAll(root, "div", "label-area")
	if len(labels) != 14 {
		t.Fatalf("expected 14 labels, got %d", len(labels))
	}
	if got := text(labels[2]); got != list[2].Label {
		t.Errorf("label not preserved: %q", got)
	}
	if strings.Contains(raw, "<b>cat") {
		t.Error("label markup was not escaped")
	}
	for _, l := range labels {
		if !strings.Contains(attr(l, "style"), "font-size: ") || !strings.Contains(attr(l, "style"), "px") {
			t.Errorf("label without fitted font size: %q", attr(l, "style"))
		}
	}

	grid := findAll(pages[2], "div", "grid")[0]
	if style := attr(grid, "style"); !strings.Contains(style, "margin-top: 3.6cm") || !strings.Contains(style, "margin-left: 3cm") {
		t.Errorf("picture grid not centred: %q", style)
	}

	if !strings.Contains(raw, "background: #2d5a27") {
		t.Error("border colour not substituted")
	}
	scripts := findAll(root, "script", "")
	if len(scripts) != 1 || !strings.Contains(text(scripts[0]), "window.print()") || !strings.Contains(text(scripts[0]), "500") {
		t.Error("missing delayed print script")
	}
}

func TestRenderHTML_Large(t *testing.T) {
	style, err := compose.ParseStyle("#336699", "Georgia")
	if err != nil {
		t.Fatal(err)
	}
	root, raw := renderHTML(t, KindLarge, imageCards(t, 5, 40), style)

	if n := len(findAll(root, "div", "page")); n != 2 {
		t.Fatalf("expected 2 pages, got %d", n)
	}
	if n := len(findAll(root, "div", "label-area")); n != 0 {
		t.Errorf("large layout should have no labels, got %d", n)
	}
	if n := len(findAll(root, "img", "")); n != 5 {
		t.Errorf("expected 5 images, got %d", n)
	}
	if n := len(findAll(root, "div", "placeholder")); n != 3 {
		t.Errorf("expected 3 placeholders, got %d", n)
	}
	if !strings.Contains(raw, "Montessori Images - Print") || !strings.Contains(raw, "#336699") {
		t.Error("large document title or colour missing")
	}
	if !strings.Contains(raw, "width: 10.5cm; height: 10.5cm;") {
		t.Error("large cards not sized to a quarter page")
	}
}

func TestRenderPDF(t *testing.T) {
	list := imageCards(t, 3, 30)
	list[1].Original = []byte("broken")
	doc, err := Build(KindStandard, list, compose.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RenderPDF(context.Background(), &buf, doc, canvas.NewRaster(nil)); err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %.10q", buf.Bytes())
	}
}

func TestRenderPDF_Cancelled(t *testing.T) {
	doc, err := Build(KindLarge, imageCards(t, 1, 10), compose.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RenderPDF(ctx, &bytes.Buffer{}, doc, &canvas.Recorder{}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestBuildReport(t *testing.T) {
	list := imageCards(t, 2, 1000)
	list[1].Original = pngOf(t, 100, 300)
	doc, err := Build(KindStandard, list, compose.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	r := BuildReport(doc)
	if r.PageCount != 3 || r.CardCount != 2 {
		t.Errorf("expected 3 pages and 2 cards, got %d and %d", r.PageCount, r.CardCount)
	}
	control := r.Pages[0]
	if control.Filled != 2 || control.Empty != 4 {
		t.Errorf("control page fill %d/%d", control.Filled, control.Empty)
	}
	// 1000 px over 6.5 cm.
	if got := control.Cards[0].EffectiveDPI; got != 390.8 || control.Cards[0].LowRes {
		t.Errorf("sharp card: %v dpi, low res %v", got, control.Cards[0].LowRes)
	}
	// The short side decides: 100 px over 6.5 cm.
	if got := control.Cards[1].EffectiveDPI; got != 39.1 || !control.Cards[1].LowRes {
		t.Errorf("small card: %v dpi, low res %v", got, control.Cards[1].LowRes)
	}
	if r.Pages[2].Cards[0].EffectiveDPI != 0 {
		t.Error("label cards have no resolution")
	}
	// One warning each on the control and picture page.
	if len(r.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", r.Warnings)
	}
}

func TestBuildReport_Undecodable(t *testing.T) {
	list := testCards(1)
	list[0].Original = []byte("nope")
	doc, err := Build(KindLarge, list, compose.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	r := BuildReport(doc)
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "cannot be decoded") {
		t.Errorf("unexpected warnings %v", r.Warnings)
	}
	if r.Pages[0].Cards[0].LowRes {
		t.Error("undecodable image must not be flagged low res")
	}
}

// grayRamp returns a horizontal gray gradient, brightening to the right
// unless falling is set.
func grayRamp(t *testing.T, w, h int, falling bool) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			v := uint8(x * 255 / (w - 1))
			if falling {
				v = 255 - v
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestBuildReport_Duplicates(t *testing.T) {
	list := testCards(3)
	list[0].Original = grayRamp(t, 80, 60, false)
	list[1].Original = grayRamp(t, 40, 30, true)
	list[2].Original = grayRamp(t, 160, 120, false)
	doc, err := Build(KindStandard, list, compose.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	r := BuildReport(doc)
	if len(r.Duplicates) != 1 {
		t.Fatalf("expected 1 duplicate pair, got %+v", r.Duplicates)
	}
	d := r.Duplicates[0]
	if d.CardIDs != [2]string{list[0].ID, list[2].ID} || d.Distance != 0 {
		t.Errorf("unexpected duplicate %+v", d)
	}
	if d.Labels != [2]string{list[0].Label, list[2].Label} {
		t.Errorf("unexpected labels %v", d.Labels)
	}
}

func TestBuildReport_NoDuplicatesForUndecodable(t *testing.T) {
	list := testCards(2)
	list[0].Original = []byte("nope")
	list[1].Original = []byte("nope")
	doc, err := Build(KindLarge, list, compose.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if r := BuildReport(doc); len(r.Duplicates) != 0 {
		t.Errorf("undecodable images must not be paired, got %+v", r.Duplicates)
	}
}
