package compose

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/imageio"
)

// File is one rendered card variant.
type File struct {
	CardID  string
	Label   string
	Variant cards.Variant
	Name    string
	PNG     []byte
}

// Failure records a card variant that could not be rendered.
type Failure struct {
	CardID  string
	Label   string
	Variant cards.Variant
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s (%s, %s): %v", f.CardID, f.Label, f.Variant, f.Err)
}

// BatchResult holds every rendered file in collection order, control before
// picture before label within a card.
type BatchResult struct {
	Files    []File
	Failures []Failure
}

// Progress is called after each card is finished.
type Progress func(done, total int)

// RenderAll renders every variant of every card. A card that fails is
// recorded in Failures and does not stop the others. Cards are rendered by
// up to concurrency workers; output order always follows the input.
func (c *Compositor) RenderAll(ctx context.Context, list []cards.Card, style Style, concurrency int, progress Progress) (*BatchResult, error) {
	if len(list) == 0 {
		return nil, cards.ErrEmptyCollection
	}
	if concurrency < 1 {
		concurrency = constants.DefaultRenderConcurrency
	}

	type outcome struct {
		files    []File
		failures []Failure
	}
	outcomes := make([]outcome, len(list))

	jobs := make(chan int, len(list))
	for i := range list {
		jobs <- i
	}
	close(jobs)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for range min(concurrency, len(list)) {
		wg.Go(func() {
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				files, failures := c.renderCard(list[i], style)
				outcomes[i] = outcome{files: files, failures: failures}
				if progress != nil {
					mu.Lock()
					done++
					progress(done, len(list))
					mu.Unlock()
				}
			}
		})
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for _, o := range outcomes {
		result.Files = append(result.Files, o.files...)
		result.Failures = append(result.Failures, o.failures...)
	}
	return result, nil
}

// renderCard decodes the card image once and draws all three variants.
func (c *Compositor) renderCard(card cards.Card, style Style) ([]File, []Failure) {
	var (
		files    []File
		failures []Failure
	)
	fail := func(v cards.Variant, err error) {
		log.Printf("WARNING: cannot render %s card %s: %v", v, card.ID, err)
		failures = append(failures, Failure{CardID: card.ID, Label: card.Label, Variant: v, Err: err})
	}

	img, decodeErr := imageio.Decode(card.Image())
	for _, v := range cards.Variants() {
		var src image.Image
		if v.HasImage() {
			if decodeErr != nil {
				fail(v, decodeErr)
				continue
			}
			src = img
		}
		out, err := c.Draw(src, card.Label, v, style)
		if err != nil {
			fail(v, err)
			continue
		}
		data, err := imageio.EncodePNG(out)
		if err != nil {
			fail(v, err)
			continue
		}
		files = append(files, File{
			CardID:  card.ID,
			Label:   card.Label,
			Variant: v,
			Name:    cards.SafeFileName(card.Label, v),
			PNG:     data,
		})
	}
	return files, failures
}

// WriteBundle writes the batch as a zip archive. Duplicate names get a
// numeric suffix and failures are listed in failures.txt.
func WriteBundle(w io.Writer, result *BatchResult) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]bool)
	for _, f := range result.Files {
		name := uniqueName(seen, f.Name)
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := fw.Write(f.PNG); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	if len(result.Failures) > 0 {
		fw, err := zw.Create("failures.txt")
		if err != nil {
			return fmt.Errorf("adding failures.txt: %w", err)
		}
		var sb strings.Builder
		for _, f := range result.Failures {
			sb.WriteString(f.Error())
			sb.WriteByte('\n')
		}
		if _, err := io.WriteString(fw, sb.String()); err != nil {
			return fmt.Errorf("writing failures.txt: %w", err)
		}
	}
	return zw.Close()
}

// uniqueName returns name, or name with _2, _3... inserted before the
// variant suffix when it was already used.
func uniqueName(seen map[string]bool, name string) string {
	if !seen[name] {
		seen[name] = true
		return name
	}
	stem := strings.TrimSuffix(name, ".png")
	base, variant := stem, ""
	if i := strings.LastIndex(stem, "_"); i >= 0 {
		base, variant = stem[:i], stem[i:]
	}
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n) + variant + ".png"
		if !seen[candidate] {
			seen[candidate] = true
			return candidate
		}
	}
}
