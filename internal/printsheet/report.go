package printsheet

import (
	"fmt"
	"math"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/fingerprint"
	"github.com/kozaktomas/card-generator/internal/imageio"
)

// Report describes a print job for quality checks before printing.
type Report struct {
	Kind      Kind         `json:"kind"`
	PageCount int          `json:"page_count"`
	CardCount int          `json:"card_count"`
	Pages     []ReportPage `json:"pages"`
	Warnings  []string     `json:"warnings"`

	// Duplicates lists pairs of cards whose pictures look the same.
	Duplicates []Duplicate `json:"duplicates"`
}

// Duplicate is a pair of cards with near-identical images.
type Duplicate struct {
	CardIDs  [2]string `json:"card_ids"`
	Labels   [2]string `json:"labels"`
	Distance int       `json:"distance"`
}

// ReportPage describes one sheet.
type ReportPage struct {
	PageNumber int           `json:"page_number"`
	Variant    cards.Variant `json:"variant"`
	Filled     int           `json:"filled"`
	Empty      int           `json:"empty"`
	Cards      []ReportCard  `json:"cards,omitempty"`
}

// ReportCard describes one placed card. EffectiveDPI is zero for cards
// without an image or whose image cannot be decoded.
type ReportCard struct {
	CardID       string  `json:"card_id"`
	Label        string  `json:"label"`
	SlotIndex    int     `json:"slot_index"`
	EffectiveDPI float64 `json:"effective_dpi"`
	LowRes       bool    `json:"low_res"`
}

// imageInfo is what the report needs from a decoded card image.
type imageInfo struct {
	w, h  int
	hash  uint64
	valid bool
}

// BuildReport computes fill counts and the effective resolution of every
// printed image. Images are cover fitted, so the shorter side decides.
func BuildReport(doc *Document) *Report {
	report := &Report{
		Kind:       doc.Kind,
		PageCount:  len(doc.Pages),
		Warnings:   []string{},
		Duplicates: []Duplicate{},
	}
	imageCM := doc.Kind.Layout().ImageCM

	infos := make(map[string]imageInfo)
	var hashed []cards.Card
	seen := make(map[string]bool)

	for pi, page := range doc.Pages {
		rp := ReportPage{PageNumber: pi + 1, Variant: page.Variant}
		for si, cell := range page.Cells {
			if cell.Empty() {
				rp.Empty++
				continue
			}
			rp.Filled++
			card := cell.Card
			seen[card.ID] = true
			rc := ReportCard{CardID: card.ID, Label: card.Label, SlotIndex: si}
			if page.Variant.HasImage() {
				info, ok := infos[card.ID]
				if !ok {
					info = inspectImage(card.Image())
					if !info.valid {
						report.Warnings = append(report.Warnings,
							fmt.Sprintf("Page %d, slot %d (%s): image cannot be decoded", rp.PageNumber, si, card.Label))
					} else {
						hashed = append(hashed, *card)
					}
					infos[card.ID] = info
				}
				rc.EffectiveDPI = effectiveDPI(info.w, info.h, imageCM)
				rc.LowRes = rc.EffectiveDPI > 0 && rc.EffectiveDPI < constants.LowResDPIThreshold
			}
			rp.Cards = append(rp.Cards, rc)
		}
		report.Pages = append(report.Pages, rp)
	}
	report.CardCount = len(seen)
	addDPIWarnings(report)
	report.Duplicates = findDuplicates(hashed, infos)
	return report
}

func inspectImage(data []byte) imageInfo {
	img, err := imageio.Decode(data)
	if err != nil {
		return imageInfo{}
	}
	b := img.Bounds()
	return imageInfo{w: b.Dx(), h: b.Dy(), hash: fingerprint.DHash(img), valid: true}
}

// findDuplicates pairs every two cards, in first placement order, whose
// image hashes are within DuplicateHashDistance.
func findDuplicates(list []cards.Card, infos map[string]imageInfo) []Duplicate {
	dups := []Duplicate{}
	for i := range list {
		for j := i + 1; j < len(list); j++ {
			a, b := list[i], list[j]
			d := fingerprint.HammingDistance(infos[a.ID].hash, infos[b.ID].hash)
			if d <= constants.DuplicateHashDistance {
				dups = append(dups, Duplicate{
					CardIDs:  [2]string{a.ID, b.ID},
					Labels:   [2]string{a.Label, b.Label},
					Distance: d,
				})
			}
		}
	}
	return dups
}

func effectiveDPI(w, h int, imageCM float64) float64 {
	if w <= 0 || h <= 0 || imageCM <= 0 {
		return 0
	}
	dpi := float64(min(w, h)) / (imageCM / 2.54)
	return math.Round(dpi*10) / 10
}

// addDPIWarnings adds a warning for every low resolution placement.
func addDPIWarnings(report *Report) {
	for _, rp := range report.Pages {
		for _, c := range rp.Cards {
			if c.LowRes {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("Page %d, slot %d (%s): effective DPI %.0f is below %d",
						rp.PageNumber, c.SlotIndex, c.Label, c.EffectiveDPI, int(constants.LowResDPIThreshold)))
			}
		}
	}
}
