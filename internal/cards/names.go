package cards

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeFileRun = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// LabelFromFileName derives a default label: the extension is dropped and
// dashes and underscores become spaces.
func LabelFromFileName(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(base, " "))
}

// FileName is the download name of a rendered card: whitespace runs in the
// label become underscores, e.g. "red apple" -> "red_apple_control.png".
func FileName(label string, v Variant) string {
	return whitespaceRun.ReplaceAllString(label, "_") + "_" + string(v) + ".png"
}

// SafeFileName is FileName restricted to portable characters, for archive
// entries and Content-Disposition headers. Diacritics are folded and any
// other character becomes an underscore.
func SafeFileName(label string, v Variant) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, _ := transform.String(t, label)
	folded = whitespaceRun.ReplaceAllString(strings.TrimSpace(folded), "_")
	folded = strings.Trim(unsafeFileRun.ReplaceAllString(folded, "_"), "._")
	if folded == "" {
		folded = "card"
	}
	return folded + "_" + string(v) + ".png"
}

// ApplyBulkLabels assigns one label per line to the cards in order. Blank
// lines are skipped; cards past the last line keep their label.
func ApplyBulkLabels(list []Card, text string) []Card {
	var labels []string
	for line := range strings.SplitSeq(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l := strings.TrimSpace(line); l != "" {
			labels = append(labels, l)
		}
	}

	out := make([]Card, len(list))
	for i, c := range list {
		if i < len(labels) {
			c = c.WithLabel(labels[i])
		}
		out[i] = c
	}
	return out
}
