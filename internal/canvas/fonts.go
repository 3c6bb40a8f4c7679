package canvas

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// Fonts resolves label font families to font files. Families that are not
// configured, or whose file cannot be read, use the embedded Go Bold face.
type Fonts struct {
	dir   string
	files map[string]string

	mu     sync.Mutex
	data   map[string][]byte
	parsed map[string]*opentype.Font
}

// NewFonts creates a registry reading files from dir. files maps a family
// name to a file name inside dir.
func NewFonts(dir string, files map[string]string) *Fonts {
	return &Fonts{
		dir:    dir,
		files:  files,
		data:   make(map[string][]byte),
		parsed: make(map[string]*opentype.Font),
	}
}

// DefaultFonts is a registry without custom families.
func DefaultFonts() *Fonts {
	return NewFonts("", nil)
}

// Data returns the font file for a family.
func (f *Fonts) Data(family string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dataLocked(family)
}

func (f *Fonts) dataLocked(family string) []byte {
	if d, ok := f.data[family]; ok {
		return d
	}
	d := gobold.TTF
	if name, ok := f.files[family]; ok && f.dir != "" {
		path := filepath.Join(f.dir, name)
		if raw, err := os.ReadFile(path); err == nil {
			d = raw
		} else {
			log.Printf("WARNING: font %q not readable at %s, using Go Bold", family, path)
		}
	}
	f.data[family] = d
	return d
}

// font returns the parsed font for a family, falling back to Go Bold when
// the configured file does not parse.
func (f *Fonts) font(family string) *opentype.Font {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.parsed[family]; ok {
		return p
	}
	p, err := opentype.Parse(f.dataLocked(family))
	if err != nil {
		log.Printf("WARNING: font %q cannot be parsed, using Go Bold: %v", family, err)
		f.data[family] = gobold.TTF
		p, _ = opentype.Parse(gobold.TTF)
	}
	f.parsed[family] = p
	return p
}

// NewFace returns a face at size pixels. Faces are not safe for concurrent
// use, so every surface creates its own.
func (f *Fonts) NewFace(family string, size float64) (font.Face, error) {
	return opentype.NewFace(f.font(family), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
