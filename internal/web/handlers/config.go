package handlers

import (
	"net/http"

	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/units"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// LayoutInfo describes one card layout in centimetres and pixels
type LayoutInfo struct {
	units.Layout
	Pixels units.Constants `json:"pixels"`
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	PxPerCM      float64               `json:"px_per_cm"`
	Layouts      map[string]LayoutInfo `json:"layouts"`
	Palette      []config.Swatch       `json:"palette"`
	FontFamilies []string              `json:"font_families"`
	Defaults     config.StyleDefaults  `json:"defaults"`
	MaxFileSize  int                   `json:"max_file_size"`
	Renderer     string                `json:"renderer"`
}

func layoutInfo(l units.Layout) LayoutInfo {
	return LayoutInfo{Layout: l, Pixels: l.Constants()}
}

// Get returns the card layouts and style choices
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	renderer := h.config.Render.Renderer
	if renderer == "" {
		renderer = "raster"
	}

	response := ConfigResponse{
		PxPerCM: units.PxPerCM,
		Layouts: map[string]LayoutInfo{
			"editor": layoutInfo(units.Editor()),
			"print":  layoutInfo(units.Print()),
			"large":  layoutInfo(units.Large()),
		},
		Palette:      h.config.Styles.Palette,
		FontFamilies: h.config.Styles.FamilyNames(),
		Defaults:     h.config.Styles.Defaults,
		MaxFileSize:  constants.MaxImageFileSize,
		Renderer:     renderer,
	}

	respondJSON(w, http.StatusOK, response)
}
