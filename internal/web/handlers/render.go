package handlers

import (
	"bytes"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/compose"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/database"
	"github.com/kozaktomas/card-generator/internal/units"
)

// RenderHandler serves composited card images.
type RenderHandler struct {
	config     *config.Config
	store      database.CardReader
	compositor *compose.Compositor
}

// NewRenderHandler creates a render handler drawing at the editor layout.
func NewRenderHandler(cfg *config.Config, store database.CardReader, backend canvas.Backend) *RenderHandler {
	return &RenderHandler{
		config:     cfg,
		store:      store,
		compositor: compose.New(backend, units.Editor().Constants()),
	}
}

// attachment builds a Content-Disposition header. Non-ASCII names are
// encoded per RFC 2231 with an ASCII fallback.
func attachment(label string, v cards.Variant) string {
	name := cards.FileName(label, v)
	if d := mime.FormatMediaType("attachment", map[string]string{"filename": name}); d != "" {
		return d
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": cards.SafeFileName(label, v)})
}

// Card renders one variant of a card as a PNG download.
func (h *RenderHandler) Card(w http.ResponseWriter, r *http.Request) {
	v, err := cards.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		respondServiceError(w, err, "invalid variant")
		return
	}
	style, err := styleFromQuery(r, h.config)
	if err != nil {
		respondServiceError(w, err, "invalid style")
		return
	}

	card, err := h.store.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to get card")
		return
	}

	data, err := h.compositor.RenderPNG(r.Context(), *card, v, style)
	if err != nil {
		respondServiceError(w, err, "failed to render card")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", attachment(card.Label, v))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Bundle renders every variant of every card into one zip archive. Cards
// that fail are listed in failures.txt and counted in X-Render-Failures.
func (h *RenderHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	style, err := styleFromQuery(r, h.config)
	if err != nil {
		respondServiceError(w, err, "invalid style")
		return
	}

	list, err := h.store.ListCards(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to list cards")
		return
	}

	result, err := h.compositor.RenderAll(r.Context(), list, style, h.config.Render.Concurrency, nil)
	if err != nil {
		respondServiceError(w, err, "failed to render cards")
		return
	}
	for _, f := range result.Failures {
		log.Printf("WARNING: bundle skipped %s", sanitizeForLog(f.Error()))
	}

	var buf bytes.Buffer
	if err := compose.WriteBundle(&buf, result); err != nil {
		respondServiceError(w, err, "failed to write bundle")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="cards.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Failures", fmt.Sprint(len(result.Failures)))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
