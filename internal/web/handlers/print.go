package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/database"
	"github.com/kozaktomas/card-generator/internal/printsheet"
)

// PrintHandler serves printable sheets of the whole collection.
type PrintHandler struct {
	config  *config.Config
	store   database.CardReader
	backend canvas.Backend
}

// NewPrintHandler creates a new print handler.
func NewPrintHandler(cfg *config.Config, store database.CardReader, backend canvas.Backend) *PrintHandler {
	return &PrintHandler{
		config:  cfg,
		store:   store,
		backend: backend,
	}
}

// Print builds the print document. Query parameters: layout (standard or
// large), format (html, pdf or report), border and font.
func (h *PrintHandler) Print(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := printsheet.ParseKind(q.Get("layout"))
	if err != nil {
		respondServiceError(w, err, "invalid layout")
		return
	}
	format := q.Get("format")
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "pdf" && format != "report" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}
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

	doc, err := printsheet.Build(kind, list, style)
	if err != nil {
		respondServiceError(w, err, "failed to build print layout")
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "report":
		respondJSON(w, http.StatusOK, printsheet.BuildReport(doc))
		return
	case "pdf":
		if err := printsheet.RenderPDF(r.Context(), &buf, doc, h.backend); err != nil {
			respondServiceError(w, err, "failed to render PDF")
			return
		}
		contentType = "application/pdf"
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="cards-%s.pdf"`, kind))
	default:
		if err := printsheet.RenderHTML(&buf, doc, h.backend); err != nil {
			respondServiceError(w, err, "failed to render print page")
			return
		}
		contentType = "text/html; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
