package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/crop"
	"github.com/kozaktomas/card-generator/internal/database"
)

// CardsHandler handles card collection endpoints.
type CardsHandler struct {
	config *config.Config
	store  database.CardStore
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(cfg *config.Config, store database.CardStore) *CardsHandler {
	return &CardsHandler{
		config: cfg,
		store:  store,
	}
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	cards.Card
	IsCropped bool `json:"cropped"`
}

func cardToResponse(c cards.Card) CardResponse {
	return CardResponse{Card: c, IsCropped: c.IsCropped()}
}

func cardsToResponse(list []cards.Card) []CardResponse {
	response := make([]CardResponse, len(list))
	for i, c := range list {
		response[i] = cardToResponse(c)
	}
	return response
}

// List returns every card in collection order.
func (h *CardsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListCards(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to list cards")
		return
	}
	respondJSON(w, http.StatusOK, cardsToResponse(list))
}

// Get returns a single card.
func (h *CardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.store.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to get card")
		return
	}
	respondJSON(w, http.StatusOK, cardToResponse(*card))
}

// UpdateCardRequest represents a relabel request.
type UpdateCardRequest struct {
	Label *string `json:"label"`
}

// Update replaces the label of a card.
func (h *CardsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Label == nil {
		respondError(w, http.StatusBadRequest, "label is required")
		return
	}

	card, err := h.store.UpdateLabel(r.Context(), chi.URLParam(r, "id"), *req.Label)
	if err != nil {
		respondServiceError(w, err, "failed to update card")
		return
	}
	respondJSON(w, http.StatusOK, cardToResponse(*card))
}

// Delete removes a card from the collection.
func (h *CardsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteCard(r.Context(), id); err != nil {
		respondServiceError(w, err, "failed to delete card")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// UploadError reports one file of an upload that was rejected.
type UploadError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// UploadResponse lists the cards created by an upload and the files that
// were rejected.
type UploadResponse struct {
	Created []CardResponse `json:"created"`
	Errors  []UploadError  `json:"errors"`
}

// readUpload reads one multipart file, rejecting it once it passes the
// per-file size limit.
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > constants.MaxImageFileSize {
		return nil, cards.ErrTooLarge
	}
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxImageFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	return data, nil
}

// Upload handles multipart image uploads. Each file is validated on its own;
// a rejected file is reported and does not stop the rest of the batch.
func (h *CardsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	response := UploadResponse{Created: []CardResponse{}, Errors: []UploadError{}}
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		card, err := h.createCard(r, name, fh)
		if err != nil {
			log.Printf("Upload of %s rejected: %v", sanitizeForLog(name), err)
			response.Errors = append(response.Errors, UploadError{File: name, Error: uploadMessage(err)})
			continue
		}
		response.Created = append(response.Created, cardToResponse(card))
	}

	status := http.StatusCreated
	if len(response.Created) == 0 {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, response)
}

func (h *CardsHandler) createCard(r *http.Request, name string, fh *multipart.FileHeader) (cards.Card, error) {
	data, err := readUpload(fh)
	if err != nil {
		return cards.Card{}, err
	}
	if err := cards.ValidateUpload(name, data); err != nil {
		return cards.Card{}, err
	}
	card, err := cards.NewCard(name, data)
	if err != nil {
		return cards.Card{}, err
	}
	if err := h.store.SaveCard(r.Context(), &card); err != nil {
		return cards.Card{}, fmt.Errorf("saving card: %w", err)
	}
	return card, nil
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, cards.ErrTooLarge):
		return cards.ErrTooLarge.Error()
	case errors.Is(err, cards.ErrNotImage):
		return cards.ErrNotImage.Error()
	case statusFor(err) == http.StatusInternalServerError:
		return "failed to save card"
	}
	return err.Error()
}

// BulkLabelsRequest carries one label per line.
type BulkLabelsRequest struct {
	Text string `json:"text"`
}

// BulkLabels assigns labels to the cards in collection order.
func (h *CardsHandler) BulkLabels(w http.ResponseWriter, r *http.Request) {
	var req BulkLabelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	list, err := h.store.ListCards(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to list cards")
		return
	}

	labelled := cards.ApplyBulkLabels(list, req.Text)
	updated := 0
	for i, c := range labelled {
		if c.Label == list[i].Label {
			continue
		}
		if _, err := h.store.UpdateLabel(r.Context(), c.ID, c.Label); err != nil {
			respondServiceError(w, err, "failed to update labels")
			return
		}
		updated++
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"updated": updated,
		"cards":   cardsToResponse(labelled),
	})
}

// ReorderRequest lists every card ID in the new order.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// Reorder moves cards to the given order.
func (h *CardsHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := h.store.ReorderCards(r.Context(), req.IDs); err != nil {
		respondServiceError(w, err, "failed to reorder cards")
		return
	}
	h.List(w, r)
}

// Image streams the image a card renders with. ?original=true returns the
// upload as received.
func (h *CardsHandler) Image(w http.ResponseWriter, r *http.Request) {
	card, err := h.store.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to get card")
		return
	}

	data := card.Image()
	if r.URL.Query().Get("original") == "true" {
		data = card.Original
	}
	writeImage(w, data)
}

// Preview returns the image shown in the crop editor.
func (h *CardsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	card, err := h.store.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to get card")
		return
	}

	data, err := crop.Preview(card.Image(), constants.PreviewMaxEdge)
	if err != nil {
		respondServiceError(w, err, "failed to build preview")
		return
	}
	writeImage(w, data)
}

func writeImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// CropRequest is a selection drawn over the preview, with the size the
// preview was displayed at.
type CropRequest struct {
	Selection crop.Selection `json:"selection"`
	Display   crop.Rect      `json:"display"`
}

// CropResponse reports whether the crop changed the card.
type CropResponse struct {
	Applied bool         `json:"applied"`
	Region  crop.Region  `json:"region"`
	Card    CardResponse `json:"card"`
}

// Crop cuts the selected region out of the card's current image. Selections
// below the minimum size leave the card unchanged.
func (h *CardsHandler) Crop(w http.ResponseWriter, r *http.Request) {
	var req CropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Display.W <= 0 || req.Display.H <= 0 {
		respondError(w, http.StatusBadRequest, "display size must be positive")
		return
	}

	id := chi.URLParam(r, "id")
	card, err := h.store.GetCard(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "failed to get card")
		return
	}

	result, err := crop.Crop(card.Image(), req.Selection, req.Display)
	if err != nil {
		respondServiceError(w, err, "failed to crop image")
		return
	}

	if result.Applied {
		card, err = h.store.UpdateCropped(r.Context(), id, result.PNG)
		if err != nil {
			respondServiceError(w, err, "failed to save crop")
			return
		}
	}

	respondJSON(w, http.StatusOK, CropResponse{
		Applied: result.Applied,
		Region:  result.Region,
		Card:    cardToResponse(*card),
	})
}
