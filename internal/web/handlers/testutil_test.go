package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/database/memory"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Render: config.RenderConfig{
			Renderer:    "raster",
			Concurrency: 2,
		},
		Styles: config.StylesConfig{
			Defaults: config.StyleDefaults{
				BorderColor: "#2D5A27",
				FontFamily:  "Comic Sans MS",
			},
			Palette: []config.Swatch{
				{Name: "forest", Value: "#2D5A27"},
				{Name: "sky", Value: "#2B6CB0"},
			},
			Fonts: []config.FontFamily{
				{Family: "Comic Sans MS", File: "comicbd.ttf"},
				{Family: "Arial", File: "arialbd.ttf"},
			},
		},
	}
}

// pngBytes encodes a solid image of the given size
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// seedStore creates a memory store holding one 40x30 card per file name
func seedStore(t *testing.T, names ...string) (*memory.Store, []cards.Card) {
	t.Helper()
	store := memory.New()
	var seeded []cards.Card
	for _, name := range names {
		card, err := cards.NewCard(name, pngBytes(t, 40, 30))
		if err != nil {
			t.Fatalf("failed to create card %s: %v", name, err)
		}
		if err := store.SaveCard(context.Background(), &card); err != nil {
			t.Fatalf("failed to save card %s: %v", name, err)
		}
		seeded = append(seeded, card)
	}
	return store, seeded
}

// jsonRequest creates a request with a JSON body
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}

// decodeImage decodes a response body as an image
func decodeImage(t *testing.T, body io.Reader) image.Image {
	t.Helper()
	img, _, err := image.Decode(body)
	if err != nil {
		t.Fatalf("failed to decode image: %v", err)
	}
	return img
}
