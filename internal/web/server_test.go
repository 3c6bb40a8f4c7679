package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/database/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Render: config.RenderConfig{Renderer: "raster", Concurrency: 1},
		Web:    config.WebConfig{AllowedOrigins: []string{"https://cards.example.com"}},
	}
	return NewServer(cfg, memory.New(), canvas.NewRaster(nil), 0, "127.0.0.1")
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	s.Router().ServeHTTP(recorder, req)
	return recorder
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	recorder := serve(s, httptest.NewRequest("GET", "/api/v1/health", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if recorder.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on every response")
	}
}

func TestServer_NotFound(t *testing.T) {
	s := newTestServer(t)

	recorder := serve(s, httptest.NewRequest("GET", "/api/v1/albums", nil))

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", recorder.Code)
	}
	if recorder.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON 404, got %s", recorder.Header().Get("Content-Type"))
	}
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/config", nil)
	req.Header.Set("Origin", "https://cards.example.com")
	recorder := serve(s, req)

	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "https://cards.example.com" {
		t.Errorf("expected configured origin to be allowed, got %q", got)
	}
}

func TestServer_CardLifecycle(t *testing.T) {
	s := newTestServer(t)

	// Upload one image.
	var img bytes.Buffer
	png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 60, 40)))
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("files", "giraffe.png")
	part.Write(img.Bytes())
	writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/cards", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := serve(s, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var uploaded struct {
		Created []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"created"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("upload: invalid JSON: %v", err)
	}
	if len(uploaded.Created) != 1 || uploaded.Created[0].Label != "giraffe" {
		t.Fatalf("upload: unexpected response %s", recorder.Body.String())
	}
	id := uploaded.Created[0].ID

	steps := []struct {
		name        string
		method      string
		path        string
		body        string
		status      int
		contentType string
	}{
		{"relabel", "PUT", "/api/v1/cards/" + id, `{"label":"tall giraffe"}`, http.StatusOK, "application/json"},
		{"crop", "POST", "/api/v1/cards/" + id + "/crop",
			`{"selection":{"start_x":0,"start_y":0,"end_x":30,"end_y":20},"display":{"width":60,"height":40}}`,
			http.StatusOK, "application/json"},
		{"image", "GET", "/api/v1/cards/" + id + "/image", "", http.StatusOK, "image/png"},
		{"preview", "GET", "/api/v1/cards/" + id + "/preview", "", http.StatusOK, "image/png"},
		{"render", "GET", "/api/v1/cards/" + id + "/render/control", "", http.StatusOK, "image/png"},
		{"bundle", "GET", "/api/v1/bundle", "", http.StatusOK, "application/zip"},
		{"print", "GET", "/api/v1/print?format=report", "", http.StatusOK, "application/json"},
		{"reorder", "PUT", "/api/v1/cards/reorder", `{"ids":["` + id + `"]}`, http.StatusOK, "application/json"},
		{"labels", "POST", "/api/v1/cards/labels", `{"text":"zebra"}`, http.StatusOK, "application/json"},
		{"delete", "DELETE", "/api/v1/cards/" + id, "", http.StatusOK, "application/json"},
		{"gone", "GET", "/api/v1/cards/" + id, "", http.StatusNotFound, "application/json"},
	}

	for _, step := range steps {
		req := httptest.NewRequest(step.method, step.path, bytes.NewBufferString(step.body))
		recorder := serve(s, req)
		if recorder.Code != step.status {
			t.Fatalf("%s: expected %d, got %d: %s", step.name, step.status, recorder.Code, recorder.Body.String())
		}
		if ct := recorder.Header().Get("Content-Type"); ct != step.contentType {
			t.Errorf("%s: expected Content-Type %s, got %s", step.name, step.contentType, ct)
		}
	}
}
