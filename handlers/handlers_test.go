package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/metrics"
	"github.com/nijaru/yt-summary/models"
	"github.com/sirupsen/logrus"
)

type stubService struct {
	summary    *models.Summary
	err        error
	transcript *models.Transcript

	gotURL  string
	gotLang string
	gotText string
}

func (s *stubService) Summarize(ctx context.Context, rawURL, targetLang string) (*models.Summary, error) {
	s.gotURL, s.gotLang = rawURL, targetLang
	return s.summary, s.err
}

func (s *stubService) Transcript(ctx context.Context, videoID string) *models.Transcript {
	return s.transcript
}

func (s *stubService) Translate(ctx context.Context, text, targetLang string) string {
	s.gotText, s.gotLang = text, targetLang
	if targetLang == "" || targetLang == "en" {
		return text
	}
	return "[" + targetLang + "] " + text
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:     "0",
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		IdleTimeout:    time.Second,
		RequestTimeout: 5 * time.Second,
		Version:        "test",
		CORS: config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
	}
}

func newTestServer(svc *stubService) (*Server, *metrics.Counters) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	counters := metrics.New()
	return NewServer(testConfig(), svc, WithLogger(logger), WithCounters(counters)), counters
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHandleSummarize(t *testing.T) {
	svc := &stubService{summary: &models.Summary{
		VideoID:           "ABC123",
		Source:            "api",
		Summary:           "Short summary.",
		TranslatedSummary: "Résumé court.",
		Mode:              models.ModeTranscript,
	}}
	srv, _ := newTestServer(svc)

	rec := do(t, srv.Routes(), http.MethodPost, "/summarize",
		`{"youtube_url":" https://youtu.be/ABC123 ","target_lang":"fr"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["summary"] != "Short summary." || body["translated_summary"] != "Résumé court." {
		t.Errorf("unexpected body %v", body)
	}
	if body["mode"] != "transcript" || body["source"] != "api" {
		t.Errorf("unexpected mode/source in %v", body)
	}
	if svc.gotURL != "https://youtu.be/ABC123" || svc.gotLang != "fr" {
		t.Errorf("service got url=%q lang=%q", svc.gotURL, svc.gotLang)
	}
}

func TestHandleSummarize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing url",
			body:     `{"target_lang":"fr"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "YouTube URL is required",
		},
		{
			name:     "malformed json",
			body:     `{"youtube_url":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid JSON format",
		},
		{
			name:     "bad language",
			body:     `{"youtube_url":"https://youtu.be/x","target_lang":"not a language"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unparseable video",
			body:     `{"youtube_url":"https://example.com/"}`,
			svcErr:   errors.InvalidInput("test", nil, "Invalid YouTube URL"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid YouTube URL",
		},
		{
			name:     "no transcript",
			body:     `{"youtube_url":"https://youtu.be/x"}`,
			svcErr:   errors.NotFound("test", nil, "[No transcript available for this video: \"T\" by C]"),
			wantCode: http.StatusNotFound,
			wantMsg:  "[No transcript available for this video: \"T\" by C]",
		},
		{
			name:     "unexpected failure",
			body:     `{"youtube_url":"https://youtu.be/x"}`,
			svcErr:   io.ErrUnexpectedEOF,
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(&stubService{err: tt.svcErr})
			rec := do(t, srv.Routes(), http.MethodPost, "/summarize", tt.body)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			body := decode(t, rec)
			if _, ok := body["error"]; !ok {
				t.Fatalf("expected error field in %v", body)
			}
			if tt.wantMsg != "" && body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestHandleSummarize_RequiresJSON(t *testing.T) {
	srv, _ := newTestServer(&stubService{})
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader("youtube_url=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleTranslate(t *testing.T) {
	svc := &stubService{}
	srv, _ := newTestServer(svc)

	rec := do(t, srv.Routes(), http.MethodPost, "/translate", `{"text":"Hello there.","target_lang":"de"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["translated_text"]; got != "[de] Hello there." {
		t.Errorf("translated_text = %q", got)
	}

	rec = do(t, srv.Routes(), http.MethodPost, "/translate", `{"text":"","target_lang":"de"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty text, got %d", rec.Code)
	}
}

func TestHandleGetTranscript(t *testing.T) {
	tests := []struct {
		name       string
		transcript *models.Transcript
		wantText   string
		wantError  bool
	}{
		{
			name:       "found",
			transcript: &models.Transcript{VideoID: "ABC123", Text: "hello world", Source: "api", Available: true},
			wantText:   "hello world",
		},
		{
			name:       "fallback",
			transcript: &models.Transcript{VideoID: "ABC123", Text: "[No transcript available for this video: \"T\" by C]", Source: "fallback"},
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(&stubService{transcript: tt.transcript})
			rec := do(t, srv.Routes(), http.MethodGet, "/get_transcript?video_id=ABC123", "")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			body := decode(t, rec)
			if tt.wantError {
				if body["error"] != tt.transcript.Text {
					t.Errorf("error = %v, want notice", body["error"])
				}
				if body["transcript"] != "" {
					t.Errorf("transcript should be empty, got %v", body["transcript"])
				}
				return
			}
			if body["transcript"] != tt.wantText || body["error"] != nil {
				t.Errorf("unexpected body %v", body)
			}
		})
	}
}

func TestHandleGetTranscript_MissingID(t *testing.T) {
	srv, _ := newTestServer(&stubService{})
	rec := do(t, srv.Routes(), http.MethodGet, "/get_transcript", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, counters := newTestServer(&stubService{})
	counters.Incr("transcript_requests")

	rec := do(t, srv.Routes(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("unexpected health body %v", body)
	}

	rec = do(t, srv.Routes(), http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), "transcript_requests 1") {
		t.Errorf("metrics missing counter: %q", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(&stubService{})
	rec := do(t, srv.Routes(), http.MethodGet, "/summarize", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
