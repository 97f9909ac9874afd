package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nijaru/yt-summary/metrics"
	"github.com/sirupsen/logrus"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestTranslate_NoOp(t *testing.T) {
	calls := 0
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return nil, fmt.Errorf("should not be called")
	})}
	tr := NewLibreTranslate(client, "http://translate.local/translate", WithLogger(quietLogger()), WithCounters(metrics.New()))

	if got := tr.Translate(context.Background(), "Hello there.", "en"); got != "Hello there." {
		t.Errorf("Translate(en) = %q", got)
	}
	if got := tr.Translate(context.Background(), "", "fr"); got != "" {
		t.Errorf("Translate(empty) = %q", got)
	}
	if got := tr.Translate(context.Background(), "Hello", ""); got != "Hello" {
		t.Errorf("Translate(no target) = %q", got)
	}
	if calls != 0 {
		t.Errorf("expected no upstream calls, got %d", calls)
	}
}

func TestTranslate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Source != "en" || req.Target != "fr" || req.Format != "text" || req.APIKey != "secret" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"translatedText": "Bonjour " + req.Q})
	}))
	defer srv.Close()

	tr := NewLibreTranslate(srv.Client(), srv.URL, WithAPIKey("secret"), WithLogger(quietLogger()), WithCounters(metrics.New()))
	if got := tr.Translate(context.Background(), "world", "fr"); got != "Bonjour world" {
		t.Errorf("Translate() = %q, want %q", got, "Bonjour world")
	}
}

func TestTranslate_Degrades(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"busy"}`, http.StatusInternalServerError)
			},
		},
		{
			name: "missing field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"error":"Invalid API key"}`)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>oops`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			counters := metrics.New()
			tr := NewLibreTranslate(srv.Client(), srv.URL, WithLogger(quietLogger()), WithCounters(counters))
			if got := tr.Translate(context.Background(), "original text", "de"); got != "original text" {
				t.Errorf("Translate() = %q, want original text", got)
			}
			if counters.Get("translate_errors") != 1 {
				t.Error("expected translate error to be counted")
			}
		})
	}
}

func TestTranslate_TransportError(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	})}
	tr := NewLibreTranslate(client, "", WithLogger(quietLogger()), WithCounters(metrics.New()))

	if tr.endpoint != DefaultEndpoint {
		t.Errorf("expected default endpoint, got %s", tr.endpoint)
	}
	if got := tr.Translate(context.Background(), "keep me", "es"); got != "keep me" {
		t.Errorf("Translate() = %q", got)
	}
}
