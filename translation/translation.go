package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/nijaru/yt-summary/httpclient"
	"github.com/nijaru/yt-summary/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const DefaultEndpoint = "https://libretranslate.com/translate"

// Translator never fails: when translation is impossible it returns the
// input text.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

// LibreTranslate calls a LibreTranslate compatible /translate endpoint.
type LibreTranslate struct {
	client     httpclient.Doer
	endpoint   string
	apiKey     string
	sourceLang string
	logger     *logrus.Logger
	counters   *metrics.Counters
}

type Option func(*LibreTranslate)

func WithAPIKey(key string) Option {
	return func(t *LibreTranslate) {
		t.apiKey = key
	}
}

func WithSourceLang(lang string) Option {
	return func(t *LibreTranslate) {
		if lang != "" {
			t.sourceLang = lang
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(t *LibreTranslate) {
		t.logger = logger
	}
}

func WithCounters(counters *metrics.Counters) Option {
	return func(t *LibreTranslate) {
		t.counters = counters
	}
}

func NewLibreTranslate(client httpclient.Doer, endpoint string, opts ...Option) *LibreTranslate {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	t := &LibreTranslate{
		client:     client,
		endpoint:   endpoint,
		sourceLang: "en",
		logger:     logrus.StandardLogger(),
		counters:   metrics.Default,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText *string `json:"translatedText"`
	Error          string  `json:"error"`
}

func (t *LibreTranslate) Translate(ctx context.Context, text, targetLang string) string {
	if text == "" || targetLang == "" || targetLang == t.sourceLang {
		return text
	}

	t.counters.Incr("translate_requests")
	translated, err := t.translate(ctx, text, targetLang)
	if err != nil {
		t.counters.Incr("translate_errors")
		t.logger.WithError(err).WithFields(logrus.Fields{
			"target_lang": targetLang,
			"length":      len(text),
		}).Warn("Translation failed, returning original text")
		return text
	}
	return translated
}

func (t *LibreTranslate) translate(ctx context.Context, text, targetLang string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: t.sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "translate request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	if out.TranslatedText == nil {
		return "", errors.Errorf("response has no translatedText: %s", out.Error)
	}
	return *out.TranslatedText, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
