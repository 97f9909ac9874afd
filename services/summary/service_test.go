package summary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/metrics"
	"github.com/nijaru/yt-summary/summarizer"
	"github.com/nijaru/yt-summary/transcription"
	"github.com/sirupsen/logrus"
)

type stubFetcher struct {
	source  transcription.Source
	text    string
	err     error
	videoID string
}

func (s *stubFetcher) Source() transcription.Source { return s.source }

func (s *stubFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	s.videoID = videoID
	return s.text, s.err
}

type stubNotice struct{}

func (stubNotice) Notice(ctx context.Context, videoID string) string {
	return transcription.FormatNotice("Unknown Title", "Unknown Channel")
}

type recordingTranslator struct {
	calls []string
}

func (r *recordingTranslator) Translate(ctx context.Context, text, targetLang string) string {
	r.calls = append(r.calls, targetLang)
	if targetLang == "" || targetLang == "en" {
		return text
	}
	return "[" + targetLang + "] " + text
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T, fetchers ...transcription.Fetcher) (Service, *recordingTranslator, summarizer.SentenceTokenizer) {
	t.Helper()
	tokenizer, err := summarizer.NewPunktTokenizer()
	if err != nil {
		t.Fatalf("NewPunktTokenizer() error = %v", err)
	}
	cascade := transcription.NewCascade(fetchers, stubNotice{},
		transcription.WithLogger(quietLogger()),
		transcription.WithCounters(metrics.New()),
	)
	translator := &recordingTranslator{}
	sum := summarizer.New(tokenizer, summarizer.EnglishStopWords(), summarizer.WithLogger(quietLogger()))

	svc := NewService(cascade, sum, translator).(*service)
	svc.logger = quietLogger()
	return svc, translator, tokenizer
}

func fifteenSentences() []string {
	out := make([]string, 15)
	for i := range out {
		out[i] = fmt.Sprintf("Lecture part %d explains recursion with a fresh example.", i+1)
	}
	return out
}

func TestSummarize_EndToEnd(t *testing.T) {
	sentences := fifteenSentences()
	api := &stubFetcher{source: transcription.SourceAPI, text: strings.Join(sentences, " ")}
	svc, translator, tokenizer := newTestService(t, api)

	got, err := svc.Summarize(context.Background(), "https://www.youtube.com/watch?v=ABC123", "en")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if api.videoID != "ABC123" {
		t.Errorf("expected fetcher to receive ABC123, got %q", api.videoID)
	}
	if got.VideoID != "ABC123" || got.Source != string(transcription.SourceAPI) || got.Mode != "transcript" {
		t.Errorf("unexpected summary metadata %+v", got)
	}

	picked := tokenizer.Sentences(got.Summary)
	if len(picked) != 10 {
		t.Fatalf("expected 10 sentences, got %d: %q", len(picked), got.Summary)
	}
	last := -1
	for _, p := range picked {
		if p == "" {
			t.Fatal("empty sentence in summary")
		}
		idx := -1
		for i, s := range sentences {
			if s == p {
				idx = i
			}
		}
		if idx <= last {
			t.Errorf("sentence %q missing or out of order", p)
		}
		last = idx
	}

	if got.TranslatedSummary != got.Summary {
		t.Error("expected english target to leave the summary untranslated")
	}
	if len(translator.calls) != 1 || translator.calls[0] != "en" {
		t.Errorf("unexpected translator calls %v", translator.calls)
	}
}

func TestSummarize_Translated(t *testing.T) {
	api := &stubFetcher{source: transcription.SourceAPI, text: "Short transcript. Only two sentences."}
	svc, _, _ := newTestService(t, api)

	got, err := svc.Summarize(context.Background(), "https://youtu.be/ABC123?t=3", "fr")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Summary != "Short transcript. Only two sentences." {
		t.Errorf("expected short transcript unchanged, got %q", got.Summary)
	}
	if got.TranslatedSummary != "[fr] Short transcript. Only two sentences." {
		t.Errorf("unexpected translation %q", got.TranslatedSummary)
	}
}

func TestSummarize_InvalidURL(t *testing.T) {
	api := &stubFetcher{source: transcription.SourceAPI, text: "never used"}
	svc, _, _ := newTestService(t, api)

	_, err := svc.Summarize(context.Background(), "https://example.com/watch", "en")
	appErr, ok := errors.As(err)
	if !ok || appErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
	if api.videoID != "" {
		t.Error("fetcher should not run for an invalid URL")
	}
}

func TestSummarize_NoTranscript(t *testing.T) {
	api := &stubFetcher{source: transcription.SourceAPI, err: fmt.Errorf("captions disabled")}
	svc, translator, _ := newTestService(t, api)

	_, err := svc.Summarize(context.Background(), "https://www.youtube.com/watch?v=ABC123", "de")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	appErr, _ := errors.As(err)
	if !transcription.IsNotice(appErr.Message) {
		t.Errorf("expected fallback notice as message, got %q", appErr.Message)
	}
	if len(translator.calls) != 0 {
		t.Error("translator should not run without a transcript")
	}
}

func TestTranscript(t *testing.T) {
	api := &stubFetcher{source: transcription.SourceAPI, err: fmt.Errorf("no tracks")}
	desc := &stubFetcher{source: transcription.SourceDescription, text: "From the description."}
	svc, _, _ := newTestService(t, api, desc)

	got := svc.Transcript(context.Background(), "XYZ")
	if !got.Available || got.Source != "description" || got.Text != "From the description." || got.VideoID != "XYZ" {
		t.Errorf("unexpected transcript %+v", got)
	}
}
