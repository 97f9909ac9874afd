package summary

import (
	"context"

	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/transcription"
)

type Service interface {
	Summarize(ctx context.Context, rawURL, targetLang string) (*models.Summary, error)
	Transcript(ctx context.Context, videoID string) *models.Transcript
	Translate(ctx context.Context, text, targetLang string) string
}

// Transcriber is satisfied by *transcription.Cascade.
type Transcriber interface {
	Transcript(ctx context.Context, rawURL string) (transcription.Result, error)
	TranscriptForID(ctx context.Context, videoID string) transcription.Result
}

type Summarizer interface {
	Summarize(text string) string
}

type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}
