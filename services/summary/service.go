package summary

import (
	"context"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/youtube"
	"github.com/sirupsen/logrus"
)

type service struct {
	transcripts Transcriber
	summarizer  Summarizer
	translator  Translator
	logger      *logrus.Logger
}

// NewService wires the transcript cascade, summarizer and translator into
// the URL to summary pipeline.
func NewService(transcripts Transcriber, summarizer Summarizer, translator Translator) Service {
	return &service{
		transcripts: transcripts,
		summarizer:  summarizer,
		translator:  translator,
		logger:      logrus.StandardLogger(),
	}
}

func (s *service) Summarize(ctx context.Context, rawURL, targetLang string) (*models.Summary, error) {
	const op = "SummaryService.Summarize"
	logger := s.logger.WithContext(ctx).WithField("url", rawURL)

	result, err := s.transcripts.Transcript(ctx, rawURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid video URL")
		return nil, errors.InvalidInput(op, err, "Invalid YouTube URL")
	}
	videoID, _ := youtube.ExtractVideoID(rawURL)

	logger = logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"source":   result.Source,
	})
	if !result.Available {
		logger.Info("No transcript available")
		return nil, errors.NotFound(op, nil, result.Text)
	}

	summary := s.summarizer.Summarize(result.Text)
	translated := s.translator.Translate(ctx, summary, targetLang)

	logger.WithFields(logrus.Fields{
		"transcript_length": len(result.Text),
		"summary_length":    len(summary),
		"target_lang":       targetLang,
	}).Info("Summary created")

	return &models.Summary{
		VideoID:           videoID,
		Source:            string(result.Source),
		Summary:           summary,
		TranslatedSummary: translated,
		TargetLang:        targetLang,
		Mode:              models.ModeTranscript,
	}, nil
}

func (s *service) Transcript(ctx context.Context, videoID string) *models.Transcript {
	result := s.transcripts.TranscriptForID(ctx, videoID)
	return &models.Transcript{
		VideoID:   videoID,
		Text:      result.Text,
		Source:    string(result.Source),
		Available: result.Available,
	}
}

func (s *service) Translate(ctx context.Context, text, targetLang string) string {
	return s.translator.Translate(ctx, text, targetLang)
}
