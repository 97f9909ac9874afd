package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nijaru/yt-summary/metrics"
	"github.com/nijaru/yt-summary/youtube"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrInvalidVideoURL is the only error Transcript returns.
var ErrInvalidVideoURL = youtube.ErrNoVideoID

type Source string

const (
	SourceAPI          Source = "api"
	SourceTimedText    Source = "timedtext"
	SourceAutoCaptions Source = "auto_captions"
	SourceDescription  Source = "description"
	SourceFallback     Source = "fallback"
)

// Result is the outcome of a cascade run. Available is false only when
// Source is SourceFallback, in which case Text is the notice shown to users.
type Result struct {
	Text      string
	Source    Source
	Available bool
}

// Fetcher is one way of obtaining transcript text. An error or blank text
// means this source has nothing; the cascade moves on.
type Fetcher interface {
	Source() Source
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Notice produces the terminal message when every fetcher came up empty.
type Notice interface {
	Notice(ctx context.Context, videoID string) string
}

type Cascade struct {
	fetchers []Fetcher
	fallback Notice
	logger   *logrus.Logger
	counters *metrics.Counters
}

type Option func(*Cascade)

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Cascade) {
		c.logger = logger
	}
}

func WithCounters(counters *metrics.Counters) Option {
	return func(c *Cascade) {
		c.counters = counters
	}
}

func NewCascade(fetchers []Fetcher, fallback Notice, opts ...Option) *Cascade {
	c := &Cascade{
		fetchers: fetchers,
		fallback: fallback,
		logger:   logrus.StandardLogger(),
		counters: metrics.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefaultCascade wires the standard source order: caption API, scraped
// caption track, auto-generated captions, description, then the notice.
func NewDefaultCascade(captions CaptionSource, pages PageSource, opts ...Option) *Cascade {
	return NewCascade([]Fetcher{
		NewAPIFetcher(captions),
		NewTimedTextFetcher(pages),
		NewAutoCaptionsFetcher(captions),
		NewDescriptionFetcher(pages),
	}, NewFallbackNotice(pages), opts...)
}

// Transcript resolves rawURL to a video id and runs the cascade for it.
func (c *Cascade) Transcript(ctx context.Context, rawURL string) (Result, error) {
	ref, err := youtube.ParseReference(rawURL)
	if err != nil {
		c.logger.WithField("url", rawURL).Warn("Could not parse video id")
		return Result{}, err
	}
	return c.TranscriptForID(ctx, ref.VideoID), nil
}

func (c *Cascade) TranscriptForID(ctx context.Context, videoID string) Result {
	c.counters.Incr("transcript_requests")

	for _, f := range c.fetchers {
		src := f.Source()
		entry := c.logger.WithFields(logrus.Fields{
			"video_id": videoID,
			"source":   src,
		})

		c.counters.Incr(counterName(src, "attempts"))
		start := time.Now()
		text, err := c.attempt(ctx, f, videoID)
		if err != nil {
			entry.WithError(err).WithField("duration", time.Since(start)).Warn("Transcript source failed")
			continue
		}
		if strings.TrimSpace(text) == "" {
			entry.WithField("duration", time.Since(start)).Warn("Transcript source returned no text")
			continue
		}

		c.counters.Incr(counterName(src, "hits"))
		entry.WithFields(logrus.Fields{
			"duration": time.Since(start),
			"length":   len(text),
		}).Info("Transcript found")
		return Result{Text: text, Source: src, Available: true}
	}

	c.counters.Incr("transcript_fallbacks")
	c.logger.WithField("video_id", videoID).Info("No transcript source succeeded, using fallback notice")
	return Result{
		Text:      c.fallback.Notice(ctx, videoID),
		Source:    SourceFallback,
		Available: false,
	}
}

// attempt runs one fetcher, turning a panic into an ordinary failure.
func (c *Cascade) attempt(ctx context.Context, f Fetcher, videoID string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("fetcher panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "skipped")
	}
	return f.Fetch(ctx, videoID)
}

func counterName(src Source, what string) string {
	return fmt.Sprintf("source_%s_%s", src, what)
}
