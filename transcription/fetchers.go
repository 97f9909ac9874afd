package transcription

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nijaru/yt-summary/youtube"
	"github.com/pkg/errors"
)

// CaptionSource lists caption tracks and downloads their timed text.
type CaptionSource interface {
	ListTracks(ctx context.Context, videoID string) ([]youtube.CaptionTrack, error)
	Segments(ctx context.Context, track youtube.CaptionTrack, translateTo string) ([]youtube.Segment, error)
}

// PageSource downloads watch pages and resources linked from them.
type PageSource interface {
	Fetch(ctx context.Context, videoID string) (string, error)
	FetchURL(ctx context.Context, rawURL string) (string, error)
}

var (
	errNoCaptionTrack = errors.New("no caption track in page")
	errNoDescription  = errors.New("no description in page")
	errShortText      = errors.New("description too short to hold a transcript")
	errNoIndicator    = errors.New("no transcript indicator in description")
)

// APIFetcher asks the caption API for an English track, falling back to an
// English machine translation of the first translatable track.
type APIFetcher struct {
	captions CaptionSource
}

func NewAPIFetcher(captions CaptionSource) *APIFetcher {
	return &APIFetcher{captions: captions}
}

func (f *APIFetcher) Source() Source { return SourceAPI }

func (f *APIFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	tracks, err := f.captions.ListTracks(ctx, videoID)
	if err != nil {
		return "", err
	}

	if track, ok := youtube.FindTrack(tracks, []string{"en"}, false); ok {
		return segmentsText(ctx, f.captions, track, "")
	}

	track, ok := youtube.FirstTranslatable(tracks)
	if !ok {
		return "", youtube.ErrNoTranscript
	}
	return segmentsText(ctx, f.captions, track, "en")
}

var autoCaptionLanguages = []string{"en", "en-US", "a.en"}

// AutoCaptionsFetcher retries the caption API for auto-generated English.
type AutoCaptionsFetcher struct {
	captions CaptionSource
}

func NewAutoCaptionsFetcher(captions CaptionSource) *AutoCaptionsFetcher {
	return &AutoCaptionsFetcher{captions: captions}
}

func (f *AutoCaptionsFetcher) Source() Source { return SourceAutoCaptions }

func (f *AutoCaptionsFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	tracks, err := f.captions.ListTracks(ctx, videoID)
	if err != nil {
		return "", err
	}

	track, ok := youtube.FindTrack(tracks, autoCaptionLanguages, true)
	if !ok {
		return "", youtube.ErrNoTranscript
	}
	return segmentsText(ctx, f.captions, track, "")
}

func segmentsText(ctx context.Context, captions CaptionSource, track youtube.CaptionTrack, translateTo string) (string, error) {
	segments, err := captions.Segments(ctx, track, translateTo)
	if err != nil {
		return "", errors.Wrapf(err, "segments for %s", track.LanguageCode)
	}
	return youtube.JoinSegments(segments), nil
}

// TimedTextFetcher scrapes the first caption track URL out of the watch page.
type TimedTextFetcher struct {
	pages PageSource
}

func NewTimedTextFetcher(pages PageSource) *TimedTextFetcher {
	return &TimedTextFetcher{pages: pages}
}

func (f *TimedTextFetcher) Source() Source { return SourceTimedText }

func (f *TimedTextFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := f.pages.Fetch(ctx, videoID)
	if err != nil {
		return "", err
	}

	trackURL, ok := youtube.CaptionTrackURL(page)
	if !ok {
		return "", errNoCaptionTrack
	}

	body, err := f.pages.FetchURL(ctx, trackURL)
	if err != nil {
		return "", errors.Wrap(err, "caption track")
	}
	return youtube.CaptionText(body), nil
}

const minDescriptionLength = 200

// Checked in this order; the first one present wins, wherever it occurs.
var transcriptIndicators = []string{
	"transcript:",
	"transcript",
	"lecture notes:",
	"lecture transcript:",
	"video transcript:",
	"full text:",
	"text version:",
}

// DescriptionFetcher looks for a transcript pasted into the video description.
type DescriptionFetcher struct {
	pages      PageSource
	indicators []*regexp.Regexp
}

func NewDescriptionFetcher(pages PageSource) *DescriptionFetcher {
	indicators := make([]*regexp.Regexp, len(transcriptIndicators))
	for i, phrase := range transcriptIndicators {
		indicators[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
	}
	return &DescriptionFetcher{pages: pages, indicators: indicators}
}

func (f *DescriptionFetcher) Source() Source { return SourceDescription }

func (f *DescriptionFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := f.pages.Fetch(ctx, videoID)
	if err != nil {
		return "", err
	}

	description, ok := youtube.Description(page)
	if !ok {
		return "", errNoDescription
	}
	return f.transcriptFrom(description)
}

func (f *DescriptionFetcher) transcriptFrom(description string) (string, error) {
	if utf8.RuneCountInString(description) < minDescriptionLength {
		return "", errShortText
	}
	for _, re := range f.indicators {
		if loc := re.FindStringIndex(description); loc != nil {
			return strings.TrimSpace(description[loc[1]:]), nil
		}
	}
	return "", errNoIndicator
}

const (
	unknownTitle   = "Unknown Title"
	unknownChannel = "Unknown Channel"

	// NoTranscriptLeadIn starts every fallback notice.
	NoTranscriptLeadIn = "[No transcript available for this video"
)

// FallbackNotice builds the "no transcript" message from the page's title
// and channel. It never fails: missing metadata becomes a placeholder.
type FallbackNotice struct {
	pages PageSource
}

func NewFallbackNotice(pages PageSource) *FallbackNotice {
	return &FallbackNotice{pages: pages}
}

func (n *FallbackNotice) Notice(ctx context.Context, videoID string) string {
	title, channel := unknownTitle, unknownChannel

	if page, err := n.pages.Fetch(ctx, videoID); err == nil {
		if t, ok := youtube.Title(page); ok {
			title = t
		}
		if c, ok := youtube.Channel(page); ok {
			channel = c
		}
	}
	return FormatNotice(title, channel)
}

func FormatNotice(title, channel string) string {
	return fmt.Sprintf("%s: \"%s\" by %s]\n\n"+
		"This video does not have captions or a transcript available. "+
		"To get a proper summary, please try a different video with captions enabled.",
		NoTranscriptLeadIn, title, channel)
}

// IsNotice reports whether text is a fallback notice rather than a transcript.
func IsNotice(text string) bool {
	return strings.HasPrefix(text, NoTranscriptLeadIn)
}
