package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nijaru/yt-summary/httpclient"
	"github.com/pkg/errors"
)

const (
	androidVersion   = "20.10.38"
	androidUserAgent = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"
	maxTimedTextSize = 2 * 1024 * 1024
)

var (
	ErrCaptionsDisabled = errors.New("captions are disabled for this video")
	ErrNoTranscript     = errors.New("no transcript in the requested languages")
	ErrNotTranslatable  = errors.New("caption track cannot be translated")
)

// CaptionTrack is one entry of the player's caption track listing.
type CaptionTrack struct {
	BaseURL        string `json:"baseUrl"`
	LanguageCode   string `json:"languageCode"`
	Kind           string `json:"kind"`
	VssID          string `json:"vssId"`
	IsTranslatable bool   `json:"isTranslatable"`
}

// Generated reports whether the track is automatic speech recognition output.
func (t CaptionTrack) Generated() bool {
	return t.Kind == "asr"
}

func (t CaptionTrack) matches(lang string) bool {
	return t.LanguageCode == lang || t.VssID == lang
}

type Segment struct {
	Text     string
	Start    float64
	Duration float64
}

// JoinSegments concatenates segment texts in order, one per line.
func JoinSegments(segments []Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Text != "" {
			lines = append(lines, s.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// FindTrack returns the first track matching langs in priority order. For
// each language a manually created track wins over a generated one, unless
// preferGenerated is set. Tracks that need a proof-of-origin token are skipped.
func FindTrack(tracks []CaptionTrack, langs []string, preferGenerated bool) (CaptionTrack, bool) {
	for _, lang := range langs {
		var manual, generated *CaptionTrack
		for i := range tracks {
			t := &tracks[i]
			if !t.matches(lang) || needsPoToken(t.BaseURL) {
				continue
			}
			if t.Generated() && generated == nil {
				generated = t
			} else if !t.Generated() && manual == nil {
				manual = t
			}
		}
		first, second := manual, generated
		if preferGenerated {
			first, second = generated, manual
		}
		if first != nil {
			return *first, true
		}
		if second != nil {
			return *second, true
		}
	}
	return CaptionTrack{}, false
}

// FirstTranslatable returns the first listed track YouTube can translate.
func FirstTranslatable(tracks []CaptionTrack) (CaptionTrack, bool) {
	for _, t := range tracks {
		if t.IsTranslatable && !needsPoToken(t.BaseURL) {
			return t, true
		}
	}
	return CaptionTrack{}, false
}

func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// CaptionClient talks to the innertube player endpoint as the Android app.
type CaptionClient struct {
	client    httpclient.Doer
	playerURL string
}

func NewCaptionClient(client httpclient.Doer, playerURL string) *CaptionClient {
	return &CaptionClient{
		client:    client,
		playerURL: playerURL,
	}
}

type playerRequest struct {
	VideoID        string        `json:"videoId"`
	Context        playerContext `json:"context"`
	RacyCheckOk    bool          `json:"racyCheckOk"`
	ContentCheckOk bool          `json:"contentCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// ListTracks returns the caption tracks in the order the player lists them.
func (c *CaptionClient) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	payload, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: playerContext{
			Client: playerClient{
				ClientName:        "ANDROID",
				ClientVersion:     androidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode player request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL+"?prettyPrint=false", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build player request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", androidVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "player request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("player request: status %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&player); err != nil {
		return nil, errors.Wrap(err, "decode player response")
	}

	if player.Captions == nil {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			return nil, errors.Wrap(ErrCaptionsDisabled, player.PlayabilityStatus.Reason)
		}
		return nil, ErrCaptionsDisabled
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrCaptionsDisabled
	}
	return tracks, nil
}

// timedText covers both the classic <transcript><text> format and srv3
// <timedtext><body><p>.
type timedText struct {
	Lines      []timedTextLine `xml:"text"`
	Paragraphs []timedTextPara `xml:"body>p"`
}

type timedTextLine struct {
	Start    string `xml:"start,attr"`
	Duration string `xml:"dur,attr"`
	Text     string `xml:",chardata"`
}

type timedTextPara struct {
	StartMs    string   `xml:"t,attr"`
	DurationMs string   `xml:"d,attr"`
	Text       string   `xml:",chardata"`
	Spans      []string `xml:"s"`
}

// Segments downloads the timed text of track. A non-empty translateTo asks
// YouTube to machine-translate the track.
func (c *CaptionClient) Segments(ctx context.Context, track CaptionTrack, translateTo string) ([]Segment, error) {
	trackURL := track.BaseURL
	if translateTo != "" {
		if !track.IsTranslatable {
			return nil, ErrNotTranslatable
		}
		trackURL += "&tlang=" + url.QueryEscape(translateTo)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build timedtext request")
	}
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "timedtext request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("timedtext request: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextSize))
	if err != nil {
		return nil, errors.Wrap(err, "read timedtext")
	}
	return ParseTimedText(body)
}

// ParseTimedText decodes a timed-text document into segments.
func ParseTimedText(body []byte) ([]Segment, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, errors.Wrap(err, "parse timedtext")
	}

	segments := make([]Segment, 0, len(tt.Lines)+len(tt.Paragraphs))
	for _, l := range tt.Lines {
		segments = append(segments, Segment{
			Text:     cleanCaption(l.Text),
			Start:    parseFloat(l.Start),
			Duration: parseFloat(l.Duration),
		})
	}
	for _, p := range tt.Paragraphs {
		text := p.Text
		if len(p.Spans) > 0 {
			text = strings.Join(p.Spans, "")
		}
		segments = append(segments, Segment{
			Text:     cleanCaption(text),
			Start:    parseFloat(p.StartMs) / 1000,
			Duration: parseFloat(p.DurationMs) / 1000,
		})
	}
	return segments, nil
}

// Caption bodies arrive entity-escaped a second time inside the XML.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
