package youtube

import (
	"html"
	"regexp"
	"strings"
)

// Patterns over the raw watch page and timed-text bodies. YouTube does not
// version this markup; when it drifts, only this file should need to change.
var (
	captionTracksRE = regexp.MustCompile(`"captionTracks":\[(.+?)\]`)
	baseURLRE       = regexp.MustCompile(`"baseUrl":"(.+?)"`)
	captionTextRE   = regexp.MustCompile(`<text[^>]*>([^<]+)</text>`)
	descriptionRE   = regexp.MustCompile(`"description":\{"simpleText":"(.+?)"\}`)
	titleRE         = regexp.MustCompile(`"title":"(.+?)"`)
	channelRE       = regexp.MustCompile(`"ownerChannelName":"(.+?)"`)
)

// CaptionTrackURL returns the delivery URL of the first caption track
// listed in the page.
func CaptionTrackURL(page string) (string, bool) {
	tracks := captionTracksRE.FindStringSubmatch(page)
	if tracks == nil {
		return "", false
	}
	m := baseURLRE.FindStringSubmatch(tracks[1])
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], `\u0026`, "&"), true
}

// CaptionText joins the text of every <text> element with single spaces.
func CaptionText(body string) string {
	matches := captionTextRE.FindAllStringSubmatch(body, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, html.UnescapeString(m[1]))
	}
	return strings.Join(parts, " ")
}

func Description(page string) (string, bool) {
	m := descriptionRE.FindStringSubmatch(page)
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], `\n`, "\n"), true
}

func Title(page string) (string, bool) {
	return firstMatch(titleRE, page)
}

func Channel(page string) (string, bool) {
	return firstMatch(channelRE, page)
}

func firstMatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
