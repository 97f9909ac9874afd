package youtube

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrNoVideoID = errors.New("no video id in URL")

// VideoReference is a raw URL together with the id parsed from it.
type VideoReference struct {
	RawURL  string
	VideoID string
}

// ExtractVideoID pulls the video id out of a watch URL (v=ID) or a
// youtu.be short link. The id itself is not validated.
func ExtractVideoID(rawURL string) (string, bool) {
	var id string
	switch {
	case strings.Contains(rawURL, "youtu.be"):
		id = rawURL[strings.LastIndex(rawURL, "/")+1:]
		if i := strings.Index(id, "?"); i >= 0 {
			id = id[:i]
		}
	default:
		i := strings.Index(rawURL, "v=")
		if i < 0 {
			return "", false
		}
		id = rawURL[i+len("v="):]
		if j := strings.Index(id, "&"); j >= 0 {
			id = id[:j]
		}
	}

	if id == "" {
		return "", false
	}
	return id, true
}

func ParseReference(rawURL string) (VideoReference, error) {
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		return VideoReference{RawURL: rawURL}, errors.Wrapf(ErrNoVideoID, "parse %q", rawURL)
	}
	return VideoReference{RawURL: rawURL, VideoID: id}, nil
}
