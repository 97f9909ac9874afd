package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/nijaru/yt-summary/errors"
)

const (
	maxURLLength  = 2048
	maxTextLength = 100_000
)

var (
	languageRE = regexp.MustCompile(`^[a-zA-Z]{2,3}([-_][a-zA-Z0-9]{2,4})?$`)
	videoIDRE  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL checks that a video URL is present and well formed. Whether it
// carries a video id is decided later by the id parser.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return errors.InvalidInput(op, nil, "YouTube URL is required")
	}
	if len(urlStr) > maxURLLength {
		return errors.InvalidInput(op, nil, "YouTube URL is too long")
	}
	if _, err := url.Parse(urlStr); err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}
	return nil
}

// ValidateLanguage accepts an empty code (no translation) or an ISO style
// code such as "fr" or "zh-Hans".
func (v *Validator) ValidateLanguage(lang string) error {
	const op = "Validator.ValidateLanguage"

	if lang == "" || languageRE.MatchString(lang) {
		return nil
	}
	return errors.InvalidInput(op, nil, fmt.Sprintf("Unsupported language code %q", lang))
}

func (v *Validator) ValidateText(text string) error {
	const op = "Validator.ValidateText"

	if len(text) > maxTextLength {
		return errors.InvalidInput(op, nil, "Text is too long")
	}
	return nil
}

func (v *Validator) ValidateVideoID(id string) error {
	const op = "Validator.ValidateVideoID"

	if id == "" {
		return errors.InvalidInput(op, nil, "video_id is required")
	}
	if !videoIDRE.MatchString(id) {
		return errors.InvalidInput(op, nil, "Invalid video_id")
	}
	return nil
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.New(http.StatusMethodNotAllowed, op, nil, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.New(http.StatusRequestEntityTooLarge, op, nil, "Request body too large")
	}

	return nil
}
