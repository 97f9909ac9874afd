package youtube

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/nijaru/yt-summary/httpclient"
	"github.com/pkg/errors"
)

const maxPageBytes = 6 * 1024 * 1024

// PageClient downloads watch page markup.
type PageClient struct {
	client    httpclient.Doer
	watchURL  string
	userAgent string
}

func NewPageClient(client httpclient.Doer, watchURL, userAgent string) *PageClient {
	return &PageClient{
		client:    client,
		watchURL:  watchURL,
		userAgent: userAgent,
	}
}

func (p *PageClient) Fetch(ctx context.Context, videoID string) (string, error) {
	u := p.watchURL + "?v=" + url.QueryEscape(videoID)
	body, err := p.get(ctx, u, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", errors.Wrap(err, "watch page")
	}
	return body, nil
}

// FetchURL downloads an arbitrary upstream resource, e.g. a caption track
// URL lifted from the page.
func (p *PageClient) FetchURL(ctx context.Context, rawURL string) (string, error) {
	return p.get(ctx, rawURL, "*/*")
}

func (p *PageClient) get(ctx context.Context, rawURL, accept string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", accept)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "GET %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	return string(body), nil
}
