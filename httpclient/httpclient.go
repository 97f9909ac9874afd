package httpclient

import (
	"net/http"

	"github.com/nijaru/yt-summary/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Doer is the only thing upstream callers need from an HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New builds the outbound client described by cfg: a plain net/http client or
// a browser-fingerprinted one, paced by a token bucket when UpstreamRPS > 0.
func New(cfg config.HTTPConfig) (Doer, error) {
	var (
		client Doer
		err    error
	)

	if cfg.BrowserTLS {
		client, err = NewBrowser(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "create browser client")
		}
	} else {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	logrus.WithFields(logrus.Fields{
		"browser_tls":    cfg.BrowserTLS,
		"upstream_rps":   cfg.UpstreamRPS,
		"upstream_burst": cfg.UpstreamBurst,
	}).Debug("Outbound HTTP client configured")

	if cfg.UpstreamRPS <= 0 {
		return client, nil
	}
	return NewThrottled(client, rate.Limit(cfg.UpstreamRPS), cfg.UpstreamBurst), nil
}

// Throttled waits on a shared token bucket before every request.
type Throttled struct {
	next    Doer
	limiter *rate.Limiter
}

func NewThrottled(next Doer, limit rate.Limit, burst int) *Throttled {
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (t *Throttled) Do(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, errors.Wrap(err, "wait for upstream slot")
	}
	return t.next.Do(req)
}
