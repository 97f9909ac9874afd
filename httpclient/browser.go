package httpclient

import (
	"net/http"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/nijaru/yt-summary/config"
	"github.com/pkg/errors"
)

// browserClient sends requests with a Chrome TLS fingerprint, which YouTube
// challenges far less often than the Go default handshake.
type browserClient struct {
	inner tls_client.HttpClient
}

func NewBrowser(cfg config.HTTPConfig) (Doer, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(cfg.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
	}

	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, errors.Wrap(err, "new tls client")
	}
	return &browserClient{inner: c}, nil
}

func (b *browserClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := b.inner.Do(toFHTTP(req))
	if err != nil {
		return nil, err
	}
	return fromFHTTP(resp, req), nil
}

// toFHTTP copies req into an fhttp request carrying the same context, so
// cancellation and deadlines reach the browser transport.
func toFHTTP(req *http.Request) *fhttp.Request {
	fReq := &fhttp.Request{
		Method:        req.Method,
		URL:           req.URL,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        make(fhttp.Header, len(req.Header)),
		Body:          req.Body,
		GetBody:       req.GetBody,
		ContentLength: req.ContentLength,
		Host:          req.Host,
	}
	for k, v := range req.Header {
		fReq.Header[k] = v
	}
	return fReq.WithContext(req.Context())
}

func fromFHTTP(resp *fhttp.Response, req *http.Request) *http.Response {
	out := &http.Response{
		Status:           resp.Status,
		StatusCode:       resp.StatusCode,
		Proto:            resp.Proto,
		ProtoMajor:       resp.ProtoMajor,
		ProtoMinor:       resp.ProtoMinor,
		ContentLength:    resp.ContentLength,
		Body:             resp.Body,
		Header:           make(http.Header, len(resp.Header)),
		Uncompressed:     resp.Uncompressed,
		TransferEncoding: resp.TransferEncoding,
		Request:          req,
	}
	for k, v := range resp.Header {
		out.Header[k] = v
	}
	return out
}
