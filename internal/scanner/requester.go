package scanner

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/maxvaer/rake/internal/config"
)

var (
	ErrInvalidMethod = errors.New("method is not a valid HTTP method")
	ErrClientBuild   = errors.New("HTTP client cannot be built")
	ErrUnreachable   = errors.New("target host is unreachable")
	ErrInvalidURL    = errors.New("invalid request URL")
)

// BodyPolicy decides whether response bodies are kept after Send. A nil
// policy discards them.
type BodyPolicy interface {
	NeedsBody() bool
}

// Dispatcher performs one HTTP request per Send with a fixed client
// configuration. It is safe for concurrent use.
type Dispatcher struct {
	client    *http.Client
	method    string
	userAgent string
	headers   map[string]string
	keepBody  bool
}

// NewDispatcher builds a Dispatcher from opts and probes the target once.
// It fails if the method is invalid, the client cannot be built, or the
// template's literal URL does not answer.
func NewDispatcher(ctx context.Context, opts *config.Options, body BodyPolicy) (*Dispatcher, error) {
	d, err := BuildDispatcher(opts, body)
	if err != nil {
		return nil, err
	}
	if err := d.Probe(ctx, opts.URL); err != nil {
		return nil, err
	}
	return d, nil
}

// BuildDispatcher validates opts and constructs the HTTP client without
// contacting the target.
func BuildDispatcher(opts *config.Options, body BodyPolicy) (*Dispatcher, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: opts.Threads,
		MaxIdleConns:        opts.Threads,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil || proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, fmt.Errorf("%w: invalid proxy URL %q", ErrClientBuild, opts.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	// Following uses the net/http default policy; otherwise the first
	// response is returned as-is.
	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}

	return &Dispatcher{
		client:    client,
		method:    method,
		userAgent: ua,
		headers:   opts.Headers,
		keepBody:  body != nil && body.NeedsBody(),
	}, nil
}

// Method returns the HTTP method used for every Send.
func (d *Dispatcher) Method() string { return d.method }

// Probe sends a single GET to rawURL. Any HTTP response, whatever its
// status, counts as reachable.
func (d *Dispatcher) Probe(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	d.setHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Send issues exactly one request to target and measures the time until the
// body has been read.
func (d *Dispatcher) Send(ctx context.Context, target string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, d.method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	d.setHeaders(req)

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body for %s: %w", target, err)
	}
	elapsed := time.Since(start)

	size := uint64(len(body))
	if size == 0 && resp.ContentLength > 0 {
		// HEAD and friends: trust the advertised length.
		size = uint64(resp.ContentLength)
	}

	result := &Response{
		URL:           target,
		StatusCode:    uint16(resp.StatusCode),
		ContentLength: size,
		Duration:      elapsed,
	}
	if d.keepBody {
		result.Body = body
	}
	return result, nil
}

func (d *Dispatcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", d.userAgent)
	for k, v := range d.headers {
		// net/http ignores Header["Host"]; only req.Host reaches the wire.
		if http.CanonicalHeaderKey(k) == "Host" {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}
}
