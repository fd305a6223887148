package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"ozon-orders/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// HeaderRoundTripper sets fixed headers (credentials) on every outgoing request.
type HeaderRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Headers are set on a clone of each request.
	Headers map[string]string
}

// RoundTrip clones the request, sets the headers and delegates.
func (hrt *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range hrt.Headers {
		clone.Header.Set(k, v)
	}
	return hrt.Proxied.RoundTrip(clone)
}

// Option customizes the client built by NewClient.
type Option func(*options)

type options struct {
	headers map[string]string
	proxy   *url.URL
}

// WithHeaders sets headers on every request, e.g. API credentials.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// WithProxy routes requests through an upstream HTTP proxy. A nil URL is ignored.
func WithProxy(proxyURL *url.URL) Option {
	return func(o *options) {
		o.proxy = proxyURL
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var base http.RoundTripper = http.DefaultTransport
	if o.proxy != nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.Proxy = http.ProxyURL(o.proxy)
		base = tr
	}

	var transport http.RoundTripper = &LoggingRoundTripper{Proxied: base}
	if len(o.headers) > 0 {
		transport = &HeaderRoundTripper{Proxied: transport, Headers: o.headers}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
