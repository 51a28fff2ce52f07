package http

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// redactedHeaders are never written to logs
var redactedHeaders = map[string]bool{
	"Api-Key":       true,
	"Authorization": true,
}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	ctxzap.Debug(ctx, "HTTP outbound request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Any("headers", redact(req.Header)),
		zap.Int64("content_length", req.ContentLength),
	)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response",
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

func redact(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if redactedHeaders[http.CanonicalHeaderKey(k)] {
			out[k] = []string{"[REDACTED]"}
			continue
		}
		out[k] = v
	}
	return out
}

// redactURLError hides the request URL of a client error. Some URLs carry
// credentials in the path, e.g. Telegram file downloads.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: "[REDACTED]",
		Err: urlErr.Err,
	}
}

// WithRequestLogging wraps the HTTP transport with debug logging of method, URL, headers and status.
// Credential headers are redacted.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
