package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/dukahub/storefront/pkg/errors"
	"github.com/dukahub/storefront/pkg/httpclient"
)

var mirrorFallbacks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "backend_mirror_fallbacks_total",
		Help: "Number of requests that fell over from one backend mirror to the next",
	},
	[]string{"mirror"},
)

// MirrorChain fails requests over across an ordered list of backend mirrors.
// A network error or 5xx response moves to the next mirror after a fixed
// delay; 4xx responses are authoritative and returned immediately. It
// satisfies httpclient.Doer so a circuit breaker can wrap the whole chain.
type MirrorChain struct {
	mirrors []*url.URL
	client  httpclient.Doer
	delay   time.Duration
	logger  *slog.Logger
}

// NewMirrorChain builds a chain over the given base URLs, primary first.
// The underlying client should not retry on its own; the chain owns failover.
func NewMirrorChain(baseURLs []string, client httpclient.Doer, delay time.Duration, logger *slog.Logger) (*MirrorChain, error) {
	if len(baseURLs) == 0 {
		return nil, fmt.Errorf("mirror chain: no base URLs configured")
	}
	mirrors := make([]*url.URL, 0, len(baseURLs))
	for _, raw := range baseURLs {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("mirror chain: parse base URL %q: %w", raw, err)
		}
		mirrors = append(mirrors, u)
	}
	return &MirrorChain{mirrors: mirrors, client: client, delay: delay, logger: logger}, nil
}

// Do executes the request against each mirror in order until one answers
// with a non-5xx response. The request URL's path and query are kept; its
// scheme and host are rewritten per mirror.
func (m *MirrorChain) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("mirror chain: read request body: %w", err)
		}
	}

	var lastErr error
	for i, mirror := range m.mirrors {
		if i > 0 {
			mirrorFallbacks.WithLabelValues(mirror.Host).Inc()
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attempt := req.Clone(ctx)
		attempt.URL.Scheme = mirror.Scheme
		attempt.URL.Host = mirror.Host
		attempt.Host = ""
		if body != nil {
			attempt.Body = io.NopCloser(bytes.NewReader(body))
			attempt.ContentLength = int64(len(body))
		}

		resp, err := m.client.Do(ctx, attempt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.logger.WarnContext(ctx, "backend mirror unreachable",
				slog.String("mirror", mirror.Host),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			m.logger.WarnContext(ctx, "backend mirror returned server error",
				slog.String("mirror", mirror.Host),
				slog.Int("status", resp.StatusCode),
			)
			lastErr = fmt.Errorf("mirror %s: status %d", mirror.Host, resp.StatusCode)
			_ = resp.Body.Close()
			continue
		}

		return resp, nil
	}

	return nil, apperrors.Upstream(fmt.Errorf("all %d backend mirrors failed: %w", len(m.mirrors), lastErr))
}
