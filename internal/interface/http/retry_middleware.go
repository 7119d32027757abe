package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/aquasutra/internal/infra/config"
)

// maxReplayBody caps how much of a request body is held for replays.
const maxReplayBody = 1 << 20

// replayer re-runs read-only requests whose upstream collaborators were
// briefly unavailable. Every route it sees computes without side effects, so
// GET lookups and POST computations are both safe to repeat.
type replayer struct {
	next     http.Handler
	attempts int
	base     time.Duration
	skip     map[string]struct{}
	clock    clockwork.Clock
	logger   *slog.Logger
}

func withRetry(next http.Handler, cfg config.RetryConfig, clock clockwork.Clock, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return next
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	skip := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		skip[path] = struct{}{}
	}
	return &replayer{
		next:     next,
		attempts: cfg.MaxAttempts,
		base:     cfg.BaseBackoff,
		skip:     skip,
		clock:    clock,
		logger:   logger.With("component", "http.retry"),
	}
}

func (p *replayer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := p.skip[r.URL.Path]; ok || (r.Method != http.MethodGet && r.Method != http.MethodPost) {
		p.next.ServeHTTP(w, r)
		return
	}
	body, err := snapshotBody(r)
	if err != nil {
		writeReplayError(w, err)
		return
	}
	// attempts share one request id
	if r.Header.Get(requestIDHeader) == "" {
		r.Header.Set(requestIDHeader, uuid.NewString())
	}

	waits := p.schedule()
	for attempt := 1; ; attempt++ {
		buf := newBufferedResponse()
		p.next.ServeHTTP(buf, withBody(r, body))

		wait := waits.NextBackOff()
		if !gatewayFailure(buf.status) || wait == backoff.Stop || r.Context().Err() != nil {
			buf.flushTo(w)
			return
		}
		p.logger.Warn("upstream unavailable, replaying request",
			"method", r.Method, "path", r.URL.Path, "status", buf.status, "attempt", attempt, "wait", wait)
		if !p.pause(r.Context(), wait) {
			buf.flushTo(w)
			return
		}
	}
}

// schedule doubles the wait from the configured base and stops after the
// configured number of attempts.
func (p *replayer) schedule() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.base
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(p.attempts-1))
}

func (p *replayer) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := p.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

func gatewayFailure(status int) bool {
	return status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout
}

type replayBodyError struct {
	tooLarge bool
	err      error
}

func (e *replayBodyError) Error() string {
	if e.tooLarge {
		return fmt.Sprintf("request body exceeds %d bytes", maxReplayBody)
	}
	return fmt.Sprintf("read request body: %v", e.err)
}

func snapshotBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxReplayBody+1))
	if err != nil {
		return nil, &replayBodyError{err: err}
	}
	if len(data) > maxReplayBody {
		return nil, &replayBodyError{tooLarge: true}
	}
	return data, nil
}

func writeReplayError(w http.ResponseWriter, err error) {
	status, code := http.StatusBadRequest, "invalid_request"
	var be *replayBodyError
	if errors.As(err, &be) && be.tooLarge {
		status, code = http.StatusRequestEntityTooLarge, "payload_too_large"
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": err.Error()},
	})
}

func withBody(r *http.Request, body []byte) *http.Request {
	clone := r.Clone(r.Context())
	if body == nil {
		clone.Body = http.NoBody
		clone.ContentLength = 0
		return clone
	}
	clone.Body = io.NopCloser(bytes.NewReader(body))
	clone.ContentLength = int64(len(body))
	return clone
}

// bufferedResponse holds one attempt until it is known to be final.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
	sealed bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: http.Header{}, status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if !b.sealed {
		b.status = status
		b.sealed = true
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.sealed = true
	return b.body.Write(p)
}

func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	clear(dst)
	for k, v := range b.header {
		dst[k] = v
	}
	w.WriteHeader(b.status)
	_, _ = b.body.WriteTo(w)
}
