package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/aquasutra/internal/domain/advisor"
	"github.com/yanqian/aquasutra/internal/domain/auth"
	"github.com/yanqian/aquasutra/internal/domain/catalog"
	"github.com/yanqian/aquasutra/internal/domain/groundwater"
	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/infra/config"
	"github.com/yanqian/aquasutra/internal/infra/pincode"
	apperrors "github.com/yanqian/aquasutra/pkg/errors"
)

func TestRouter_RecommendSuccess(t *testing.T) {
	svc := &stubAdvisor{
		recommendFn: func(ctx context.Context, req advisor.Request) (advisor.Response, error) {
			require.Equal(t, "211008", req.Farm.Pincode)
			require.Equal(t, 25.4, req.Farm.Latitude)
			require.Equal(t, "Sugarcane", req.Farm.IntendedCrop)
			require.Equal(t, 2.5, req.Farm.AreaAcres)
			return advisor.Response{RequestID: "r-1", Region: "Uttar Pradesh", Recommendations: []advisor.Result{}}, nil
		},
	}
	server := newRouterUnderTest(t, routerDeps{advisor: svc})

	body := `{"pincode":"211008","lat":25.4,"lon":81.8,"soilType":"Loam","totalLandArea":2.5,"userIntentCropId":"Sugarcane"}`
	rec := performRequest(server, http.MethodPost, "/api/v1/recommendations", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var got advisor.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Uttar Pradesh", got.Region)
}

func TestRouter_RecommendEchoesRequestID(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{advisor: &stubAdvisor{}})

	rec := performRequest(server, http.MethodPost, "/api/v1/recommendations", `{"pincode":"211008","lat":25.4,"lon":81.8}`, map[string]string{requestIDHeader: "abc-123"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRouter_RecommendInvalidJSON(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{advisor: &stubAdvisor{}})

	rec := performRequest(server, http.MethodPost, "/api/v1/recommendations", `{"pincode":211008}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_RecommendInvalidInput(t *testing.T) {
	svc := &stubAdvisor{
		recommendFn: func(ctx context.Context, req advisor.Request) (advisor.Response, error) {
			return advisor.Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "pincode is required", nil)
		},
	}
	server := newRouterUnderTest(t, routerDeps{advisor: svc})

	rec := performRequest(server, http.MethodPost, "/api/v1/recommendations", `{"lat":25.4,"lon":81.8}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "pincode is required")
	require.NotEmpty(t, errBody["error"]["requestId"])
}

func TestRouter_CompareNoViableCrops(t *testing.T) {
	svc := &stubAdvisor{
		compareFn: func(ctx context.Context, req advisor.CompareRequest) (advisor.CompareResponse, error) {
			require.Equal(t, []string{"paddy", "bajra"}, req.CropIDs)
			return advisor.CompareResponse{}, apperrors.Wrap(apperrors.CodeNoViableCrops, "no viable crops", nil)
		},
	}
	server := newRouterUnderTest(t, routerDeps{advisor: svc})

	body := `{"cropIds":["paddy","bajra"],"farmContext":{"pincode":"211008","lat":25.4,"lon":81.8}}`
	rec := performRequest(server, http.MethodPost, "/api/v1/recommendations/compare", body, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, apperrors.CodeNoViableCrops, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_MarketPrices(t *testing.T) {
	svc := &stubAdvisor{
		pricesFn: func(ctx context.Context, region string, ids []string) (market.Resolution, error) {
			require.Equal(t, "Maharashtra", region)
			require.Equal(t, []string{"cotton", "soybean"}, ids)
			return market.Resolution{Region: region, DataQuality: 50, Mode: market.ModeFallback}, nil
		},
	}
	server := newRouterUnderTest(t, routerDeps{advisor: svc})

	rec := performRequest(server, http.MethodGet, "/api/v1/market/prices?region=Maharashtra&cropIds=cotton,%20soybean,", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got market.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 50, got.DataQuality)
}

func TestRouter_GroundwaterTrendRejectsBadYears(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{groundwater: &stubGroundwater{}})

	rec := performRequest(server, http.MethodGet, "/api/v1/groundwater/trend?district=Prayagraj&block=Chaka&years=ten", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GroundwaterStatus(t *testing.T) {
	gw := &stubGroundwater{status: groundwater.BlockStatus{District: "Prayagraj", Block: "Chaka", Classification: "Over-exploited", Source: outcome.Fallback}}
	server := newRouterUnderTest(t, routerDeps{groundwater: gw})

	rec := performRequest(server, http.MethodGet, "/api/v1/groundwater/status?district=Prayagraj&block=Chaka", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got groundwater.BlockStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Over-exploited", got.Classification)
}

func TestRouter_GroundwaterStatusUpstreamFailure(t *testing.T) {
	gw := &stubGroundwater{failures: 10}
	server := newRouterUnderTest(t, routerDeps{groundwater: gw})

	rec := performRequest(server, http.MethodGet, "/api/v1/groundwater/status?district=Prayagraj&block=Koraon", "", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, apperrors.CodeUpstream, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
	require.Equal(t, 1, gw.calls)
}

func TestRouter_GroundwaterStatusReplaysUpstreamFailure(t *testing.T) {
	gw := &stubGroundwater{failures: 2, status: groundwater.BlockStatus{District: "Prayagraj", Block: "Koraon", Classification: "Safe", Source: outcome.Live}}
	server := newRouterUnderTest(t, routerDeps{groundwater: gw, retry: config.RetryConfig{Enabled: true, MaxAttempts: 3}})

	rec := performRequest(server, http.MethodGet, "/api/v1/groundwater/status?district=Prayagraj&block=Koraon", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, gw.calls)
	require.Contains(t, rec.Body.String(), `"classification":"Safe"`)

	gw = &stubGroundwater{failures: 5}
	server = newRouterUnderTest(t, routerDeps{groundwater: gw, retry: config.RetryConfig{Enabled: true, MaxAttempts: 3}})
	rec = performRequest(server, http.MethodGet, "/api/v1/groundwater/status?district=Prayagraj&block=Koraon", "", map[string]string{requestIDHeader: "req-7"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, 3, gw.calls)
	require.Equal(t, "req-7", rec.Header().Get(requestIDHeader))
}

func TestRouter_Locations(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodGet, "/api/v1/locations/pincode/211012", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"block":"Sahson"`)

	rec = performRequest(server, http.MethodGet, "/api/v1/locations/pincode/999999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(server, http.MethodGet, "/api/v1/locations/nearest?lat=25.47&lon=82.01", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"pincode":"211012"`)

	rec = performRequest(server, http.MethodGet, "/api/v1/locations/nearest?lat=abc&lon=82", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AuthRequiredWhenSecretConfigured(t *testing.T) {
	authSvc := auth.NewService(auth.Config{Secret: "partner-secret", TokenTTL: time.Hour}, nil, newTestLogger())
	server := newRouterUnderTest(t, routerDeps{advisor: &stubAdvisor{}, auth: authSvc})

	rec := performRequest(server, http.MethodGet, "/api/v1/crops", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(server, http.MethodGet, "/api/v1/crops", "", map[string]string{"Authorization": "Bearer nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, apperrors.CodeInvalidToken, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	token, err := authSvc.Issue("krishi-app")
	require.NoError(t, err)
	rec = performRequest(server, http.MethodGet, "/api/v1/crops", "", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(server, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RecordsRouteMetrics(t *testing.T) {
	recorder := &stubHTTPRecorder{}
	server := newRouterUnderTest(t, routerDeps{advisor: &stubAdvisor{}, recorder: recorder})

	performRequest(server, http.MethodGet, "/api/v1/crops", "", nil)
	performRequest(server, http.MethodGet, "/nowhere", "", nil)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Equal(t, []string{"GET /api/v1/crops 200", "GET unmatched 404"}, recorder.seen)
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodOptions, "/api/v1/recommendations", "", map[string]string{"Origin": "https://app.example.org"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, requestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2}, clock)

	require.True(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"))

	clock.Advance(time.Second)
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
}

func TestWithRetryReplaysGatewayFailures(t *testing.T) {
	var attempts int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		payload, _ := io.ReadAll(r.Body)
		require.Equal(t, `{"pincode":"211008"}`, string(payload))
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	handler := withRetry(inner, config.RetryConfig{Enabled: true, MaxAttempts: 3}, clockwork.NewFakeClock(), newTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewBufferString(`{"pincode":"211008"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, 3, attempts)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestWithRetryLeavesClientErrorsAlone(t *testing.T) {
	var attempts int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	})
	handler := withRetry(inner, config.RetryConfig{Enabled: true, MaxAttempts: 3}, clockwork.NewFakeClock(), newTestLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/compare", bytes.NewBufferString(`{}`)))
	require.Equal(t, 1, attempts)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithRetryBacksOffBetweenGetAttempts(t *testing.T) {
	var attempts atomic.Int32
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(r.Header.Get(requestIDHeader)))
	})
	clock := clockwork.NewFakeClock()
	handler := withRetry(inner, config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: 100 * time.Millisecond}, clock, newTestLogger())

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/groundwater/status?district=Prayagraj&block=Koraon", nil))
		done <- rec
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(100 * time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(200 * time.Millisecond)

	rec := <-done
	require.Equal(t, int32(3), attempts.Load())
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Body.String())
}

func TestWithRetrySkipsOtherMethodsAndRejectsLargeBodies(t *testing.T) {
	var attempts int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	})
	handler := withRetry(inner, config.RetryConfig{Enabled: true, MaxAttempts: 3}, clockwork.NewFakeClock(), newTestLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/crops", nil))
	require.Equal(t, 1, attempts)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader(make([]byte, maxReplayBody+1))))
	require.Equal(t, 1, attempts)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "payload_too_large", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

type routerDeps struct {
	advisor     advisor.Service
	groundwater groundwater.Service
	auth        auth.Service
	recorder    HTTPRecorder
	retry       config.RetryConfig
}

func performRequest(server *http.Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, deps routerDeps) *http.Server {
	t.Helper()
	if deps.advisor == nil {
		deps.advisor = &stubAdvisor{}
	}
	if deps.groundwater == nil {
		deps.groundwater = &stubGroundwater{}
	}
	if deps.auth == nil {
		deps.auth = auth.NewService(auth.Config{}, nil, newTestLogger())
	}
	directory := pincode.NewDirectory(pincode.DefaultRecords(), nil, newTestLogger())
	handler := NewHandler(deps.advisor, deps.groundwater, directory, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			Retry:        deps.retry,
		},
	}
	return NewRouter(cfg, handler, deps.auth, deps.recorder, newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubAdvisor struct {
	recommendFn func(ctx context.Context, req advisor.Request) (advisor.Response, error)
	compareFn   func(ctx context.Context, req advisor.CompareRequest) (advisor.CompareResponse, error)
	pricesFn    func(ctx context.Context, region string, ids []string) (market.Resolution, error)
}

func (s *stubAdvisor) Recommend(ctx context.Context, req advisor.Request) (advisor.Response, error) {
	if s.recommendFn != nil {
		return s.recommendFn(ctx, req)
	}
	return advisor.Response{}, nil
}

func (s *stubAdvisor) Compare(ctx context.Context, req advisor.CompareRequest) (advisor.CompareResponse, error) {
	if s.compareFn != nil {
		return s.compareFn(ctx, req)
	}
	return advisor.CompareResponse{}, nil
}

func (s *stubAdvisor) Prices(ctx context.Context, region string, ids []string) (market.Resolution, error) {
	if s.pricesFn != nil {
		return s.pricesFn(ctx, region, ids)
	}
	return market.Resolution{}, nil
}

func (s *stubAdvisor) WaterCost(advisor.WaterCostRequest) (advisor.WaterCostResponse, error) {
	return advisor.WaterCostResponse{}, nil
}

func (s *stubAdvisor) Premium(advisor.PremiumRequest) (advisor.PremiumResponse, error) {
	return advisor.PremiumResponse{}, nil
}

func (s *stubAdvisor) Crops() []catalog.CropDefinition {
	return nil
}

type stubGroundwater struct {
	status   groundwater.BlockStatus
	failures int
	calls    int
}

func (s *stubGroundwater) Status(context.Context, string, string) (groundwater.BlockStatus, error) {
	s.calls++
	if s.calls <= s.failures {
		return groundwater.BlockStatus{}, apperrors.Wrap(apperrors.CodeUpstream, "groundwater status unavailable", errors.New("block repository: connection refused"))
	}
	return s.status, nil
}

func (s *stubGroundwater) Trend(context.Context, string, string, int) (groundwater.TrendReport, error) {
	return groundwater.TrendReport{Status: s.status}, nil
}

type stubHTTPRecorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *stubHTTPRecorder) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, method+" "+route+" "+strconv.Itoa(status))
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestResolveOrigin(t *testing.T) {
	allowed := []string{"https://app.example.org", "https://admin.example.org"}
	require.Equal(t, "https://admin.example.org", resolveOrigin("https://ADMIN.example.org", allowed))
	require.Equal(t, "https://app.example.org", resolveOrigin("https://evil.example.com", allowed))
	require.Equal(t, "*", resolveOrigin("https://x.org", []string{"*"}))
}
