package agmarknet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/montanaflynn/stats"

	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
)

const (
	defaultBaseURL    = "https://api.data.gov.in/resource"
	defaultResourceID = "9ef84268-d588-465a-a308-a864a43d0070"
	recordLimit       = 100
	// quintals per metric ton
	quintalsPerTon  = 10
	trendThreshold  = 0.05
	defaultTimeout  = 8 * time.Second
	maxErrorPayload = 4 << 10
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("agmarknet api key not configured")

// Config holds the mandi feed settings.
type Config struct {
	BaseURL    string
	APIKey     string
	ResourceID string
	Timeout    time.Duration
	Recorder   Recorder
}

// Recorder receives one observation per feed request.
type Recorder interface {
	ObserveUpstream(upstream string, live bool)
}

// Client fetches daily mandi prices from the data.gov.in Agmarknet resource.
type Client struct {
	baseURL    string
	apiKey     string
	resourceID string
	httpClient *http.Client
	recorder   Recorder
}

var _ market.Source = (*Client)(nil)

// NewClient builds an API client.
func NewClient(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	resource := strings.TrimSpace(cfg.ResourceID)
	if resource == "" {
		resource = defaultResourceID
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		resourceID: resource,
		httpClient: &http.Client{Timeout: timeout},
		recorder:   cfg.Recorder,
	}
}

// BatchPrices fetches today's records for region once and aggregates them per
// crop. Crops without a matching commodity are absent from the result.
func (c *Client) BatchPrices(ctx context.Context, region string, cropIDs []string) (map[string]market.LiveQuote, error) {
	records, err := c.fetch(ctx, region)
	if c.recorder != nil && !errors.Is(err, ErrNotConfigured) {
		c.recorder.ObserveUpstream("agmarknet", err == nil)
	}
	if err != nil {
		return nil, err
	}
	return aggregate(records, cropIDs), nil
}

func (c *Client) fetch(ctx context.Context, region string) ([]record, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(recordLimit))
	if r := strings.TrimSpace(region); r != "" {
		params.Set("filters[state]", r)
	}
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(c.resourceID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build agmarknet request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agmarknet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorPayload))
		return nil, fmt.Errorf("agmarknet request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode agmarknet response: %w", err)
	}
	if strings.EqualFold(raw.Status, "error") {
		return nil, fmt.Errorf("agmarknet api error: %s", raw.Message)
	}
	return raw.Records, nil
}

type apiResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Total   int      `json:"total"`
	Records []record `json:"records"`
}

type record struct {
	State       string    `json:"state"`
	District    string    `json:"district"`
	Market      string    `json:"market"`
	Commodity   string    `json:"commodity"`
	ArrivalDate string    `json:"arrival_date"`
	MinPrice    flexFloat `json:"min_price"`
	MaxPrice    flexFloat `json:"max_price"`
	ModalPrice  flexFloat `json:"modal_price"`
}

// flexFloat accepts prices encoded either as JSON numbers or numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" || s == "NA" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

// commodityAliases holds the Agmarknet names for crop keys that the
// commodity list spells differently.
var commodityAliases = map[string][]string{
	"rice":       {"paddy", "dhan"},
	"tur":        {"arhar", "red gram"},
	"gram":       {"bengal gram", "chana"},
	"moong":      {"green gram"},
	"urad":       {"black gram", "urd beans"},
	"soybean":    {"soyabean"},
	"bajra":      {"pearl millet"},
	"jowar":      {"sorghum"},
	"mustard":    {"rai"},
	"cotton":     {"kapas"},
	"chili":      {"green chilli", "chilli"},
	"okra":       {"bhindi", "ladies finger"},
	"watermelon": {"water melon"},
}

// commodityNames splits a commodity such as "Arhar (Tur/Red Gram)(Whole)" into
// the names it answers to, each reduced to lowercase letter words.
func commodityNames(commodity string) []string {
	parts := strings.FieldsFunc(commodity, func(r rune) bool {
		return r == '(' || r == ')' || r == '/' || r == ','
	})
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		words := strings.FieldsFunc(strings.ToLower(part), func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		if len(words) > 0 {
			names = append(names, strings.Join(words, " "))
		}
	}
	return names
}

// matches reports whether an Agmarknet commodity name refers to cropID. Names
// are compared as whole words so "Turmeric" never prices tur.
func matches(cropID, commodity string) bool {
	key := strings.ToLower(strings.TrimSpace(cropID))
	if i := strings.IndexByte(key, '_'); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return false
	}
	for _, name := range commodityNames(commodity) {
		if name == key || slices.Contains(commodityAliases[key], name) {
			return true
		}
	}
	return false
}

func aggregate(records []record, cropIDs []string) map[string]market.LiveQuote {
	out := make(map[string]market.LiveQuote, len(cropIDs))
	for _, id := range cropIDs {
		var modal, lows, highs, spread []float64
		for _, rec := range records {
			if rec.ModalPrice <= 0 || !matches(id, rec.Commodity) {
				continue
			}
			modal = append(modal, float64(rec.ModalPrice))
			lows = append(lows, positiveOr(float64(rec.MinPrice), float64(rec.ModalPrice)))
			highs = append(highs, positiveOr(float64(rec.MaxPrice), float64(rec.ModalPrice)))
			spread = append(spread, float64(rec.MinPrice), float64(rec.ModalPrice), float64(rec.MaxPrice))
		}
		if len(modal) == 0 {
			continue
		}
		avgModal, _ := stats.Mean(modal)
		avgLow, _ := stats.Mean(lows)
		avgHigh, _ := stats.Mean(highs)
		out[id] = market.LiveQuote{
			Price:      avgModal * quintalsPerTon,
			Trend:      trendOf(avgLow, avgModal, avgHigh),
			Volatility: volatility(spread),
			Markets:    len(modal),
			Source:     outcome.Live,
		}
	}
	return out
}

// trendOf reads the day's price spread: a modal close to the minimum means
// sellers are pushing up, close to the maximum means prices are slipping.
func trendOf(low, modal, high float64) market.Trend {
	if modal <= 0 {
		return market.Stable
	}
	switch {
	case (high-modal)/modal > trendThreshold:
		return market.Rising
	case (modal-low)/modal > trendThreshold:
		return market.Falling
	default:
		return market.Stable
	}
}

// volatility is the coefficient of variation of the observed prices in percent.
func volatility(prices []float64) float64 {
	positive := make(stats.Float64Data, 0, len(prices))
	for _, p := range prices {
		if p > 0 {
			positive = append(positive, p)
		}
	}
	if len(positive) < 2 {
		return 0
	}
	mean, err := stats.Mean(positive)
	if err != nil || mean <= 0 {
		return 0
	}
	sd, err := stats.StandardDeviation(positive)
	if err != nil {
		return 0
	}
	return sd / mean * 100
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
