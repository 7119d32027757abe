package groundwater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/aquasutra/internal/domain/groundwater"
)

const defaultTimeout = 3 * time.Second

// ErrNoReading is returned when the service answers without a usable value.
var ErrNoReading = errors.New("groundwater service returned no reading")

// Client talks to a CGWB-style groundwater level service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type levelResponse struct {
	Depth   *float64 `json:"depth"`
	Station string   `json:"station"`
}

type statusResponse struct {
	Classification string   `json:"classification"`
	Depth          *float64 `json:"depth"`
	RechargeRate   float64  `json:"rechargeRate"`
	ExtractionRate float64  `json:"extractionRate"`
}

// NearestDepth returns the water table depth in meters at the station nearest to lat/lon.
func (c *Client) NearestDepth(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var raw levelResponse
	if err := c.get(ctx, "/level/nearest", params, &raw); err != nil {
		return 0, err
	}
	if raw.Depth == nil || *raw.Depth <= 0 {
		return 0, ErrNoReading
	}
	return *raw.Depth, nil
}

// BlockStatus returns the assessment of district/block.
func (c *Client) BlockStatus(ctx context.Context, district, block string) (groundwater.BlockStatus, error) {
	params := url.Values{}
	params.Set("district", district)
	params.Set("block", block)

	var raw statusResponse
	if err := c.get(ctx, "/status", params, &raw); err != nil {
		return groundwater.BlockStatus{}, err
	}
	if strings.TrimSpace(raw.Classification) == "" {
		return groundwater.BlockStatus{}, ErrNoReading
	}
	status := groundwater.BlockStatus{
		District:       district,
		Block:          block,
		Classification: raw.Classification,
		RechargeRate:   raw.RechargeRate,
		ExtractionRate: raw.ExtractionRate,
	}
	if raw.Depth != nil {
		status.DepthM = *raw.Depth
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.baseURL == "" {
		return errors.New("groundwater api base url not configured")
	}
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build groundwater request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("groundwater request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("groundwater request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode groundwater response: %w", err)
	}
	return nil
}
