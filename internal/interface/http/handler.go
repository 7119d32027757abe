package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aquasutra/internal/domain/advisor"
	"github.com/yanqian/aquasutra/internal/domain/groundwater"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/infra/pincode"
)

// LocationDirectory answers pincode and coordinate lookups.
type LocationDirectory interface {
	ResolveDistrict(ctx context.Context, pincode string) outcome.Result[advisor.Location]
	Nearest(lat, lon float64) (pincode.Match, bool)
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	advisorSvc     advisor.Service
	groundwaterSvc groundwater.Service
	locations      LocationDirectory
	logger         *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(advisorSvc advisor.Service, groundwaterSvc groundwater.Service, locations LocationDirectory, logger *slog.Logger) *Handler {
	return &Handler{
		advisorSvc:     advisorSvc,
		groundwaterSvc: groundwaterSvc,
		locations:      locations,
		logger:         logger.With("component", "http.handler"),
	}
}

// recommendationRequest is the flat body farmer clients send.
type recommendationRequest struct {
	advisor.FarmContext
	UserIntentCropID string   `json:"userIntentCropId"`
	CropIDs          []string `json:"cropIds"`
}

// Recommend ranks crops for a farm.
func (h *Handler) Recommend(c *gin.Context) {
	var body recommendationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	farm := body.FarmContext
	if strings.TrimSpace(farm.IntendedCrop) == "" {
		farm.IntendedCrop = body.UserIntentCropID
	}

	resp, err := h.advisorSvc.Recommend(c.Request.Context(), advisor.Request{Farm: farm, RestrictToCropIDs: body.CropIDs})
	if err != nil {
		abortWithError(c, fromDomain(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Compare evaluates 2 to 6 crops side by side.
func (h *Handler) Compare(c *gin.Context) {
	var req advisor.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.advisorSvc.Compare(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomain(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarketPrices returns resolved quotes for a region.
func (h *Handler) MarketPrices(c *gin.Context) {
	resolution, err := h.advisorSvc.Prices(c.Request.Context(), c.Query("region"), splitIDs(c.Query("cropIds")))
	if err != nil {
		abortWithError(c, fromDomain(err))
		return
	}
	c.JSON(http.StatusOK, resolution)
}

// WaterCost prices irrigation for a water requirement.
func (h *Handler) WaterCost(c *gin.Context) {
	var req advisor.WaterCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.advisorSvc.WaterCost(req)
	if err != nil {
		abortWithError(c, fromDomain(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InsurancePremium prices a crop insurance policy.
func (h *Handler) InsurancePremium(c *gin.Context) {
	var req advisor.PremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.advisorSvc.Premium(req)
	if err != nil {
		abortWithError(c, fromDomain(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GroundwaterStatus reports a block's aquifer assessment.
func (h *Handler) GroundwaterStatus(c *gin.Context) {
	status, err := h.groundwaterSvc.Status(c.Request.Context(), c.Query("district"), c.Query("block"))
	if err != nil {
		abortWithError(c, fromDomain(err))
		return
	}
	c.JSON(http.StatusOK, status)
}

// GroundwaterTrend reports a block's yearly depth history.
func (h *Handler) GroundwaterTrend(c *gin.Context) {
	years := 0
	if raw := strings.TrimSpace(c.Query("years")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "years must be an integer", err))
			return
		}
		years = n
	}

	report, err := h.groundwaterSvc.Trend(c.Request.Context(), c.Query("district"), c.Query("block"), years)
	if err != nil {
		abortWithError(c, fromDomain(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// ResolvePincode maps a pincode onto its district and block.
func (h *Handler) ResolvePincode(c *gin.Context) {
	code := c.Param("pincode")
	res := h.locations.ResolveDistrict(c.Request.Context(), code)
	if res.Source == outcome.Fallback {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "unknown pincode", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pincode":  code,
		"district": res.Value.District,
		"block":    res.Value.Block,
		"state":    res.Value.State,
		"source":   res.Source,
	})
}

// NearestBlock finds the mapped block closest to lat/lon.
func (h *Handler) NearestBlock(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "lat and lon must be numbers", nil))
		return
	}

	match, ok := h.locations.Nearest(lat, lon)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no mapped block within search radius", nil))
		return
	}
	c.JSON(http.StatusOK, match)
}

// Crops lists the crop catalog.
func (h *Handler) Crops(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"crops": h.advisorSvc.Crops()})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
