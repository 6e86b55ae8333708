package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"lithuania-bess/internal/api/models"
	"lithuania-bess/internal/model"
	"lithuania-bess/internal/revenue"
	"lithuania-bess/internal/scenario"
)

// RevenueHandler serves revenue estimates and projections.
type RevenueHandler struct {
	svc *Service
}

// NewRevenueHandler creates a new revenue handler.
func NewRevenueHandler(svc *Service) *RevenueHandler {
	return &RevenueHandler{svc: svc}
}

// GetRevenue handles GET /api/v1/revenue: estimates with the configured
// assumptions over every year with data.
func (h *RevenueHandler) GetRevenue(c *gin.Context) {
	in, err := h.svc.Inputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("DATA_LOAD_FAILED", err.Error()))
		return
	}
	table := revenue.Estimate(in, in.YearsWithData(), h.svc.Config().Assumptions)
	c.JSON(http.StatusOK, tableResponse(table))
}

// EstimateRevenue handles POST /api/v1/revenue: estimates with optional
// assumption overrides from the request body.
func (h *RevenueHandler) EstimateRevenue(c *gin.Context) {
	var req models.RevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	a := h.svc.Config().Assumptions
	if req.RoundTripEfficiency != nil {
		a.RoundTripEfficiency = *req.RoundTripEfficiency
	}
	if req.CaptureRate != nil {
		a.CaptureRate = *req.CaptureRate
	}
	if len(req.Durations) > 0 {
		a.Durations = req.Durations
	}
	for _, dur := range a.Durations {
		p := model.BatteryParams{
			DurationHours:       dur,
			RoundTripEfficiency: a.RoundTripEfficiency,
			CaptureRate:         a.CaptureRate,
		}
		if err := p.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, models.NewError("INVALID_PARAMS", err.Error()))
			return
		}
		// Reserve estimates need an availability factor for the duration;
		// without one the markets would quietly report zero.
		for name, m := range map[string]map[int]float64{
			"afrr": a.AFRRAvailability,
			"fcr":  a.FCRAvailability,
			"mfrr": a.MFRRAvailability,
		} {
			if _, ok := m[dur]; !ok {
				c.JSON(http.StatusBadRequest, models.NewError("INVALID_PARAMS",
					fmt.Sprintf("no %s availability configured for %dh duration", name, dur)))
				return
			}
		}
	}

	in, err := h.svc.Inputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("DATA_LOAD_FAILED", err.Error()))
		return
	}
	years := req.Years
	if len(years) == 0 {
		years = in.YearsWithData()
	}
	table := revenue.Estimate(in, years, a)
	c.JSON(http.StatusOK, tableResponse(table))
}

// GetProjection handles GET /api/v1/projection: the forward revenue
// projection over the configured horizon.
func (h *RevenueHandler) GetProjection(c *gin.Context) {
	in, err := h.svc.Inputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("DATA_LOAD_FAILED", err.Error()))
		return
	}
	cfg := h.svc.Config()
	historical := revenue.Estimate(in, in.YearsWithData(), cfg.Assumptions)
	projected := scenario.Project(historical, cfg)
	c.JSON(http.StatusOK, tableResponse(projected))
}

func tableResponse(table revenue.Table) models.RevenueResponse {
	resp := models.RevenueResponse{Years: table.Years()}
	for key, value := range table {
		resp.Estimates = append(resp.Estimates, models.EstimateRow{
			Year:      key.Year,
			Market:    string(key.Market),
			DurationH: key.Duration,
			EURPerMW:  value,
		})
	}
	sort.Slice(resp.Estimates, func(i, j int) bool {
		a, b := resp.Estimates[i], resp.Estimates[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		return a.DurationH < b.DurationH
	})
	return resp
}
