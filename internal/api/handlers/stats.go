package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lithuania-bess/internal/analysis"
	"lithuania-bess/internal/api/models"
)

// StatsHandler serves day-ahead price diagnostics.
type StatsHandler struct {
	svc *Service
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *Service) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/v1/stats.
func (h *StatsHandler) GetStats(c *gin.Context) {
	in, err := h.svc.Inputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("DATA_LOAD_FAILED", err.Error()))
		return
	}
	cfg := h.svc.Config()
	years := in.YearsWithData()

	resp := models.StatsResponse{}
	for _, year := range years {
		resp.Stats = append(resp.Stats, analysis.ComputePriceStats(in.DayAhead, year))
	}
	if len(years) > 0 {
		resp.OracleYear = years[len(years)-1]
		resp.Oracle = make(map[int]float64, len(cfg.Assumptions.Durations))
		prices := in.DayAhead.Year(resp.OracleYear)
		for _, dur := range cfg.Assumptions.Durations {
			resp.Oracle[dur] = analysis.OracleProfit(prices, dur, cfg.Assumptions.RoundTripEfficiency)
		}
	}
	c.JSON(http.StatusOK, resp)
}
