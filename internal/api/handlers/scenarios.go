package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lithuania-bess/internal/api/models"
	"lithuania-bess/internal/scenario"
)

// ScenarioHandler serves market sizing and build-out scenarios.
type ScenarioHandler struct {
	svc *Service
}

// NewScenarioHandler creates a new scenario handler.
func NewScenarioHandler(svc *Service) *ScenarioHandler {
	return &ScenarioHandler{svc: svc}
}

// GetScenarios handles GET /api/v1/scenarios.
func (h *ScenarioHandler) GetScenarios(c *gin.Context) {
	in, err := h.svc.Inputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("DATA_LOAD_FAILED", err.Error()))
		return
	}
	cfg := h.svc.Config()
	size := scenario.SizeMarket(in.AFRR, in.MFRR, cfg.Saturation)
	c.JSON(http.StatusOK, models.ScenariosResponse{
		MarketSize: size,
		Points:     scenario.Saturation(size, cfg.Saturation),
	})
}

// GetProjects handles GET /api/v1/projects: the known project pipeline.
func (h *ScenarioHandler) GetProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": h.svc.Config().Projects})
}
