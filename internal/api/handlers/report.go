package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lithuania-bess/internal/api/models"
	"lithuania-bess/internal/report"
)

// ReportHandler serves rendered report downloads.
type ReportHandler struct {
	svc *Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GetXLSX handles GET /api/v1/report.xlsx.
func (h *ReportHandler) GetXLSX(c *gin.Context) {
	d, ok := h.assemble(c)
	if !ok {
		return
	}
	raw, err := report.BuildXLSX(d)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("REPORT_FAILED", err.Error()))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="lithuania_bess_analysis.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
}

// GetHTML handles GET /api/v1/report.html.
func (h *ReportHandler) GetHTML(c *gin.Context) {
	d, ok := h.assemble(c)
	if !ok {
		return
	}
	raw, err := report.BuildHTML(d)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("REPORT_FAILED", err.Error()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", raw)
}

func (h *ReportHandler) assemble(c *gin.Context) (report.Data, bool) {
	in, err := h.svc.Inputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("DATA_LOAD_FAILED", err.Error()))
		return report.Data{}, false
	}
	return report.Assemble(h.svc.Config(), in, nil), true
}
