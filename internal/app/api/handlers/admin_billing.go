package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	billingsvc "github.com/lifedash/lifedash/internal/app/service/billing"
	"github.com/lifedash/lifedash/pkg/response"
)

// @Summary      Get Billing Analytics (Admin)
// @Description  Recomputes the analytics snapshot for the requested period start.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body billingsvc.AnalyticsRequest true "Period start; zero time means all time"
// @Success      200  {object}  response.APIResponse[billingsvc.Snapshot]
// @Router       /api/v1/admin/get_billing_analytics [post]
func ApiGetBillingAnalytics(svc *billingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req billingsvc.AnalyticsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		snap, err := svc.ComputeAnalytics(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(snap))
	}
}

// @Summary      Export Billing CSV (Admin)
// @Description  Two-column Metric,Value CSV download of the analytics snapshot.
// @Tags         Admin
// @Produce      text/csv
// @Param        period_start query string false "Period start (RFC3339); omitted means all time"
// @Success      200  {string}  string  "CSV attachment"
// @Router       /api/v1/admin/export_billing_csv [get]
func ApiExportBillingCSV(svc *billingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var periodStart time.Time
		if raw := c.Query("period_start"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "period_start must be RFC3339"))
				return
			}
			periodStart = parsed
		}
		snap, err := svc.ComputeAnalytics(c.Request.Context(), &billingsvc.AnalyticsRequest{PeriodStart: periodStart})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		out, err := billingsvc.RenderCSV(snap)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		filename := fmt.Sprintf("billing-analytics-%s.csv", time.Now().Format(time.DateOnly))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv", out)
	}
}

func RegisterAdminBillingRoutes(r gin.IRouter, svc *billingsvc.Service) {
	r.POST("/get_billing_analytics", ApiGetBillingAnalytics(svc))
	r.GET("/export_billing_csv", ApiExportBillingCSV(svc))
}
