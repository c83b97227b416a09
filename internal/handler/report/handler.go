package report

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

type Reporter interface {
	DailyReport(ctx context.Context, calendarDate, zoneName string, clinicLocationID *int64) (*model.DailyReport, error)
}

type Handler struct {
	service     Reporter
	defaultZone string
}

func NewHandler(service Reporter, defaultZone string) *Handler {
	return &Handler{service: service, defaultZone: defaultZone}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reports/daily", h.DailyReport)
}

func (h *Handler) DailyReport(c *gin.Context) {
	location, err := httputil.OptionalInt64Query(c, "location")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	zone := c.DefaultQuery("timeZone", h.defaultZone)
	report, err := h.service.DailyReport(c.Request.Context(), c.Query("date"), zone, location)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, report)
}
