package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/middleware"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/service/appointment"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

// Defaults are applied to requests that omit a value. The scheduler itself
// has no defaults.
type Defaults struct {
	// TimeZone is used when a list request names no timeZone.
	TimeZone string
	// ClinicLocationID is used when a write omits clinic_location_id; 0 disables it.
	ClinicLocationID int64
}

type Handler struct {
	service  appointment.Scheduler
	defaults Defaults
}

func NewHandler(service appointment.Scheduler, defaults Defaults) *Handler {
	return &Handler{service: service, defaults: defaults}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func actorName(c *gin.Context) (string, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return "", false
	}
	return actor.DisplayName(), true
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, "invalid request body")
		return
	}

	name, ok := actorName(c)
	if !ok {
		return
	}
	req.ActorName = name
	if req.ClinicLocationID == 0 {
		req.ClinicLocationID = h.defaults.ClinicLocationID
	}

	apt, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	location, err := httputil.OptionalInt64Query(c, "location")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	zone := c.DefaultQuery("timeZone", h.defaults.TimeZone)
	appointments, err := h.service.ListByDay(c.Request.Context(), c.Query("date"), zone, location)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, "invalid request body")
		return
	}

	name, ok := actorName(c)
	if !ok {
		return
	}
	req.ActorName = name
	if req.ClinicLocationID == 0 {
		req.ClinicLocationID = h.defaults.ClinicLocationID
	}

	apt, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"id": id})
}
