package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/middleware"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Create(ctx context.Context, input model.CreateAppointmentInput) (*model.Appointment, error) {
	args := m.Called(ctx, input)
	if v := args.Get(0); v != nil {
		return v.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduler) ListByDay(ctx context.Context, date, zone string, loc *int64) ([]*model.Appointment, error) {
	args := m.Called(ctx, date, zone, loc)
	if v := args.Get(0); v != nil {
		return v.([]*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduler) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduler) Update(ctx context.Context, id int64, input model.UpdateAppointmentInput) (*model.Appointment, error) {
	args := m.Called(ctx, id, input)
	if v := args.Get(0); v != nil {
		return v.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduler) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setupRouter(svc *mockScheduler, actor *model.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextActor, actor)
		}
		c.Next()
	})
	NewHandler(svc, Defaults{TimeZone: "Asia/Kolkata", ClinicLocationID: 1}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var desk = &model.Actor{Email: "desk@clinic.in", Name: "Front Desk"}

func TestCreateAppointment(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, desk)

	created := &model.Appointment{
		ID:          9,
		ScheduledAt: time.Date(2024, 1, 15, 4, 30, 0, 0, time.UTC),
		Status:      model.AppointmentStatusScheduled,
		UpdatedBy:   "Front Desk",
	}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in model.CreateAppointmentInput) bool {
		return in.PatientName == "Ravi" && in.ZoneName == "Asia/Kolkata" && in.ActorName == "Front Desk"
	})).Return(created, nil)

	w := perform(r, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_name":       "Ravi",
		"datetime":           "2024-01-15T10:00",
		"time_zone":          "Asia/Kolkata",
		"clinic_location_id": 1,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
	assert.Contains(t, w.Body.String(), `"scheduled_at":"2024-01-15T04:30:00Z"`)
	svc.AssertExpectations(t)
}

func TestCreateAppointment_ActorAndLocationDefaults(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, &model.Actor{Email: "desk@clinic.in"})

	svc.On("Create", mock.Anything, mock.MatchedBy(func(in model.CreateAppointmentInput) bool {
		return in.ActorName == "desk@clinic.in" && in.ClinicLocationID == 1
	})).Return(&model.Appointment{ID: 1}, nil)

	w := perform(r, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_name": "Ravi",
		"ActorName":    "someone else",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateAppointment_Errors(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, desk)
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, apperrors.NewInvalidPhone("123")).Once()

	w := perform(r, http.MethodPost, "/api/v1/appointments", map[string]interface{}{"patient_name": "Ravi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidPhone", decode(t, w).Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString("{not json"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateAppointment_NoActor(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, nil)

	w := perform(r, http.MethodPost, "/api/v1/appointments", map[string]interface{}{"patient_name": "Ravi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListAppointments(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, desk)

	location := int64(2)
	svc.On("ListByDay", mock.Anything, "2024-01-15", "Asia/Kolkata", (*int64)(nil)).
		Return([]*model.Appointment{{ID: 1}, {ID: 2}}, nil)
	svc.On("ListByDay", mock.Anything, "2024-01-15", "UTC", &location).
		Return([]*model.Appointment{}, nil)

	w := perform(r, http.MethodGet, "/api/v1/appointments?date=2024-01-15", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 2)

	w = perform(r, http.MethodGet, "/api/v1/appointments?date=2024-01-15&timeZone=UTC&location=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	w = perform(r, http.MethodGet, "/api/v1/appointments?date=2024-01-15&location=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestListAppointments_InvalidZone(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, desk)
	svc.On("ListByDay", mock.Anything, "2024-01-15", "Mars/Base", (*int64)(nil)).
		Return(nil, apperrors.NewInvalidTimeZone("Mars/Base", nil))

	w := perform(r, http.MethodGet, "/api/v1/appointments?date=2024-01-15&timeZone=Mars/Base", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidTimeZone", decode(t, w).Error.Code)
}

func TestGetAppointment(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, desk)
	svc.On("Get", mock.Anything, int64(5)).Return(&model.Appointment{ID: 5}, nil)
	svc.On("Get", mock.Anything, int64(6)).Return(nil, apperrors.NewNotFound("appointment", nil))

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/api/v1/appointments/5", nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/api/v1/appointments/6", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/api/v1/appointments/zero", nil).Code)
}

func TestUpdateAppointment(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, desk)

	svc.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(in model.UpdateAppointmentInput) bool {
		return in.Status == "completed" && in.Amount != nil && *in.Amount == 500 && in.ActorName == "Front Desk"
	})).Return(&model.Appointment{ID: 5, Status: model.AppointmentStatusCompleted}, nil)
	svc.On("Update", mock.Anything, int64(6), mock.Anything).Return(nil, apperrors.NewInvalidStatus("done"))

	w := perform(r, http.MethodPut, "/api/v1/appointments/5", map[string]interface{}{
		"patient_name":       "Ravi",
		"status":             "completed",
		"amount":             500,
		"clinic_location_id": 1,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodPut, "/api/v1/appointments/6", map[string]interface{}{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidStatus", decode(t, w).Error.Code)
	svc.AssertExpectations(t)
}

func TestDeleteAppointment(t *testing.T) {
	svc := new(mockScheduler)
	r := setupRouter(svc, desk)
	svc.On("Delete", mock.Anything, int64(5)).Return(nil).Once()
	svc.On("Delete", mock.Anything, int64(5)).Return(apperrors.NewNotFound("appointment", nil)).Once()

	assert.Equal(t, http.StatusOK, perform(r, http.MethodDelete, "/api/v1/appointments/5", nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodDelete, "/api/v1/appointments/5", nil).Code)
}
