package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) DailyReport(ctx context.Context, date, zone string, loc *int64) (*model.DailyReport, error) {
	args := m.Called(ctx, date, zone, loc)
	if v := args.Get(0); v != nil {
		return v.(*model.DailyReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDailyReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mockReporter)
	r := gin.New()
	NewHandler(svc, "Asia/Kolkata").RegisterRoutes(r.Group(""))

	report := &model.DailyReport{
		Date:     "2024-01-15",
		TimeZone: "Asia/Kolkata",
		Summary:  model.DashboardSummary{Total: 3, CompletedCount: 1, TotalRevenue: 500},
	}
	svc.On("DailyReport", mock.Anything, "2024-01-15", "Asia/Kolkata", (*int64)(nil)).Return(report, nil)
	svc.On("DailyReport", mock.Anything, "bad", "Asia/Kolkata", (*int64)(nil)).
		Return(nil, apperrors.NewInvalidDateTime("bad", errors.New("parse")))

	w := get(r, "/reports/daily?date=2024-01-15")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_revenue":500`)

	w = get(r, "/reports/daily?date=bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(r, "/reports/daily?date=2024-01-15&location=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}
