package dashboard

import (
	"context"
	"math"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

// Aggregate rolls records up into counts and revenue. Only completed
// appointments earn revenue; absent, negative or non-finite amounts add 0.
// Revenue is summed in whole paise so the result does not depend on the
// order of records.
func Aggregate(records []*model.Appointment) model.DashboardSummary {
	var summary model.DashboardSummary
	var paise int64
	for _, r := range records {
		if r == nil {
			continue
		}
		summary.Total++

		switch r.Status {
		case model.AppointmentStatusCompleted:
			summary.CompletedCount++
			paise += revenuePaise(r.Amount)
		case model.AppointmentStatusScheduled:
			summary.UpcomingCount++
		case model.AppointmentStatusCancelled:
			summary.CancelledCount++
		}
	}
	summary.TotalRevenue = float64(paise) / 100
	return summary
}

func revenuePaise(amount *float64) int64 {
	if amount == nil {
		return 0
	}
	v := *amount
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > model.MaxAmount {
		return 0
	}
	return int64(math.Round(v * 100))
}

// DayLister is the part of the scheduler the report needs.
type DayLister interface {
	ListByDay(ctx context.Context, calendarDate, zoneName string, clinicLocationID *int64) ([]*model.Appointment, error)
}

type Service struct {
	appointments DayLister
}

func NewService(appointments DayLister) *Service {
	return &Service{appointments: appointments}
}

// DailyReport lists one day and summarises it.
func (s *Service) DailyReport(ctx context.Context, calendarDate, zoneName string, clinicLocationID *int64) (*model.DailyReport, error) {
	records, err := s.appointments.ListByDay(ctx, calendarDate, zoneName, clinicLocationID)
	if err != nil {
		return nil, err
	}

	return &model.DailyReport{
		Date:             calendarDate,
		TimeZone:         zoneName,
		ClinicLocationID: clinicLocationID,
		Summary:          Aggregate(records),
		Appointments:     records,
	}, nil
}
