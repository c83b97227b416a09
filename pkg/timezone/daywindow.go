package timezone

import (
	"strings"
	"time"

	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

// DayLength is the span of a day window: the last instant is one millisecond
// before the next local midnight on a 24h day.
const DayLength = 24*time.Hour - time.Millisecond

// DayWindow returns the inclusive UTC range covering calendarDate (YYYY-MM-DD)
// in zoneName. start is local midnight; end is start plus DayLength.
func DayWindow(calendarDate, zoneName string) (time.Time, time.Time, error) {
	loc, err := LoadZone(zoneName)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	value := strings.TrimSpace(calendarDate)
	day, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewInvalidDateTime(calendarDate, err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).UTC()
	return start, start.Add(DayLength), nil
}
