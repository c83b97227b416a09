// Package timezone converts between local wall-clock values and UTC instants.
// All instants handed to persistence are UTC; zones only matter at the edges.
package timezone

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

// LocalLayout is the layout used when echoing an instant back as local wall-clock time.
const LocalLayout = "2006-01-02T15:04:05.000"

// DateLayout is the calendar date layout accepted by DayWindow.
const DateLayout = "2006-01-02"

var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock of the host.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// LoadZone resolves an IANA zone name.
func LoadZone(zoneName string) (*time.Location, error) {
	name := strings.TrimSpace(zoneName)
	if name == "" {
		return nil, apperrors.NewInvalidTimeZone(zoneName, fmt.Errorf("zone name is empty"))
	}
	// time.LoadLocation maps "Local" to the host zone, which is never what a client means.
	if name == "Local" {
		return nil, apperrors.NewInvalidTimeZone(zoneName, fmt.Errorf("host-local zone is not allowed"))
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperrors.NewInvalidTimeZone(zoneName, err)
	}
	return loc, nil
}

// ParseLocal parses a naive wall-clock string in loc.
func ParseLocal(localDateTime string, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(localDateTime)
	if value == "" {
		return time.Time{}, apperrors.NewInvalidDateTime(localDateTime, fmt.Errorf("value is empty"))
	}

	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, apperrors.NewInvalidDateTime(localDateTime, lastErr)
}

// ToUTCInstant interprets localDateTime as wall-clock time in zoneName and
// returns the equivalent instant in UTC.
func ToUTCInstant(localDateTime, zoneName string) (time.Time, error) {
	loc, err := LoadZone(zoneName)
	if err != nil {
		return time.Time{}, err
	}

	t, err := ParseLocal(localDateTime, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// NowAsUTCInstant returns the clock's current instant in UTC.
func NowAsUTCInstant(clock Clock) time.Time {
	if clock == nil {
		clock = SystemClock{}
	}
	return clock.Now().UTC()
}

// FormatLocal renders instant as wall-clock time in zoneName.
func FormatLocal(instant time.Time, zoneName string) (string, error) {
	loc, err := LoadZone(zoneName)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(LocalLayout), nil
}
