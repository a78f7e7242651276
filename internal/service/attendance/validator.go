package attendance

import (
	"fmt"
	"time"

	"github.com/staffdesk/staffdesk-backend-go/internal/config"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/utils"
)

// Validator applies the location and time gates for check-in/check-out.
// It is pure: same inputs, same violations. Checks are independent and
// every failing check is reported, so the admin sees the complete set.
type Validator struct {
	loc        *time.Location
	shiftStart int // minutes from midnight
	shiftEnd   int
	grace      time.Duration
}

func NewValidator(cfg config.EngineConfig) (*Validator, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid engine timezone %q: %w", cfg.Timezone, err)
	}

	start, err := time.Parse("15:04", cfg.ShiftStart)
	if err != nil {
		return nil, fmt.Errorf("invalid shift start %q: %w", cfg.ShiftStart, err)
	}
	end, err := time.Parse("15:04", cfg.ShiftEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid shift end %q: %w", cfg.ShiftEnd, err)
	}

	return &Validator{
		loc:        loc,
		shiftStart: start.Hour()*60 + start.Minute(),
		shiftEnd:   end.Hour()*60 + end.Minute(),
		grace:      cfg.GracePeriod,
	}, nil
}

// Location returns the engine timezone.
func (v *Validator) Location() *time.Location {
	return v.loc
}

// Day truncates a timestamp to its work day in the engine timezone.
func (v *Validator) Day(t time.Time) time.Time {
	local := t.In(v.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, v.loc)
}

// ValidateCheckIn returns every violated gate for a check-in attempt.
func (v *Validator) ValidateCheckIn(now time.Time, lat, lng float64, emp employee.Employee) []string {
	var violations []string
	violations = appendGeofenceViolation(violations, lat, lng, emp)
	violations = v.appendWindowViolation(violations, now, v.shiftStart, "shift start")
	return violations
}

// ValidateCheckOut applies the same gates against the shift end.
func (v *Validator) ValidateCheckOut(now time.Time, lat, lng float64, emp employee.Employee) []string {
	var violations []string
	violations = appendGeofenceViolation(violations, lat, lng, emp)
	violations = v.appendWindowViolation(violations, now, v.shiftEnd, "shift end")
	return violations
}

func appendGeofenceViolation(violations []string, lat, lng float64, emp employee.Employee) []string {
	if emp.Geofence == nil {
		return violations
	}

	distance := utils.HaversineDistance(lat, lng, emp.Geofence.Latitude, emp.Geofence.Longitude)
	if distance <= emp.Geofence.RadiusMeters {
		return violations
	}

	return append(violations, fmt.Sprintf("%s: %.0fm from work location (radius %.0fm)",
		attendance.ViolationOutsideGeofence, distance, emp.Geofence.RadiusMeters))
}

func (v *Validator) appendWindowViolation(violations []string, now time.Time, anchorMinutes int, label string) []string {
	local := now.In(v.loc)
	anchor := time.Date(local.Year(), local.Month(), local.Day(),
		anchorMinutes/60, anchorMinutes%60, 0, 0, v.loc)

	earliest := anchor.Add(-v.grace)
	latest := anchor.Add(v.grace)

	if !local.Before(earliest) && !local.After(latest) {
		return violations
	}

	return append(violations, fmt.Sprintf("%s: %s is outside the %s window %s-%s",
		attendance.ViolationOutsideTimeWindow,
		local.Format("15:04"), label,
		earliest.Format("15:04"), latest.Format("15:04")))
}
