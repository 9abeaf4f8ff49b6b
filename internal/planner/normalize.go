package planner

import (
	"strconv"

	"github.com/fitsphere/fitsphere/pkg"
)

// UpsertRequest is the raw client payload for scheduling a workout.
// Numeric fields arrive as JSON numbers or as strings, dates may carry
// a time suffix; normalization cleans all of that up before validation.
type UpsertRequest struct {
	DayOfWeek     any    `json:"day_of_week"`
	ScheduledDate any    `json:"scheduled_date"`
	ProgramID     any    `json:"program_id"`
	EnrollmentID  any    `json:"enrollment_id"`
	WorkoutType   string `json:"workout_type"`
	WorkoutName   string `json:"workout_name"`
	Notes         string `json:"notes"`
}

// normalize coerces the request into a SlotUpdate: empty strings become
// nil, string numbers become ints, dates are truncated to YYYY-MM-DD.
// Returns a pkg.ValidationError for contradictory or malformed input.
func (req UpsertRequest) normalize() (*SlotUpdate, error) {
	dayOfWeek, err := intField(req.DayOfWeek, "day of week")
	if err != nil {
		return nil, err
	}
	scheduledDate, err := dateField(req.ScheduledDate, "scheduled date")
	if err != nil {
		return nil, err
	}
	programID, err := intField(req.ProgramID, "program ID")
	if err != nil {
		return nil, err
	}
	enrollmentID, err := intField(req.EnrollmentID, "enrollment ID")
	if err != nil {
		return nil, err
	}

	if dayOfWeek == nil && scheduledDate == nil {
		return nil, pkg.NewValidationError("either day_of_week or scheduled_date must be provided")
	}
	if dayOfWeek != nil && (*dayOfWeek < 0 || *dayOfWeek > 6) {
		return nil, pkg.NewValidationError("day of week must be a number between 0 and 6")
	}

	return &SlotUpdate{
		DayOfWeek:     dayOfWeek,
		ScheduledDate: scheduledDate,
		ProgramID:     programID,
		EnrollmentID:  enrollmentID,
		WorkoutType:   strField(req.WorkoutType),
		WorkoutName:   strField(req.WorkoutName),
		Notes:         strField(req.Notes),
	}, nil
}

func intField(v any, name string) (*int, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if val == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			return nil, pkg.NewValidationError("%s must be a valid number", name)
		}
		return &i, nil
	case float64:
		i := int(val)
		return &i, nil
	case int:
		return &val, nil
	default:
		return nil, pkg.NewValidationError("%s must be a valid number", name)
	}
}

func dateField(v any, name string) (*string, error) {
	val, ok := v.(string)
	if v == nil || (ok && val == "") {
		return nil, nil
	}
	if !ok {
		return nil, pkg.NewValidationError("%s must be a date string", name)
	}

	date := pkg.DateOnly(val)
	if _, err := pkg.ParseDate(date); err != nil {
		return nil, pkg.NewValidationError("%s must be a valid YYYY-MM-DD date", name)
	}
	return &date, nil
}

func strField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
