package planner

import "time"

// ScheduleEntry is one slot in a user's workout plan: either a
// recurring weekday slot (day_of_week set, scheduled_date null) or a
// one-off date entry (scheduled_date set). Never both null.
type ScheduleEntry struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	DayOfWeek     *int      `json:"day_of_week"`
	ScheduledDate *string   `json:"scheduled_date"`
	ProgramID     *int      `json:"program_id"`
	EnrollmentID  *int      `json:"enrollment_id"`
	WorkoutType   *string   `json:"workout_type"`
	WorkoutName   *string   `json:"workout_name"`
	Notes         *string   `json:"notes"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`

	// joined program data, present on reads only
	ProgramTitle       *string `json:"program_title,omitempty"`
	ProgramImage       *string `json:"program_image,omitempty"`
	ProgramDescription *string `json:"program_description,omitempty"`
}

// SlotUpdate carries the normalized mutable fields of a schedule slot.
// Nil fields keep their stored value on update.
type SlotUpdate struct {
	DayOfWeek     *int
	ScheduledDate *string
	ProgramID     *int
	EnrollmentID  *int
	WorkoutType   *string
	WorkoutName   *string
	Notes         *string
}

// DaySummary is the completion state of a single day within a week.
type DaySummary struct {
	Date              string `json:"date"`
	DayOfWeek         int    `json:"day_of_week"`
	Scheduled         bool   `json:"scheduled"`
	ScheduleCompleted bool   `json:"schedule_completed"`
	DayWorked         bool   `json:"day_worked"`
	Counted           bool   `json:"counted"`
}

// WeekSummary merges the two completion signals (completed schedule
// entries and independent workout-log days) without double-counting a
// date carrying both.
type WeekSummary struct {
	WeekStart      string       `json:"week_start"`
	WeekEnd        string       `json:"week_end"`
	Days           []DaySummary `json:"days"`
	TotalCompleted int          `json:"total_completed"`
}

// MondayIndexedWeekday maps t's weekday to the Monday=0..Sunday=6
// scheme used by day_of_week.
func MondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
