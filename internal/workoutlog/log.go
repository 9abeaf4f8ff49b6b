package workoutlog

import "time"

// Log records that a user worked out on a calendar date. One logical
// entry per (user, date): marking a date upserts it, unmarking deletes
// the row. Absence of a row means "not worked out".
type Log struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	WorkoutDate string     `json:"workout_date"`
	Completed   bool       `json:"completed"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
