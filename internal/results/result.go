package results

import "time"

type Result struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	ProgramID    *int      `json:"program_id,omitempty"`
	EnrollmentID *int      `json:"enrollment_id,omitempty"`
	WorkoutDate  string    `json:"workout_date"`
	Notes        *string   `json:"notes,omitempty"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
}

type ResultUpdate struct {
	WorkoutDate *string `json:"workout_date"`
	Notes       *string `json:"notes"`
	Completed   *bool   `json:"completed"`
}
