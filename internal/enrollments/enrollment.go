package enrollments

import "time"

type Enrollment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProgramID int       `json:"program_id"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`

	// joined program data for the "my programs" listing
	ProgramTitle       *string `json:"program_title,omitempty"`
	ProgramDescription *string `json:"program_description,omitempty"`
	ProgramDuration    *int    `json:"program_duration,omitempty"`
	ProgramImage       *string `json:"program_image,omitempty"`
}
