package favorites

import "time"

type Favorite struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProgramID int       `json:"program_id"`
	CreatedAt time.Time `json:"created_at"`

	ProgramTitle *string `json:"program_title,omitempty"`
	ProgramImage *string `json:"program_image,omitempty"`
}
