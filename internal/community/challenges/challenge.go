package challenges

import "time"

type Challenge struct {
	ID               int       `json:"id"`
	CreatedBy        int       `json:"created_by"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	Emoji            *string   `json:"emoji,omitempty"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	GoalType         *string   `json:"goal_type,omitempty"`
	GoalValue        *int      `json:"goal_value,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	CreatorName      string    `json:"creator_name,omitempty"`
	ParticipantCount int       `json:"participant_count"`
}
