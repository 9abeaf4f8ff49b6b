package groups

import "time"

type Group struct {
	ID          int       `json:"id"`
	CreatedBy   int       `json:"created_by"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	CreatorName string    `json:"creator_name,omitempty"`
	MemberCount int       `json:"member_count"`
}

const (
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)
