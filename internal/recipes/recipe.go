package recipes

import "time"

// Recipe with a nil UserID is a system recipe, visible to everyone and
// not deletable through the API.
type Recipe struct {
	ID           int       `json:"id"`
	UserID       *int      `json:"user_id,omitempty"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Calories     int       `json:"calories"`
	ProteinG     int       `json:"protein_g"`
	CarbsG       int       `json:"carbs_g"`
	FatG         int       `json:"fat_g"`
	PrepTimeMin  *int      `json:"prep_time_min,omitempty"`
	Servings     *int      `json:"servings,omitempty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Recipe) IsSystem() bool {
	return r.UserID == nil
}

type RecipeUpdate struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url"`
	Calories     *int     `json:"calories"`
	ProteinG     *int     `json:"protein_g"`
	CarbsG       *int     `json:"carbs_g"`
	FatG         *int     `json:"fat_g"`
	PrepTimeMin  *int     `json:"prep_time_min"`
	Servings     *int     `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
}
