package nutrition

import "time"

type DailyLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	LogDate   string    `json:"log_date"`
	Calories  int       `json:"calories"`
	ProteinG  int       `json:"protein_g"`
	CarbsG    int       `json:"carbs_g"`
	FatG      int       `json:"fat_g"`
	CreatedAt time.Time `json:"created_at"`
}

type DailyLogUpdate struct {
	Calories *int `json:"calories"`
	ProteinG *int `json:"protein_g"`
	CarbsG   *int `json:"carbs_g"`
	FatG     *int `json:"fat_g"`
}

// default macro split used until the user sets their own goals
const (
	DefaultDailyCalories  = 2000
	DefaultProteinPercent = 30
	DefaultCarbsPercent   = 40
	DefaultFatPercent     = 30
)

type Goals struct {
	UserID         int `json:"user_id"`
	DailyCalories  int `json:"daily_calories"`
	ProteinPercent int `json:"protein_percent"`
	CarbsPercent   int `json:"carbs_percent"`
	FatPercent     int `json:"fat_percent"`
}

type GoalsUpdate struct {
	DailyCalories  *int `json:"daily_calories"`
	ProteinPercent *int `json:"protein_percent"`
	CarbsPercent   *int `json:"carbs_percent"`
	FatPercent     *int `json:"fat_percent"`
}
