package nutrition

import (
	"context"
	"sort"
	"time"
)

type logKey struct {
	userID  int
	logDate string
}

type repoMock struct {
	nextID int
	logs   map[logKey]*DailyLog
	goals  map[int]*Goals
}

func NewMockNutritionRepo() *repoMock {
	return &repoMock{
		nextID: 1,
		logs:   make(map[logKey]*DailyLog),
		goals:  make(map[int]*Goals),
	}
}

func (r *repoMock) GetOrCreateLog(_ context.Context, userID int, logDate string) (*DailyLog, error) {
	key := logKey{userID: userID, logDate: logDate}
	if l, ok := r.logs[key]; ok {
		dayLog := *l
		return &dayLog, nil
	}
	l := &DailyLog{
		ID:        r.nextID,
		UserID:    userID,
		LogDate:   logDate,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.logs[key] = l
	dayLog := *l
	return &dayLog, nil
}

func (r *repoMock) UpdateLog(_ context.Context, userID int, logDate string, update DailyLogUpdate) (*DailyLog, error) {
	l, ok := r.logs[logKey{userID: userID, logDate: logDate}]
	if !ok {
		return nil, ErrLogNotFound
	}
	if update.Calories != nil {
		l.Calories = *update.Calories
	}
	if update.ProteinG != nil {
		l.ProteinG = *update.ProteinG
	}
	if update.CarbsG != nil {
		l.CarbsG = *update.CarbsG
	}
	if update.FatG != nil {
		l.FatG = *update.FatG
	}
	dayLog := *l
	return &dayLog, nil
}

func (r *repoMock) History(_ context.Context, userID int, startDate, endDate string) ([]DailyLog, error) {
	logs := make([]DailyLog, 0)
	for key, l := range r.logs {
		if key.userID == userID && key.logDate >= startDate && key.logDate <= endDate {
			logs = append(logs, *l)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].LogDate > logs[j].LogDate
	})
	return logs, nil
}

func (r *repoMock) GetOrCreateGoals(_ context.Context, userID int) (*Goals, error) {
	if g, ok := r.goals[userID]; ok {
		goals := *g
		return &goals, nil
	}
	g := &Goals{
		UserID:         userID,
		DailyCalories:  DefaultDailyCalories,
		ProteinPercent: DefaultProteinPercent,
		CarbsPercent:   DefaultCarbsPercent,
		FatPercent:     DefaultFatPercent,
	}
	r.goals[userID] = g
	goals := *g
	return &goals, nil
}

func (r *repoMock) UpdateGoals(_ context.Context, userID int, update GoalsUpdate) (*Goals, error) {
	g, ok := r.goals[userID]
	if !ok {
		return nil, ErrLogNotFound
	}
	if update.DailyCalories != nil {
		g.DailyCalories = *update.DailyCalories
	}
	if update.ProteinPercent != nil {
		g.ProteinPercent = *update.ProteinPercent
	}
	if update.CarbsPercent != nil {
		g.CarbsPercent = *update.CarbsPercent
	}
	if update.FatPercent != nil {
		g.FatPercent = *update.FatPercent
	}
	goals := *g
	return &goals, nil
}
