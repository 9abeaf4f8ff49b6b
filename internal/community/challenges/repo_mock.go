package challenges

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	challenges   map[int]*Challenge
	participants map[int]map[int]bool
	now          func() time.Time

	nextID int
}

// NewMockRepo is to be used for testing purposes
func NewMockRepo() *repoMock {
	return &repoMock{
		challenges:   make(map[int]*Challenge),
		participants: make(map[int]map[int]bool),
		now:          time.Now,
		nextID:       1,
	}
}

func (m *repoMock) ListActive(_ context.Context) ([]Challenge, error) {
	today := m.now().Format("2006-01-02")
	active := make([]Challenge, 0)
	for _, challenge := range m.challenges {
		if challenge.EndDate < today {
			continue
		}
		c := *challenge
		c.ParticipantCount = len(m.participants[challenge.ID])
		active = append(active, c)
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].ID > active[j].ID
	})
	return active, nil
}

func (m *repoMock) Create(
	_ context.Context,
	userID int,
	name string,
	description, emoji *string,
	startDate, endDate string,
	goalType *string,
	goalValue *int,
) (*Challenge, error) {
	challenge := &Challenge{
		ID:          m.nextID,
		CreatedBy:   userID,
		Name:        name,
		Description: description,
		Emoji:       emoji,
		StartDate:   startDate,
		EndDate:     endDate,
		GoalType:    goalType,
		GoalValue:   goalValue,
		CreatedAt:   m.now(),
	}
	m.challenges[challenge.ID] = challenge
	m.nextID++
	return challenge, nil
}

func (m *repoMock) Join(_ context.Context, challengeID, userID int) (bool, error) {
	if _, ok := m.challenges[challengeID]; !ok {
		return false, ErrChallengeNotFound
	}
	if m.participants[challengeID] == nil {
		m.participants[challengeID] = make(map[int]bool)
	}
	if m.participants[challengeID][userID] {
		return false, nil
	}
	m.participants[challengeID][userID] = true
	return true, nil
}

func (m *repoMock) Leave(_ context.Context, challengeID, userID int) error {
	delete(m.participants[challengeID], userID)
	return nil
}
