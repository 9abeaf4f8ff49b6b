package groups

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	groups  map[int]*Group
	members map[int]map[int]string

	nextID int
}

// NewMockRepo is to be used for testing purposes
func NewMockRepo() *repoMock {
	return &repoMock{
		groups:  make(map[int]*Group),
		members: make(map[int]map[int]string),
		nextID:  1,
	}
}

func (m *repoMock) ListPublic(_ context.Context) ([]Group, error) {
	public := make([]Group, 0)
	for _, group := range m.groups {
		if !group.IsPublic {
			continue
		}
		g := *group
		g.MemberCount = len(m.members[group.ID])
		public = append(public, g)
	}
	sort.Slice(public, func(i, j int) bool {
		return public[i].ID > public[j].ID
	})
	return public, nil
}

func (m *repoMock) Create(
	_ context.Context,
	userID int,
	name string,
	description, imageURL *string,
	isPublic bool,
) (*Group, error) {
	group := &Group{
		ID:          m.nextID,
		CreatedBy:   userID,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		IsPublic:    isPublic,
		CreatedAt:   time.Now(),
		MemberCount: 1,
	}
	m.groups[group.ID] = group
	m.members[group.ID] = map[int]string{userID: MemberRoleAdmin}
	m.nextID++
	return group, nil
}

func (m *repoMock) Join(_ context.Context, groupID, userID int) (bool, error) {
	if _, ok := m.groups[groupID]; !ok {
		return false, ErrGroupNotFound
	}
	if _, ok := m.members[groupID][userID]; ok {
		return false, nil
	}
	m.members[groupID][userID] = MemberRoleMember
	return true, nil
}

func (m *repoMock) Leave(_ context.Context, groupID, userID int) error {
	delete(m.members[groupID], userID)
	return nil
}
