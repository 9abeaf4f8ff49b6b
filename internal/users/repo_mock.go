package users

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	nextID int
	users  map[int]*User
}

func NewMockUsersRepo() *repoMock {
	return &repoMock{
		nextID: 1,
		users:  make(map[int]*User),
	}
}

func (r *repoMock) Create(_ context.Context, name, email, passwordHash string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}
	user := &User{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

func (r *repoMock) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			user := *u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *repoMock) GetByID(_ context.Context, id int) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := *u
	return &user, nil
}

func (r *repoMock) UpdateProfile(_ context.Context, id int, name, email *string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *email {
				return nil, ErrEmailTaken
			}
		}
		u.Email = *email
	}
	if name != nil {
		u.Name = *name
	}
	user := *u
	return &user, nil
}

func (r *repoMock) List(_ context.Context) ([]User, error) {
	allUsers := make([]User, 0, len(r.users))
	for _, u := range r.users {
		allUsers = append(allUsers, *u)
	}
	sort.Slice(allUsers, func(i, j int) bool {
		return allUsers[i].ID < allUsers[j].ID
	})
	return allUsers, nil
}
