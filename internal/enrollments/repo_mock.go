package enrollments

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	nextID      int
	enrollments map[int]*Enrollment
	programs    map[int]string
}

func NewMockEnrollmentsRepo(programs map[int]string) *repoMock {
	return &repoMock{
		nextID:      1,
		enrollments: make(map[int]*Enrollment),
		programs:    programs,
	}
}

func (r *repoMock) find(userID, programID int) *Enrollment {
	for _, e := range r.enrollments {
		if e.UserID == userID && e.ProgramID == programID {
			return e
		}
	}
	return nil
}

func (r *repoMock) Enroll(_ context.Context, userID, programID int) (*Enrollment, error) {
	if _, ok := r.programs[programID]; !ok {
		return nil, ErrProgramMissing
	}
	if r.find(userID, programID) != nil {
		return nil, ErrAlreadyEnrolled
	}
	e := &Enrollment{
		ID:        r.nextID,
		UserID:    userID,
		ProgramID: programID,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.enrollments[e.ID] = e
	enrollment := *e
	return &enrollment, nil
}

func (r *repoMock) Unenroll(_ context.Context, userID, programID int) error {
	e := r.find(userID, programID)
	if e == nil {
		return ErrEnrollmentNotFound
	}
	delete(r.enrollments, e.ID)
	return nil
}

func (r *repoMock) UpdateProgress(_ context.Context, userID, programID, progress int) (*Enrollment, error) {
	e := r.find(userID, programID)
	if e == nil {
		return nil, ErrEnrollmentNotFound
	}
	e.Progress = progress
	enrollment := *e
	return &enrollment, nil
}

func (r *repoMock) ListMine(_ context.Context, userID int) ([]Enrollment, error) {
	mine := make([]Enrollment, 0)
	for _, e := range r.enrollments {
		if e.UserID != userID {
			continue
		}
		enrollment := *e
		if title, ok := r.programs[e.ProgramID]; ok {
			enrollment.ProgramTitle = &title
		}
		mine = append(mine, enrollment)
	}
	sort.Slice(mine, func(i, j int) bool {
		return mine[i].ID < mine[j].ID
	})
	return mine, nil
}
