package programs

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	nextID   int
	programs map[int]*Program
}

func NewMockProgramsRepo() *repoMock {
	return &repoMock{
		nextID:   1,
		programs: make(map[int]*Program),
	}
}

func (r *repoMock) Create(_ context.Context, program Program) (*Program, error) {
	program.ID = r.nextID
	program.CreatedAt = time.Now()
	r.nextID++
	r.programs[program.ID] = &program
	created := program
	return &created, nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, ErrProgramNotFound
	}
	program := *p
	return &program, nil
}

func (r *repoMock) List(_ context.Context) ([]Program, error) {
	programs := make([]Program, 0, len(r.programs))
	for _, p := range r.programs {
		programs = append(programs, *p)
	}
	sort.Slice(programs, func(i, j int) bool {
		return programs[i].ID < programs[j].ID
	})
	return programs, nil
}

func (r *repoMock) Update(_ context.Context, id int, update ProgramUpdate) (*Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, ErrProgramNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Description != nil {
		p.Description = update.Description
	}
	if update.Duration != nil {
		p.Duration = update.Duration
	}
	if update.ImageURL != nil {
		p.ImageURL = update.ImageURL
	}
	program := *p
	return &program, nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	if _, ok := r.programs[id]; !ok {
		return ErrProgramNotFound
	}
	delete(r.programs, id)
	return nil
}
