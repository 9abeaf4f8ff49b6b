package results

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	nextID  int
	results map[int]*Result
}

func NewMockResultsRepo() *repoMock {
	return &repoMock{
		nextID:  1,
		results: make(map[int]*Result),
	}
}

func (r *repoMock) Create(_ context.Context, result Result) (*Result, error) {
	result.ID = r.nextID
	result.CreatedAt = time.Now()
	r.nextID++
	r.results[result.ID] = &result
	created := result
	return &created, nil
}

func (r *repoMock) Get(_ context.Context, id, userID int) (*Result, error) {
	res, ok := r.results[id]
	if !ok || res.UserID != userID {
		return nil, ErrResultNotFound
	}
	result := *res
	return &result, nil
}

func (r *repoMock) List(_ context.Context, userID int, programID *int) ([]Result, error) {
	results := make([]Result, 0)
	for _, res := range r.results {
		if res.UserID != userID {
			continue
		}
		if programID != nil && (res.ProgramID == nil || *res.ProgramID != *programID) {
			continue
		}
		results = append(results, *res)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].WorkoutDate > results[j].WorkoutDate
	})
	return results, nil
}

func (r *repoMock) Update(_ context.Context, id, userID int, update ResultUpdate) (*Result, error) {
	res, ok := r.results[id]
	if !ok || res.UserID != userID {
		return nil, ErrResultNotFound
	}
	if update.WorkoutDate != nil {
		res.WorkoutDate = *update.WorkoutDate
	}
	if update.Notes != nil {
		res.Notes = update.Notes
	}
	if update.Completed != nil {
		res.Completed = *update.Completed
	}
	result := *res
	return &result, nil
}

func (r *repoMock) Delete(_ context.Context, id, userID int) error {
	res, ok := r.results[id]
	if !ok || res.UserID != userID {
		return ErrResultNotFound
	}
	delete(r.results, id)
	return nil
}
