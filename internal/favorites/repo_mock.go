package favorites

import (
	"context"
	"sort"
	"time"
)

type favKey struct {
	userID    int
	programID int
}

type repoMock struct {
	nextID    int
	favorites map[favKey]*Favorite
}

func NewMockFavoritesRepo() *repoMock {
	return &repoMock{
		nextID:    1,
		favorites: make(map[favKey]*Favorite),
	}
}

func (r *repoMock) Toggle(_ context.Context, userID, programID int) (bool, error) {
	key := favKey{userID: userID, programID: programID}
	if _, ok := r.favorites[key]; ok {
		delete(r.favorites, key)
		return false, nil
	}
	r.favorites[key] = &Favorite{
		ID:        r.nextID,
		UserID:    userID,
		ProgramID: programID,
		CreatedAt: time.Now(),
	}
	r.nextID++
	return true, nil
}

func (r *repoMock) List(_ context.Context, userID int) ([]Favorite, error) {
	favorites := make([]Favorite, 0)
	for _, f := range r.favorites {
		if f.UserID == userID {
			favorites = append(favorites, *f)
		}
	}
	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].ID < favorites[j].ID
	})
	return favorites, nil
}

func (r *repoMock) IsFavorite(_ context.Context, userID, programID int) (bool, error) {
	_, ok := r.favorites[favKey{userID: userID, programID: programID}]
	return ok, nil
}

func (r *repoMock) Statuses(_ context.Context, userID int, programIDs []int) (map[int]bool, error) {
	statuses := make(map[int]bool, len(programIDs))
	for _, id := range programIDs {
		_, ok := r.favorites[favKey{userID: userID, programID: id}]
		statuses[id] = ok
	}
	return statuses, nil
}
