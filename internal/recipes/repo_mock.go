package recipes

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	nextID  int
	recipes map[int]*Recipe
}

func NewMockRecipesRepo() *repoMock {
	return &repoMock{
		nextID:  1,
		recipes: make(map[int]*Recipe),
	}
}

func (r *repoMock) Create(_ context.Context, recipe Recipe) (*Recipe, error) {
	recipe.ID = r.nextID
	recipe.CreatedAt = time.Now()
	r.nextID++
	r.recipes[recipe.ID] = &recipe
	created := recipe
	return &created, nil
}

func (r *repoMock) visible(id, userID int) *Recipe {
	recipe, ok := r.recipes[id]
	if !ok {
		return nil
	}
	if recipe.UserID != nil && *recipe.UserID != userID {
		return nil
	}
	return recipe
}

func (r *repoMock) Get(_ context.Context, id, userID int) (*Recipe, error) {
	recipe := r.visible(id, userID)
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	res := *recipe
	return &res, nil
}

func (r *repoMock) List(_ context.Context, userID int) ([]Recipe, error) {
	recipes := make([]Recipe, 0)
	for _, recipe := range r.recipes {
		if recipe.UserID == nil || *recipe.UserID == userID {
			recipes = append(recipes, *recipe)
		}
	}
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].ID < recipes[j].ID
	})
	return recipes, nil
}

func (r *repoMock) Update(_ context.Context, id, userID int, update RecipeUpdate) (*Recipe, error) {
	recipe, ok := r.recipes[id]
	if !ok || recipe.UserID == nil || *recipe.UserID != userID {
		return nil, ErrRecipeNotFound
	}
	if update.Title != nil {
		recipe.Title = *update.Title
	}
	if update.Description != nil {
		recipe.Description = update.Description
	}
	if update.Calories != nil {
		recipe.Calories = *update.Calories
	}
	if update.Ingredients != nil {
		recipe.Ingredients = update.Ingredients
	}
	if update.Instructions != nil {
		recipe.Instructions = update.Instructions
	}
	if update.Tags != nil {
		recipe.Tags = update.Tags
	}
	res := *recipe
	return &res, nil
}

func (r *repoMock) Delete(_ context.Context, id, userID int) error {
	recipe, ok := r.recipes[id]
	if !ok || recipe.UserID == nil || *recipe.UserID != userID {
		return ErrRecipeNotFound
	}
	delete(r.recipes, id)
	return nil
}
