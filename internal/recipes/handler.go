package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type recipesRepo interface {
	Create(ctx context.Context, recipe Recipe) (*Recipe, error)
	Get(ctx context.Context, id, userID int) (*Recipe, error)
	List(ctx context.Context, userID int) ([]Recipe, error)
	Update(ctx context.Context, id, userID int, update RecipeUpdate) (*Recipe, error)
	Delete(ctx context.Context, id, userID int) error
}

type Handler struct {
	repo recipesRepo
}

func NewHandler(repo recipesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var recipe Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(strings.TrimSpace(recipe.Title)) < 3 {
		http.Error(w, "title must be at least 3 characters long", http.StatusBadRequest)
		return
	}

	// recipes created over the API always belong to the caller
	recipe.UserID = &userID

	created, err := handler.repo.Create(ctx, recipe)
	if err != nil {
		log.Errorf("failed to create recipe for user %d: %s", userID, err)
		http.Error(w, "failed to create recipe", http.StatusInternalServerError)
		return
	}

	handler.writeRecipe(w, created, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, recipe id NaN", http.StatusBadRequest)
		return
	}

	recipe, err := handler.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get recipe %d: %s", id, err)
		http.Error(w, "failed to get recipe", http.StatusInternalServerError)
		return
	}

	handler.writeRecipe(w, recipe, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	recipes, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list recipes for user %d: %s", userID, err)
		http.Error(w, "failed to list recipes", http.StatusInternalServerError)
		return
	}

	recipesJson, err := json.Marshal(recipes)
	if err != nil {
		log.Errorf("failed to marshal recipes: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recipesJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, recipe id NaN", http.StatusBadRequest)
		return
	}

	existing, err := handler.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get recipe %d: %s", id, err)
		http.Error(w, "failed to update recipe", http.StatusInternalServerError)
		return
	}
	if existing.IsSystem() {
		http.Error(w, "system recipes cannot be changed", http.StatusForbidden)
		return
	}

	var update RecipeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if update.Title != nil && len(strings.TrimSpace(*update.Title)) < 3 {
		http.Error(w, "title must be at least 3 characters long", http.StatusBadRequest)
		return
	}

	recipe, err := handler.repo.Update(ctx, id, userID, update)
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update recipe %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to update recipe", http.StatusInternalServerError)
		return
	}

	handler.writeRecipe(w, recipe, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, recipe id NaN", http.StatusBadRequest)
		return
	}

	existing, err := handler.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get recipe %d: %s", id, err)
		http.Error(w, "failed to delete recipe", http.StatusInternalServerError)
		return
	}
	if existing.IsSystem() {
		http.Error(w, "system recipes cannot be deleted", http.StatusForbidden)
		return
	}

	if err := handler.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete recipe %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to delete recipe", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "recipe deleted successfully"}`)
}

func (handler *Handler) writeRecipe(w http.ResponseWriter, recipe *Recipe, statusCode int) {
	recipeJson, err := json.Marshal(recipe)
	if err != nil {
		log.Errorf("failed to marshal recipe: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recipeJson, statusCode)
}
