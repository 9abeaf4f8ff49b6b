package recipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrRecipeNotFound = errors.New("recipe not found")

const recipeColumns = `id, user_id, title, description, image_url,
	calories, protein_g, carbs_g, fat_g, prep_time_min, servings,
	ingredients, instructions, tags, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, recipe Recipe) (_ *Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO recipes
			(user_id, title, description, image_url, calories, protein_g,
			 carbs_g, fat_g, prep_time_min, servings, ingredients, instructions, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+recipeColumns+`;`,
		recipe.UserID, recipe.Title, recipe.Description, recipe.ImageURL,
		recipe.Calories, recipe.ProteinG, recipe.CarbsG, recipe.FatG,
		recipe.PrepTimeMin, recipe.Servings,
		recipe.Ingredients, recipe.Instructions, recipe.Tags,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleRecipe(rows)
}

// Get returns a recipe visible to the user: their own or a system one.
func (r *Repo) Get(ctx context.Context, id, userID int) (_ *Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("recipe_id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+recipeColumns+` FROM recipes
			WHERE id = $1 AND (user_id = $2 OR user_id IS NULL);`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleRecipe(rows)
}

// List returns system recipes plus the user's own.
func (r *Repo) List(ctx context.Context, userID int) (_ []Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+recipeColumns+` FROM recipes
			WHERE user_id = $1 OR user_id IS NULL
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2recipes(rows)
}

// Update changes an owned recipe, system recipes are not updatable.
func (r *Repo) Update(ctx context.Context, id, userID int, update RecipeUpdate) (_ *Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("recipe_id", id))

	rows, err := r.db.Query(
		ctx,
		`UPDATE recipes SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			image_url = COALESCE($5, image_url),
			calories = COALESCE($6, calories),
			protein_g = COALESCE($7, protein_g),
			carbs_g = COALESCE($8, carbs_g),
			fat_g = COALESCE($9, fat_g),
			prep_time_min = COALESCE($10, prep_time_min),
			servings = COALESCE($11, servings),
			ingredients = COALESCE($12, ingredients),
			instructions = COALESCE($13, instructions),
			tags = COALESCE($14, tags)
		WHERE id = $1 AND user_id = $2
		RETURNING `+recipeColumns+`;`,
		id, userID,
		update.Title, update.Description, update.ImageURL,
		update.Calories, update.ProteinG, update.CarbsG, update.FatG,
		update.PrepTimeMin, update.Servings,
		update.Ingredients, update.Instructions, update.Tags,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleRecipe(rows)
}

// Delete removes an owned recipe. System recipes never match the
// user_id predicate, deleting one reports not found.
func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("recipe_id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM recipes WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (r *Repo) singleRecipe(rows pgx.Rows) (*Recipe, error) {
	recipes, err := rows2recipes(rows)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrRecipeNotFound
	}
	return &recipes[0], nil
}

func rows2recipes(rows pgx.Rows) ([]Recipe, error) {
	recipes := make([]Recipe, 0)
	for rows.Next() {
		var recipe Recipe
		if err := rows.Scan(
			&recipe.ID, &recipe.UserID, &recipe.Title, &recipe.Description, &recipe.ImageURL,
			&recipe.Calories, &recipe.ProteinG, &recipe.CarbsG, &recipe.FatG,
			&recipe.PrepTimeMin, &recipe.Servings,
			&recipe.Ingredients, &recipe.Instructions, &recipe.Tags,
			&recipe.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}
