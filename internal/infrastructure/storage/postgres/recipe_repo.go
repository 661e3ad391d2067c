package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/id"
	"larder/internal/domain/recipe"
)

const (
	recipeTable             = "recipes"
	recipeIngredientTable   = "recipe_ingredients"
	recipeSubstitutionTable = "recipe_substitutions"
)

var recipeColumns = []string{
	"id", "code", "name", "servings", "tags",
	"version", "created_at", "updated_at",
}

// RecipeRepo implements recipe.Catalog.
type RecipeRepo struct {
	pool *Pool
}

// NewRecipeRepo creates a new recipe repository.
func NewRecipeRepo(pool *Pool) *RecipeRepo {
	return &RecipeRepo{pool: pool}
}

func (r *RecipeRepo) List(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error) {
	q := psql.Select(recipeColumns...).
		From(recipeTable).
		OrderBy("name", "id")

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.Tag != "" {
		q = q.Where("? = ANY(tags)", filter.Tag)
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var recipes []*recipe.Recipe
	if err := pgxscan.Select(ctx, r.pool, &recipes, sql, args...); err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}

	if err := r.loadDetails(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *RecipeRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.List(ctx, recipe.ListFilter{IDs: ids})
}

// loadDetails attaches ingredients and substitution tables to a page of
// recipes with one query per table.
func (r *RecipeRepo) loadDetails(ctx context.Context, recipes []*recipe.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[id.ID]*recipe.Recipe, len(recipes))
	ids := make([]id.ID, 0, len(recipes))
	for _, rec := range recipes {
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}

	sql, args, err := psql.Select("recipe_id", "id", "product_id", "name",
		"quantity", "unit", "is_optional").
		From(recipeIngredientTable).
		Where(squirrel.Eq{"recipe_id": ids}).
		OrderBy("recipe_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var ingredientRows []struct {
		RecipeID id.ID `db:"recipe_id"`
		recipe.Ingredient
	}
	if err := pgxscan.Select(ctx, r.pool, &ingredientRows, sql, args...); err != nil {
		return fmt.Errorf("select ingredients: %w", err)
	}
	for _, row := range ingredientRows {
		if rec, ok := byID[row.RecipeID]; ok {
			rec.Ingredients = append(rec.Ingredients, row.Ingredient)
		}
	}

	sql, args, err = psql.Select("recipe_id", "product_id", "substitute_id").
		From(recipeSubstitutionTable).
		Where(squirrel.Eq{"recipe_id": ids}).
		OrderBy("recipe_id", "product_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var substitutionRows []struct {
		RecipeID     id.ID `db:"recipe_id"`
		ProductID    id.ID `db:"product_id"`
		SubstituteID id.ID `db:"substitute_id"`
	}
	if err := pgxscan.Select(ctx, r.pool, &substitutionRows, sql, args...); err != nil {
		return fmt.Errorf("select substitutions: %w", err)
	}
	for _, row := range substitutionRows {
		rec, ok := byID[row.RecipeID]
		if !ok {
			continue
		}
		if rec.Substitutions == nil {
			rec.Substitutions = make(recipe.SubstitutionTable)
		}
		rec.Substitutions[row.ProductID] = append(rec.Substitutions[row.ProductID], row.SubstituteID)
	}

	return nil
}

func (r *RecipeRepo) Create(ctx context.Context, rec *recipe.Recipe) error {
	if err := rec.Validate(ctx); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sql, args, err := psql.Insert(recipeTable).
		Columns(recipeColumns...).
		Values(rec.ID, rec.Code, rec.Name, rec.Servings, rec.Tags,
			rec.Version, rec.CreatedAt, rec.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	for pos, ing := range rec.Ingredients {
		sql, args, err := psql.Insert(recipeIngredientTable).
			Columns("id", "recipe_id", "product_id", "name",
				"quantity", "unit", "is_optional", "position").
			Values(ing.ID, rec.ID, ing.ProductID, ing.Name,
				ing.Quantity, ing.Unit, ing.Optional, pos).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert ingredient: %w", err)
		}
	}

	for productID, substitutes := range rec.Substitutions {
		for pos, substituteID := range substitutes {
			sql, args, err := psql.Insert(recipeSubstitutionTable).
				Columns("recipe_id", "product_id", "substitute_id", "position").
				Values(rec.ID, productID, substituteID, pos).
				ToSql()
			if err != nil {
				return fmt.Errorf("build query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("insert substitution: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}
