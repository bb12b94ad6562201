package recipe

import (
	"context"

	"foodgram/entities"
	"foodgram/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// RecipeQuery is the store-level form of domain.RecipeFilter. Nil
	// pointers leave the corresponding restriction off.
	RecipeQuery struct {
		TagSlugs    []string
		AuthorID    *uuid.UUID
		FavoritedBy *uuid.UUID
		InCartOf    *uuid.UUID
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, query RecipeQuery, pagination utils.Pagination) ([]*entities.Recipe, int64, error)
		CountFavorites(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func insertCollections(tx *gorm.DB, recipeID uuid.UUID, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error {
	for i, line := range lines {
		line.RecipeID = recipeID
		line.Position = i
	}
	if len(lines) > 0 {
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return err
		}
	}

	tags := make([]*entities.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, &entities.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateRecipe writes the recipe row, its line items and its tag rows in
// one transaction.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return insertCollections(tx, recipe.ID, lines, tagIDs)
	})
}

// UpdateRecipe saves the scalar fields and, when lines is non-nil, replaces
// both collections.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"image_url":    recipe.ImageURL,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
			}).Error; err != nil {
			return err
		}

		if lines == nil {
			return nil
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeTag{}).Error; err != nil {
			return err
		}
		return insertCollections(tx, recipe.ID, lines, tagIDs)
	})
}

// DeleteRecipe removes everything that references the recipe, then the
// recipe itself.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&entities.RecipeIngredient{},
			&entities.RecipeTag{},
			&entities.Favorite{},
			&entities.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) filtered(ctx context.Context, query RecipeQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(query.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", query.TagSlugs)
		db = db.Where("recipes.id IN (?)", tagged)
	}
	if query.AuthorID != nil {
		db = db.Where("recipes.author_id = ?", *query.AuthorID)
	}
	if query.FavoritedBy != nil {
		favorited := r.db.Model(&entities.Favorite{}).Select("recipe_id").Where("user_id = ?", *query.FavoritedBy)
		db = db.Where("recipes.id IN (?)", favorited)
	}
	if query.InCartOf != nil {
		inCart := r.db.Model(&entities.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", *query.InCartOf)
		db = db.Where("recipes.id IN (?)", inCart)
	}
	return db
}

func (r *recipeRepository) GetRecipes(ctx context.Context, query RecipeQuery, pagination utils.Pagination) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.filtered(ctx, query).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.withDetails(r.filtered(ctx, query)).
		Order("recipes.created_at ASC, recipes.id ASC").
		Scopes(pagination.Scope).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) CountFavorites(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		RecipeID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Select("recipe_id, COUNT(*) AS total").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.RecipeID] = row.Total
	}
	return counts, nil
}
