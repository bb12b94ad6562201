package shoppinglist

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingListRepository interface {
		AggregateCart(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// AggregateCart sums every line item of every recipe in the user's cart,
// one row per ingredient.
func (r *shoppingListRepository) AggregateCart(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error) {
	items := make([]domain.ShoppingListItem, 0)
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartEntry{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
