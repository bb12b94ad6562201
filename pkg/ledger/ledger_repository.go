package ledger

import (
	"context"

	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	LedgerRepository interface {
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

		CreateFavorite(ctx context.Context, favorite *entities.Favorite) error
		DeleteFavorite(ctx context.Context, userID, recipeID uuid.UUID) (int64, error)
		FavoritedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]uuid.UUID, error)

		CreateCartEntry(ctx context.Context, entry *entities.ShoppingCartEntry) error
		DeleteCartEntry(ctx context.Context, userID, recipeID uuid.UUID) (int64, error)
		CartRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]uuid.UUID, error)
		GetCartRecipes(ctx context.Context, userID uuid.UUID) ([]*entities.Recipe, error)

		CreateSubscription(ctx context.Context, subscription *entities.Subscription) error
		DeleteSubscription(ctx context.Context, userID, authorID uuid.UUID) (int64, error)
		SubscribedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) ([]uuid.UUID, error)
	}

	ledgerRepository struct {
		db *gorm.DB
	}
)

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *ledgerRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// members returns the subset of ids that has a row (user_id, column) in model.
func (r *ledgerRepository) members(ctx context.Context, model any, column string, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ?", userID).
		Where(column+" IN ?", ids).
		Pluck(column, &found).Error
	return found, err
}

func (r *ledgerRepository) CreateFavorite(ctx context.Context, favorite *entities.Favorite) error {
	return r.db.WithContext(ctx).Omit("User", "Recipe").Create(favorite).Error
}

func (r *ledgerRepository) DeleteFavorite(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *ledgerRepository) FavoritedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]uuid.UUID, error) {
	return r.members(ctx, &entities.Favorite{}, "recipe_id", userID, recipeIDs)
}

func (r *ledgerRepository) CreateCartEntry(ctx context.Context, entry *entities.ShoppingCartEntry) error {
	return r.db.WithContext(ctx).Omit("User", "Recipe").Create(entry).Error
}

func (r *ledgerRepository) DeleteCartEntry(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCartEntry{})
	return res.RowsAffected, res.Error
}

func (r *ledgerRepository) CartRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) ([]uuid.UUID, error) {
	return r.members(ctx, &entities.ShoppingCartEntry{}, "recipe_id", userID, recipeIDs)
}

func (r *ledgerRepository) GetCartRecipes(ctx context.Context, userID uuid.UUID) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipes.id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Order("shopping_cart_entries.created_at ASC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *ledgerRepository) CreateSubscription(ctx context.Context, subscription *entities.Subscription) error {
	return r.db.WithContext(ctx).Omit("User", "Author").Create(subscription).Error
}

func (r *ledgerRepository) DeleteSubscription(ctx context.Context, userID, authorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Subscription{})
	return res.RowsAffected, res.Error
}

func (r *ledgerRepository) SubscribedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) ([]uuid.UUID, error) {
	return r.members(ctx, &entities.Subscription{}, "author_id", userID, authorIDs)
}
