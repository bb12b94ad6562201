package user

import (
	"context"

	"foodgram/entities"
	"foodgram/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		IsEmailTaken(ctx context.Context, email string) (bool, error)
		IsUsernameTaken(ctx context.Context, username string) (bool, error)
		GetUsers(ctx context.Context, pagination utils.Pagination) ([]*entities.User, int64, error)
		UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
		UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
		GetSubscribedAuthors(ctx context.Context, userID uuid.UUID, pagination utils.Pagination) ([]*entities.User, int64, error)
		GetRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]*entities.Recipe, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Omit("Recipes").Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetUsers(ctx context.Context, pagination utils.Pagination) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Order("username ASC").
		Scopes(pagination.Scope).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("avatar_url", avatarURL).Error
}

func (r *userRepository) GetSubscribedAuthors(ctx context.Context, userID uuid.UUID, pagination utils.Pagination) ([]*entities.User, int64, error) {
	var authors []*entities.User
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at ASC").
		Scopes(pagination.Scope).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, count, nil
}

// GetRecipesByAuthors returns each author's newest recipes first, at most
// limit per author, in one query. A negative limit returns all of them.
func (r *userRepository) GetRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]*entities.Recipe, error) {
	byAuthor := make(map[uuid.UUID][]*entities.Recipe, len(authorIDs))
	if len(authorIDs) == 0 || limit == 0 {
		return byAuthor, nil
	}

	var recipes []*entities.Recipe
	if limit < 0 {
		if err := r.db.WithContext(ctx).
			Where("author_id IN ?", authorIDs).
			Order("created_at DESC, id ASC").
			Find(&recipes).Error; err != nil {
			return nil, err
		}
	} else {
		ranked := r.db.Model(&entities.Recipe{}).
			Select("id, author_id, name, image_url, cooking_time, " +
				"ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC, id ASC) AS author_rank").
			Where("author_id IN ?", authorIDs)
		if err := r.db.WithContext(ctx).
			Table("(?) AS ranked", ranked).
			Select("id, author_id, name, image_url, cooking_time").
			Where("author_rank <= ?", limit).
			Order("author_rank ASC").
			Scan(&recipes).Error; err != nil {
			return nil, err
		}
	}

	for _, recipe := range recipes {
		byAuthor[recipe.AuthorID] = append(byAuthor[recipe.AuthorID], recipe)
	}
	return byAuthor, nil
}

func (r *userRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}
