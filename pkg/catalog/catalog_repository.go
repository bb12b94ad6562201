package catalog

import (
	"context"
	"strings"

	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

type (
	CatalogRepository interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error)
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTagByID(ctx context.Context, id uuid.UUID) (*entities.Tag, error)
		ExistingIngredientIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
		ExistingTagIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
		CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) (int64, error)
		CreateTags(ctx context.Context, tags []*entities.Tag) (int64, error)
	}

	catalogRepository struct {
		db *gorm.DB
	}
)

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *catalogRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	query := r.db.WithContext(ctx)
	if namePrefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(namePrefix)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	if err := query.Order("name ASC, measurement_unit ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *catalogRepository) GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *catalogRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *catalogRepository) GetTagByID(ctx context.Context, id uuid.UUID) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *catalogRepository) existing(ctx context.Context, model any, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []uuid.UUID
	if err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = true
	}
	return found, nil
}

func (r *catalogRepository) ExistingIngredientIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.existing(ctx, &entities.Ingredient{}, ids)
}

func (r *catalogRepository) ExistingTagIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.existing(ctx, &entities.Tag{}, ids)
}

// CreateIngredients inserts in batches and silently skips rows that clash
// with an existing (name, measurement_unit) pair.
func (r *catalogRepository) CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, insertBatchSize)
	return res.RowsAffected, res.Error
}

func (r *catalogRepository) CreateTags(ctx context.Context, tags []*entities.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(tags)
	return res.RowsAffected, res.Error
}
