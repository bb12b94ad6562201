package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var DefaultTags = []entities.Tag{
	{Name: "Breakfast", Slug: "breakfast"},
	{Name: "Dinner", Slug: "dinner"},
	{Name: "Supper", Slug: "supper"},
}

type (
	CatalogService interface {
		ListIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
		GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error)
		ListTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTag(ctx context.Context, id string) (domain.TagResponse, error)
		ImportIngredientsCSV(ctx context.Context, r io.Reader) (domain.ImportResult, error)
		SeedTags(ctx context.Context) (domain.ImportResult, error)
	}

	catalogService struct {
		catalogRepository CatalogRepository
	}
)

func NewCatalogService(catalogRepository CatalogRepository) CatalogService {
	return &catalogService{
		catalogRepository: catalogRepository,
	}
}

func ToIngredientResponse(i *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func ToTagResponse(t *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:   t.ID.String(),
		Name: t.Name,
		Slug: t.Slug,
	}
}

func (s *catalogService) ListIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.catalogRepository.GetIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, domain.StoreError(err)
	}

	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		res = append(res, ToIngredientResponse(i))
	}
	return res, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.IngredientResponse{}, domain.ErrIngredientNotFound
	}

	ingredient, err := s.catalogRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, domain.StoreError(err)
	}
	return ToIngredientResponse(ingredient), nil
}

func (s *catalogService) ListTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.catalogRepository.GetTags(ctx)
	if err != nil {
		return nil, domain.StoreError(err)
	}

	res := make([]domain.TagResponse, 0, len(tags))
	for _, t := range tags {
		res = append(res, ToTagResponse(t))
	}
	return res, nil
}

func (s *catalogService) GetTag(ctx context.Context, id string) (domain.TagResponse, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return domain.TagResponse{}, domain.ErrTagNotFound
	}

	tag, err := s.catalogRepository.GetTagByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TagResponse{}, domain.ErrTagNotFound
		}
		return domain.TagResponse{}, domain.StoreError(err)
	}
	return ToTagResponse(tag), nil
}

// ImportIngredientsCSV loads "name,measurement_unit" rows. Rows already in
// the catalog, or repeated within the file, are skipped.
func (s *catalogService) ImportIngredientsCSV(ctx context.Context, r io.Reader) (domain.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ImportResult{}, domain.ErrInvalidCSVHeader
		}
		return domain.ImportResult{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if len(header) != 2 || strings.TrimSpace(header[0]) != "name" || strings.TrimSpace(header[1]) != "measurement_unit" {
		return domain.ImportResult{}, domain.ErrInvalidCSVHeader
	}

	var result domain.ImportResult
	seen := make(map[[2]string]bool)
	var rows []*entities.Ingredient
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		result.Read++

		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			line, _ := reader.FieldPos(0)
			return result, domain.NewRowError("rows", line, "", "name and measurement_unit are required")
		}
		key := [2]string{name, unit}
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, &entities.Ingredient{Name: name, MeasurementUnit: unit})
	}

	inserted, err := s.catalogRepository.CreateIngredients(ctx, rows)
	if err != nil {
		return result, domain.StoreError(err)
	}
	result.Inserted = int(inserted)
	return result, nil
}

func (s *catalogService) SeedTags(ctx context.Context) (domain.ImportResult, error) {
	tags := make([]*entities.Tag, 0, len(DefaultTags))
	for _, t := range DefaultTags {
		tags = append(tags, &entities.Tag{Name: t.Name, Slug: t.Slug})
	}

	inserted, err := s.catalogRepository.CreateTags(ctx, tags)
	if err != nil {
		return domain.ImportResult{}, domain.StoreError(err)
	}
	return domain.ImportResult{Read: len(tags), Inserted: int(inserted)}, nil
}
