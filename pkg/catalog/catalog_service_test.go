package catalog

import (
	"context"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ListIngredients(t *testing.T) {
	db := testutil.DB(t)
	testutil.Ingredient(t, db, "sugar", "g")
	testutil.Ingredient(t, db, "Salt", "g")
	testutil.Ingredient(t, db, "flour", "g")
	testutil.Ingredient(t, db, "salmon", "kg")
	svc := NewCatalogService(NewCatalogRepository(db))

	all, err := svc.ListIngredients(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	res, err := svc.ListIngredients(context.Background(), "sa")
	require.NoError(t, err)
	names := []string{}
	for _, i := range res {
		names = append(names, i.Name)
	}
	assert.ElementsMatch(t, []string{"Salt", "salmon"}, names)

	res, err = svc.ListIngredients(context.Background(), "%")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NotNil(t, res)
}

func TestCatalogService_GetIngredient(t *testing.T) {
	db := testutil.DB(t)
	flour := testutil.Ingredient(t, db, "flour", "g")
	svc := NewCatalogService(NewCatalogRepository(db))

	res, err := svc.GetIngredient(context.Background(), flour.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.IngredientResponse{ID: flour.ID.String(), Name: "flour", MeasurementUnit: "g"}, res)

	_, err = svc.GetIngredient(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	_, err = svc.GetIngredient(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_Tags(t *testing.T) {
	db := testutil.DB(t)
	lunch := testutil.Tag(t, db, "Lunch", "lunch")
	svc := NewCatalogService(NewCatalogRepository(db))

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "lunch", tags[0].Slug)

	tag, err := svc.GetTag(context.Background(), lunch.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Lunch", tag.Name)

	_, err = svc.GetTag(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestCatalogService_ImportIngredientsCSV(t *testing.T) {
	db := testutil.DB(t)
	testutil.Ingredient(t, db, "flour", "g")
	svc := NewCatalogService(NewCatalogRepository(db))

	in := "name,measurement_unit\nflour,g\nmilk,ml\nmilk,ml\neggs,pcs\n"
	res, err := svc.ImportIngredientsCSV(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Read)
	assert.Equal(t, 2, res.Inserted)

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	res, err = svc.ImportIngredientsCSV(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
}

func TestCatalogService_ImportIngredientsCSV_BadInput(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCatalogService(NewCatalogRepository(db))

	_, err := svc.ImportIngredientsCSV(context.Background(), strings.NewReader("title,unit\nflour,g\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidCSVHeader)

	_, err = svc.ImportIngredientsCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidCSVHeader)

	_, err = svc.ImportIngredientsCSV(context.Background(), strings.NewReader("name,measurement_unit\nflour\n"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ImportIngredientsCSV(context.Background(), strings.NewReader("name,measurement_unit\n ,g\n"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalogService_SeedTags(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCatalogService(NewCatalogRepository(db))

	res, err := svc.SeedTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)

	res, err = svc.SeedTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}
