package recipe

import (
	"context"
	"testing"

	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRepository_CreateRecipe_RollsBack(t *testing.T) {
	db := testutil.DB(t)
	repo := NewRecipeRepository(db)
	author := testutil.User(t, db, "author")
	flour := testutil.Ingredient(t, db, "flour", "g")
	tag := testutil.Tag(t, db, "Dinner", "dinner")

	recipe := &entities.Recipe{AuthorID: author.ID, Name: "broken", ImageURL: "x", Text: "x", CookingTime: 1}
	lines := []*entities.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 1},
		{IngredientID: flour.ID, Amount: 2},
	}

	err := repo.CreateRecipe(context.Background(), recipe, lines, []uuid.UUID{tag.ID})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&entities.Recipe{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&entities.RecipeTag{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecipeRepository_UpdateRecipe_RollsBack(t *testing.T) {
	db := testutil.DB(t)
	repo := NewRecipeRepository(db)
	author := testutil.User(t, db, "author")
	flour := testutil.Ingredient(t, db, "flour", "g")
	tag := testutil.Tag(t, db, "Dinner", "dinner")
	recipe := testutil.Recipe(t, db, author, "bread", []testutil.Line{{Ingredient: flour, Amount: 5}}, tag)

	recipe.Name = "renamed"
	err := repo.UpdateRecipe(context.Background(), recipe, []*entities.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 1},
		{IngredientID: flour.ID, Amount: 2},
	}, []uuid.UUID{tag.ID})
	require.Error(t, err)

	stored, err := repo.GetRecipeByID(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "bread", stored.Name)
	require.Len(t, stored.Ingredients, 1)
	assert.Equal(t, 5, stored.Ingredients[0].Amount)
	assert.Len(t, stored.Tags, 1)
}
