package shoppinglist

import (
	"bytes"
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingListService_BuildShoppingList(t *testing.T) {
	db := testutil.DB(t)
	svc := NewShoppingListService(NewShoppingListRepository(db), document.NewShoppingListPDF(false), nil)

	author := testutil.User(t, db, "author")
	buyer := testutil.User(t, db, "buyer")
	flour := testutil.Ingredient(t, db, "flour", "g")
	flourCups := testutil.Ingredient(t, db, "flour", "cup")
	eggs := testutil.Ingredient(t, db, "eggs", "pcs")
	salt := testutil.Ingredient(t, db, "salt", "g")

	bread := testutil.Recipe(t, db, author, "bread", []testutil.Line{{Ingredient: flour, Amount: 200}, {Ingredient: salt, Amount: 5}})
	cake := testutil.Recipe(t, db, author, "cake", []testutil.Line{{Ingredient: flour, Amount: 300}, {Ingredient: eggs, Amount: 3}, {Ingredient: flourCups, Amount: 1}})
	other := testutil.Recipe(t, db, author, "other", []testutil.Line{{Ingredient: salt, Amount: 100}})
	testutil.Cart(t, db, buyer, bread)
	testutil.Cart(t, db, buyer, cake)
	testutil.Cart(t, db, author, other)

	items, err := svc.BuildShoppingList(context.Background(), buyer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 3},
		{Name: "flour", MeasurementUnit: "cup", TotalAmount: 1},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 500},
		{Name: "salt", MeasurementUnit: "g", TotalAmount: 5},
	}, items)
}

func TestShoppingListService_EmptyCart(t *testing.T) {
	db := testutil.DB(t)
	svc := NewShoppingListService(NewShoppingListRepository(db), document.NewShoppingListPDF(false), nil)
	buyer := testutil.User(t, db, "buyer")

	items, err := svc.BuildShoppingList(context.Background(), buyer.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	pdf, err := svc.DownloadShoppingList(context.Background(), buyer.ID.String())
	require.NoError(t, err)
	assert.True(t, bytes.Contains(pdf, []byte(domain.ShoppingListEmpty)))
}

func TestShoppingListService_Download(t *testing.T) {
	db := testutil.DB(t)
	svc := NewShoppingListService(NewShoppingListRepository(db), document.NewShoppingListPDF(false), nil)
	buyer := testutil.User(t, db, "buyer")
	flour := testutil.Ingredient(t, db, "flour", "g")
	testutil.Cart(t, db, buyer, testutil.Recipe(t, db, buyer, "bread", []testutil.Line{{Ingredient: flour, Amount: 250}}))

	pdf, err := svc.DownloadShoppingList(context.Background(), buyer.ID.String())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.True(t, bytes.Contains(pdf, []byte("1. flour - 250 g.")))
}

func TestShoppingListService_Anonymous(t *testing.T) {
	db := testutil.DB(t)
	svc := NewShoppingListService(NewShoppingListRepository(db), document.NewShoppingListPDF(false), nil)

	_, err := svc.BuildShoppingList(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
