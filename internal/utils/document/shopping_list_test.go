package document

import (
	"bytes"
	"testing"

	"foodgram/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	items := []domain.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 500},
		{Name: "salt", MeasurementUnit: "pinch", TotalAmount: 2},
	}

	assert.Equal(t, []string{"1. flour - 500 g.", "2. salt - 2 pinch."}, Lines(items))
}

func TestLines_Empty(t *testing.T) {
	assert.Equal(t, []string{domain.ShoppingListEmpty}, Lines(nil))
	assert.Equal(t, []string{domain.ShoppingListEmpty}, Lines([]domain.ShoppingListItem{}))
}

func TestShoppingListPDF_Render(t *testing.T) {
	var buf bytes.Buffer
	err := NewShoppingListPDF(false).Render(&buf, []domain.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 500},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, testutil.PDFText(t, "1. flour - 500 g.")))
	assert.True(t, bytes.Contains(out, testutil.PDFText(t, domain.ShoppingListTitle)))
}

func TestShoppingListPDF_RenderNonLatin(t *testing.T) {
	var buf bytes.Buffer
	err := NewShoppingListPDF(false).Render(&buf, []domain.ShoppingListItem{
		{Name: "мука", MeasurementUnit: "г", TotalAmount: 500},
		{Name: "crème fraîche", MeasurementUnit: "ml", TotalAmount: 200},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.Contains(out, testutil.PDFText(t, "1. мука - 500 г.")))
	assert.True(t, bytes.Contains(out, testutil.PDFText(t, "2. crème fraîche - 200 ml.")))
	assert.True(t, bytes.Contains(out, []byte("/FontFile2")))
}

func TestShoppingListPDF_RenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewShoppingListPDF(false).Render(&buf, nil))

	assert.True(t, bytes.Contains(buf.Bytes(), testutil.PDFText(t, domain.ShoppingListEmpty)))
}
