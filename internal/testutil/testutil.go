// Package testutil gives package tests a migrated in-memory database and
// small fixture builders.
package testutil

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	migration "foodgram/cmd/database/migrate"
	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB opens a fresh sqlite database private to the test and migrates it.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func User(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First " + username,
		LastName:  "Last " + username,
		Password:  "x",
		Role:      domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Ingredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	i := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(i).Error)
	return i
}

func Tag(t *testing.T, db *gorm.DB, name, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Line pairs an ingredient with an amount for Recipe.
type Line struct {
	Ingredient *entities.Ingredient
	Amount     int
}

// Recipe writes a recipe with its lines and tags straight to the store.
func Recipe(t *testing.T, db *gorm.DB, author *entities.User, name string, lines []Line, tags ...*entities.Tag) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		ImageURL:    "https://media.test/recipes/" + name + ".jpg",
		Text:        "Cook " + name,
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Author", "Ingredients", "Tags").Create(r).Error)
	for i, l := range lines {
		require.NoError(t, db.Create(&entities.RecipeIngredient{
			RecipeID:     r.ID,
			IngredientID: l.Ingredient.ID,
			Amount:       l.Amount,
			Position:     i,
		}).Error)
	}
	for _, tag := range tags {
		require.NoError(t, db.Create(&entities.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error)
	}
	return r
}

func Favorite(t *testing.T, db *gorm.DB, user *entities.User, recipe *entities.Recipe) {
	t.Helper()
	require.NoError(t, db.Create(&entities.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error)
}

func Cart(t *testing.T, db *gorm.DB, user *entities.User, recipe *entities.Recipe) {
	t.Helper()
	require.NoError(t, db.Create(&entities.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}).Error)
}

func Subscribe(t *testing.T, db *gorm.DB, user, author *entities.User) {
	t.Helper()
	require.NoError(t, db.Create(&entities.Subscription{UserID: user.ID, AuthorID: author.ID}).Error)
}

// PNGDataURI returns a small valid image as a base64 data URI.
func PNGDataURI(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// PDFText returns s the way a UTF-8 font writes it into an uncompressed
// PDF content stream: UTF-16BE with no byte order mark.
func PDFText(t *testing.T, s string) []byte {
	t.Helper()
	out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

// MediaStore is an in-memory storage.MediaStore.
type MediaStore struct {
	mu      sync.Mutex
	n       int
	Saved   []string
	Deleted []string
}

func (m *MediaStore) SaveImage(ctx context.Context, folder string, dataURI string) (string, error) {
	if dataURI == "" {
		return "", domain.NewFieldError("image", "this field is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	link := fmt.Sprintf("https://media.test/%s/%d.jpg", folder, m.n)
	m.Saved = append(m.Saved, link)
	return link, nil
}

func (m *MediaStore) DeleteImage(ctx context.Context, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, link)
	return nil
}

// Mailer records outgoing mail instead of sending it.
type Mailer struct {
	mu   sync.Mutex
	Sent []string
}

func (m *Mailer) SendMail(toEmail string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, toEmail)
	return nil
}
