package user

import (
	"context"
	"testing"
	"time"

	"foodgram/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// statementCounter counts the SQL statements a session executes.
type statementCounter struct {
	logger.Interface
	n int
}

func (c *statementCounter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	c.n++
}

func TestUserRepository_GetRecipesByAuthors(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	bob := testutil.User(t, db, "bob")
	cid := testutil.User(t, db, "cid")
	dan := testutil.User(t, db, "dan")
	flour := testutil.Ingredient(t, db, "flour", "g")
	line := []testutil.Line{{Ingredient: flour, Amount: 1}}
	testutil.Recipe(t, db, bob, "one", line)
	testutil.Recipe(t, db, bob, "two", line)
	testutil.Recipe(t, db, bob, "three", line)
	testutil.Recipe(t, db, cid, "soup", line)
	ids := []uuid.UUID{bob.ID, cid.ID, dan.ID}

	counter := &statementCounter{Interface: logger.Discard}
	repo := NewUserRepository(db.Session(&gorm.Session{Logger: counter}))

	byAuthor, err := repo.GetRecipesByAuthors(ctx, ids, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.n)
	require.Len(t, byAuthor[bob.ID], 2)
	assert.Equal(t, "three", byAuthor[bob.ID][0].Name)
	assert.Equal(t, "two", byAuthor[bob.ID][1].Name)
	require.Len(t, byAuthor[cid.ID], 1)
	assert.Equal(t, "soup", byAuthor[cid.ID][0].Name)
	assert.Equal(t, cid.ID, byAuthor[cid.ID][0].AuthorID)
	assert.Empty(t, byAuthor[dan.ID])

	byAuthor, err = repo.GetRecipesByAuthors(ctx, ids, -1)
	require.NoError(t, err)
	assert.Len(t, byAuthor[bob.ID], 3)
	assert.Len(t, byAuthor[cid.ID], 1)

	counter.n = 0
	byAuthor, err = repo.GetRecipesByAuthors(ctx, ids, 0)
	require.NoError(t, err)
	assert.Empty(t, byAuthor)
	assert.Zero(t, counter.n)
}
