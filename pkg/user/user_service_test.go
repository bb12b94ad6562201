package user

import (
	"context"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/internal/utils"
	"foodgram/pkg/jwt"
	"foodgram/pkg/ledger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    UserService
	jwt    jwt.JWTService
	media  *testutil.MediaStore
	mailer *testutil.Mailer
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.DB(t)
	jwtService := jwt.NewJWTServiceWithSecret("secret", time.Hour)
	media := &testutil.MediaStore{}
	mailer := &testutil.Mailer{}
	ledgerService := ledger.NewLedgerService(ledger.NewLedgerRepository(db), nil)

	return fixture{
		db:     db,
		svc:    NewUserService(NewUserRepository(db), ledgerService, jwtService, media, mailer, nil),
		jwt:    jwtService,
		media:  media,
		mailer: mailer,
	}
}

func registerRequest(name string) domain.RegisterUserRequest {
	return domain.RegisterUserRequest{
		Email:     name + "@example.com",
		Username:  name,
		FirstName: "Ann",
		LastName:  "Smith",
		Password:  "s3cret-pass",
	}
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, registerRequest("ann"))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, []string{"ann@example.com"}, f.mailer.Sent)

	var stored entities.User
	require.NoError(t, f.db.Where("id = ?", user.ID).First(&stored).Error)
	assert.NotEqual(t, "s3cret-pass", stored.Password)

	res, err := f.svc.Login(ctx, domain.LoginRequest{Email: "ANN@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	id, role, err := f.jwt.GetUserIDByToken(res.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, domain.RoleUser, role)

	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserService_RegisterRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerRequest("ann"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerRequest("ann"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	req := registerRequest("ann")
	req.Email = "other@example.com"
	_, err = f.svc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	req = registerRequest("bob")
	req.Email = "not-an-email"
	req.Password = "short"
	_, err = f.svc.Register(ctx, req)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("email"))
	assert.True(t, verr.Has("password"))
}

func TestUserService_SetPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user, err := f.svc.Register(ctx, registerRequest("ann"))
	require.NoError(t, err)

	err = f.svc.SetPassword(ctx, user.ID, domain.SetPasswordRequest{CurrentPassword: "nope-nope", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, f.svc.SetPassword(ctx, user.ID, domain.SetPasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "another-pass"}))

	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: user.Email, Password: "another-pass"})
	assert.NoError(t, err)
}

func TestUserService_Avatar(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user, err := f.svc.Register(ctx, registerRequest("ann"))
	require.NoError(t, err)

	first, err := f.svc.UpdateAvatar(ctx, user.ID, domain.AvatarRequest{Avatar: "data:image/png;base64,AAAA"})
	require.NoError(t, err)
	second, err := f.svc.UpdateAvatar(ctx, user.ID, domain.AvatarRequest{Avatar: "data:image/png;base64,BBBB"})
	require.NoError(t, err)
	assert.Equal(t, []string{first.Avatar}, f.media.Deleted)

	me, err := f.svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Avatar, me.Avatar)

	require.NoError(t, f.svc.DeleteAvatar(ctx, user.ID))
	me, err = f.svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, me.Avatar)
	assert.Equal(t, []string{first.Avatar, second.Avatar}, f.media.Deleted)

	_, err = f.svc.UpdateAvatar(ctx, user.ID, domain.AvatarRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_GetAndListUsers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ann := testutil.User(t, f.db, "ann")
	bob := testutil.User(t, f.db, "bob")
	testutil.Subscribe(t, f.db, ann, bob)

	got, err := f.svc.GetUser(ctx, bob.ID.String(), ann.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)

	got, err = f.svc.GetUser(ctx, bob.ID.String(), "")
	require.NoError(t, err)
	assert.False(t, got.IsSubscribed)

	_, err = f.svc.GetUser(ctx, uuid.NewString(), "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, count, err := f.svc.ListUsers(ctx, utils.Pagination{Page: 1, Limit: 10}, ann.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, users, 2)
	assert.Equal(t, "ann", users[0].Username)
	assert.False(t, users[0].IsSubscribed)
	assert.True(t, users[1].IsSubscribed)

	_, err = f.svc.Me(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserService_Subscriptions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ann := testutil.User(t, f.db, "ann")
	bob := testutil.User(t, f.db, "bob")
	cid := testutil.User(t, f.db, "cid")
	flour := testutil.Ingredient(t, f.db, "flour", "g")
	line := []testutil.Line{{Ingredient: flour, Amount: 1}}
	testutil.Recipe(t, f.db, bob, "one", line)
	testutil.Recipe(t, f.db, bob, "two", line)
	testutil.Recipe(t, f.db, bob, "three", line)
	testutil.Subscribe(t, f.db, ann, bob)
	testutil.Subscribe(t, f.db, ann, cid)

	subs, count, err := f.svc.ListSubscriptions(ctx, ann.ID.String(), utils.Pagination{Page: 1, Limit: 10}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, subs, 2)
	assert.Equal(t, "bob", subs[0].Username)
	assert.True(t, subs[0].IsSubscribed)
	assert.EqualValues(t, 3, subs[0].RecipesCount)
	assert.Len(t, subs[0].Recipes, 2)
	assert.Equal(t, "three", subs[0].Recipes[0].Name)
	assert.Equal(t, "cid", subs[1].Username)
	assert.Zero(t, subs[1].RecipesCount)
	assert.NotNil(t, subs[1].Recipes)

	sub, err := f.svc.GetSubscription(ctx, ann.ID.String(), bob.ID.String(), -1)
	require.NoError(t, err)
	assert.Len(t, sub.Recipes, 3)

	_, err = f.svc.GetSubscription(ctx, bob.ID.String(), ann.ID.String(), -1)
	assert.ErrorIs(t, err, domain.ErrNotSubscribed)
}
