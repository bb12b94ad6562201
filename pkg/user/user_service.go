package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"
	"foodgram/internal/utils/logger"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"
	"foodgram/pkg/ledger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const avatarFolder = "avatars"

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterUserRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, id string, requesterID string) (domain.UserResponse, error)
		ListUsers(ctx context.Context, pagination utils.Pagination, requesterID string) ([]domain.UserResponse, int64, error)
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
		UpdateAvatar(ctx context.Context, userID string, req domain.AvatarRequest) (domain.AvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error
		ListSubscriptions(ctx context.Context, userID string, pagination utils.Pagination, recipesLimit int) ([]domain.SubscriptionResponse, int64, error)
		GetSubscription(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.SubscriptionResponse, error)
	}

	userService struct {
		userRepository UserRepository
		ledgerService  ledger.LedgerService
		jwtService     jwt.JWTService
		media          storage.MediaStore
		mailer         mailing.Mailer
		log            *logger.Logger
	}
)

func NewUserService(
	userRepository UserRepository,
	ledgerService ledger.LedgerService,
	jwtService jwt.JWTService,
	media storage.MediaStore,
	mailer mailing.Mailer,
	log *logger.Logger,
) UserService {
	if log == nil {
		log = logger.Nop()
	}
	return &userService{
		userRepository: userRepository,
		ledgerService:  ledgerService,
		jwtService:     jwtService,
		media:          media,
		mailer:         mailer,
		log:            log.With("service", "user"),
	}
}

func toUserResponse(u *entities.User, subscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       u.AvatarURL,
	}
}

func parseUserID(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, domain.ErrAnonymousRequester
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.StoreError(err)
	}
	return user, nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterUserRequest) (domain.UserResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := utils.ValidateStruct(req); err != nil {
		return domain.UserResponse{}, err
	}

	if taken, err := s.userRepository.IsEmailTaken(ctx, req.Email); err != nil {
		return domain.UserResponse{}, domain.StoreError(err)
	} else if taken {
		return domain.UserResponse{}, domain.ErrEmailTaken
	}
	if taken, err := s.userRepository.IsUsernameTaken(ctx, req.Username); err != nil {
		return domain.UserResponse{}, domain.StoreError(err)
	} else if taken {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if utils.IsDuplicateKey(err) {
			return domain.UserResponse{}, domain.ErrEmailTaken
		}
		return domain.UserResponse{}, domain.StoreError(err)
	}

	if s.mailer != nil {
		subject, body := mailing.WelcomeMail(user.Username)
		if err := s.mailer.SendMail(user.Email, subject, body); err != nil {
			s.log.Warn("failed to send welcome mail", "user_id", user.ID, "error", err)
		}
	}

	return toUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req); err != nil {
		return domain.LoginResponse{}, err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, domain.StoreError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	return domain.LoginResponse{AuthToken: s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, false), nil
}

func (s *userService) GetUser(ctx context.Context, id string, requesterID string) (domain.UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.UserResponse{}, domain.ErrUserNotFound
	}
	user, err := s.findUser(ctx, uid)
	if err != nil {
		return domain.UserResponse{}, err
	}

	subscribed, err := s.ledgerService.IsSubscribed(ctx, requesterID, user.ID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, subscribed), nil
}

func (s *userService) ListUsers(ctx context.Context, pagination utils.Pagination, requesterID string) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, pagination)
	if err != nil {
		return nil, 0, domain.StoreError(err)
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.ledgerService.SubscribedSet(ctx, requesterID, ids)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u, subscribed[u.ID]))
	}
	return res, count, nil
}

func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	id, err := parseUserID(userID)
	if err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongCurrentPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return domain.StoreError(err)
	}
	return nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, req domain.AvatarRequest) (domain.AvatarResponse, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return domain.AvatarResponse{}, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return domain.AvatarResponse{}, err
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	link, err := s.media.SaveImage(ctx, avatarFolder, req.Avatar)
	if err != nil {
		return domain.AvatarResponse{}, err
	}
	if err := s.userRepository.UpdateAvatar(ctx, user.ID, link); err != nil {
		s.dropImage(ctx, link)
		return domain.AvatarResponse{}, domain.StoreError(err)
	}
	s.dropImage(ctx, user.AvatarURL)
	return domain.AvatarResponse{Avatar: link}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	id, err := parseUserID(userID)
	if err != nil {
		return err
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepository.UpdateAvatar(ctx, user.ID, ""); err != nil {
		return domain.StoreError(err)
	}
	s.dropImage(ctx, user.AvatarURL)
	return nil
}

func toSubscriptionResponse(author *entities.User, recipes []*entities.Recipe, recipeCount int64) domain.SubscriptionResponse {
	res := domain.SubscriptionResponse{
		RecipeAuthor: toUserResponse(author, true),
		Recipes:      make([]domain.RecipeShortResponse, 0, len(recipes)),
		RecipesCount: recipeCount,
	}
	for _, r := range recipes {
		res.Recipes = append(res.Recipes, ledger.ToRecipeShortResponse(r))
	}
	return res
}

// subscriptions builds the view for a page of authors with one count query
// and one recipe query.
func (s *userService) subscriptions(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.SubscriptionResponse, error) {
	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.userRepository.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	recipes, err := s.userRepository.GetRecipesByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, domain.StoreError(err)
	}

	res := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, a := range authors {
		res = append(res, toSubscriptionResponse(a, recipes[a.ID], counts[a.ID]))
	}
	return res, nil
}

// ListSubscriptions pages through the authors userID follows. recipesLimit
// caps the recipes listed per author; negative means no cap.
func (s *userService) ListSubscriptions(ctx context.Context, userID string, pagination utils.Pagination, recipesLimit int) ([]domain.SubscriptionResponse, int64, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, 0, err
	}

	authors, count, err := s.userRepository.GetSubscribedAuthors(ctx, id, pagination)
	if err != nil {
		return nil, 0, domain.StoreError(err)
	}

	res, err := s.subscriptions(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *userService) GetSubscription(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.SubscriptionResponse, error) {
	if _, err := parseUserID(userID); err != nil {
		return domain.SubscriptionResponse{}, err
	}
	aid, err := uuid.Parse(authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrUserNotFound
	}
	author, err := s.findUser(ctx, aid)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	subscribed, err := s.ledgerService.IsSubscribed(ctx, userID, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if !subscribed {
		return domain.SubscriptionResponse{}, domain.ErrNotSubscribed
	}

	res, err := s.subscriptions(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	return res[0], nil
}

func (s *userService) dropImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	if err := s.media.DeleteImage(ctx, link); err != nil {
		s.log.Warn("failed to delete avatar", "link", link, "error", err)
	}
}
