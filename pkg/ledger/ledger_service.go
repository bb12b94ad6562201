package ledger

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	LedgerService interface {
		AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, userID, recipeID string) error
		AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error)
		RemoveFromCart(ctx context.Context, userID, recipeID string) error
		ListCart(ctx context.Context, userID string) ([]domain.RecipeShortResponse, error)
		Subscribe(ctx context.Context, userID, authorID string) error
		Unsubscribe(ctx context.Context, userID, authorID string) error

		IsFavorited(ctx context.Context, userID string, recipeID uuid.UUID) (bool, error)
		IsInCart(ctx context.Context, userID string, recipeID uuid.UUID) (bool, error)
		IsSubscribed(ctx context.Context, userID string, authorID uuid.UUID) (bool, error)
		FavoritedSet(ctx context.Context, userID string, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		CartSet(ctx context.Context, userID string, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		SubscribedSet(ctx context.Context, userID string, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	}

	ledgerService struct {
		ledgerRepository LedgerRepository
		metrics          metrics.Recorder
	}
)

func NewLedgerService(ledgerRepository LedgerRepository, recorder metrics.Recorder) LedgerService {
	if recorder == nil {
		recorder = metrics.Nop()
	}
	return &ledgerService{
		ledgerRepository: ledgerRepository,
		metrics:          recorder,
	}
}

func ToRecipeShortResponse(r *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// requester parses the authenticated identity. Anonymous callers cannot
// write to the ledger.
func requester(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, domain.ErrAnonymousRequester
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}

func (s *ledgerService) recipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.ledgerRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, domain.StoreError(err)
	}
	return recipe, nil
}

func (s *ledgerService) AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error) {
	uid, err := requester(userID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	if err := s.ledgerRepository.CreateFavorite(ctx, &entities.Favorite{UserID: uid, RecipeID: recipe.ID}); err != nil {
		if utils.IsDuplicateKey(err) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShortResponse{}, domain.StoreError(err)
	}
	s.metrics.RecordLedgerChange("favorites", "add")
	return ToRecipeShortResponse(recipe), nil
}

func (s *ledgerService) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	uid, err := requester(userID)
	if err != nil {
		return err
	}
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return err
	}

	affected, err := s.ledgerRepository.DeleteFavorite(ctx, uid, recipe.ID)
	if err != nil {
		return domain.StoreError(err)
	}
	if affected == 0 {
		return domain.ErrNotFavorited
	}
	s.metrics.RecordLedgerChange("favorites", "remove")
	return nil
}

func (s *ledgerService) AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error) {
	uid, err := requester(userID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	if err := s.ledgerRepository.CreateCartEntry(ctx, &entities.ShoppingCartEntry{UserID: uid, RecipeID: recipe.ID}); err != nil {
		if utils.IsDuplicateKey(err) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeShortResponse{}, domain.StoreError(err)
	}
	s.metrics.RecordLedgerChange("cart", "add")
	return ToRecipeShortResponse(recipe), nil
}

func (s *ledgerService) RemoveFromCart(ctx context.Context, userID, recipeID string) error {
	uid, err := requester(userID)
	if err != nil {
		return err
	}
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return err
	}

	affected, err := s.ledgerRepository.DeleteCartEntry(ctx, uid, recipe.ID)
	if err != nil {
		return domain.StoreError(err)
	}
	if affected == 0 {
		return domain.ErrNotInCart
	}
	s.metrics.RecordLedgerChange("cart", "remove")
	return nil
}

func (s *ledgerService) ListCart(ctx context.Context, userID string) ([]domain.RecipeShortResponse, error) {
	uid, err := requester(userID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.ledgerRepository.GetCartRecipes(ctx, uid)
	if err != nil {
		return nil, domain.StoreError(err)
	}

	res := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, ToRecipeShortResponse(r))
	}
	return res, nil
}

func (s *ledgerService) author(ctx context.Context, authorID string) (*entities.User, error) {
	id, err := uuid.Parse(authorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	author, err := s.ledgerRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.StoreError(err)
	}
	return author, nil
}

func (s *ledgerService) Subscribe(ctx context.Context, userID, authorID string) error {
	uid, err := requester(userID)
	if err != nil {
		return err
	}
	if aid, err := uuid.Parse(authorID); err == nil && aid == uid {
		return domain.ErrSelfSubscription
	}
	author, err := s.author(ctx, authorID)
	if err != nil {
		return err
	}

	if err := s.ledgerRepository.CreateSubscription(ctx, &entities.Subscription{UserID: uid, AuthorID: author.ID}); err != nil {
		if utils.IsDuplicateKey(err) {
			return domain.ErrAlreadySubscribed
		}
		return domain.StoreError(err)
	}
	s.metrics.RecordLedgerChange("subscriptions", "add")
	return nil
}

func (s *ledgerService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	uid, err := requester(userID)
	if err != nil {
		return err
	}
	author, err := s.author(ctx, authorID)
	if err != nil {
		return err
	}

	affected, err := s.ledgerRepository.DeleteSubscription(ctx, uid, author.ID)
	if err != nil {
		return domain.StoreError(err)
	}
	if affected == 0 {
		return domain.ErrNotSubscribed
	}
	s.metrics.RecordLedgerChange("subscriptions", "remove")
	return nil
}

// set turns a membership query into a lookup map. Anonymous requesters are
// members of nothing.
func set(userID string, ids []uuid.UUID, query func(uuid.UUID, []uuid.UUID) ([]uuid.UUID, error)) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	if userID == "" || len(ids) == 0 {
		return out, nil
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return out, nil
	}
	found, err := query(uid, ids)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func (s *ledgerService) FavoritedSet(ctx context.Context, userID string, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return set(userID, recipeIDs, func(uid uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
		return s.ledgerRepository.FavoritedRecipeIDs(ctx, uid, ids)
	})
}

func (s *ledgerService) CartSet(ctx context.Context, userID string, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return set(userID, recipeIDs, func(uid uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
		return s.ledgerRepository.CartRecipeIDs(ctx, uid, ids)
	})
}

func (s *ledgerService) SubscribedSet(ctx context.Context, userID string, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return set(userID, authorIDs, func(uid uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
		return s.ledgerRepository.SubscribedAuthorIDs(ctx, uid, ids)
	})
}

func (s *ledgerService) IsFavorited(ctx context.Context, userID string, recipeID uuid.UUID) (bool, error) {
	found, err := s.FavoritedSet(ctx, userID, []uuid.UUID{recipeID})
	return found[recipeID], err
}

func (s *ledgerService) IsInCart(ctx context.Context, userID string, recipeID uuid.UUID) (bool, error) {
	found, err := s.CartSet(ctx, userID, []uuid.UUID{recipeID})
	return found[recipeID], err
}

func (s *ledgerService) IsSubscribed(ctx context.Context, userID string, authorID uuid.UUID) (bool, error) {
	found, err := s.SubscribedSet(ctx, userID, []uuid.UUID{authorID})
	return found[authorID], err
}
