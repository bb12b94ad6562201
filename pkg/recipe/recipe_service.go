package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/utils"
	"foodgram/internal/utils/logger"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/catalog"
	"foodgram/pkg/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipe(ctx context.Context, recipeID string, requesterID string) (domain.RecipeResponse, error)
		ListRecipes(ctx context.Context, filter domain.RecipeFilter, pagination utils.Pagination, requesterID string) ([]domain.RecipeResponse, int64, error)
		FavoritesCount(ctx context.Context, recipeID string) (int64, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		ledgerService     ledger.LedgerService
		media             storage.MediaStore
		metrics           metrics.Recorder
		log               *logger.Logger
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	ledgerService ledger.LedgerService,
	media storage.MediaStore,
	recorder metrics.Recorder,
	log *logger.Logger,
) RecipeService {
	if recorder == nil {
		recorder = metrics.Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		ledgerService:     ledgerService,
		media:             media,
		metrics:           recorder,
		log:               log.With("service", "recipe"),
	}
}

func parseRequester(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, domain.ErrAnonymousRequester
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error) {
	author, err := parseRequester(authorID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := utils.ValidateStruct(req); err != nil {
		return domain.RecipeResponse{}, err
	}
	lines, tagIDs, err := s.checkCollections(ctx, req.Ingredients, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL, err := s.media.SaveImage(ctx, imageFolder, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    author,
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, lines, tagIDs); err != nil {
		s.dropImage(ctx, imageURL)
		return domain.RecipeResponse{}, domain.StoreError(err)
	}
	s.metrics.RecordRecipeWrite("create")

	return s.GetRecipe(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	requester, err := parseRequester(userID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	recipe, err := s.ownedRecipe(ctx, recipeID, requester)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := utils.ValidateStruct(req); err != nil {
		return domain.RecipeResponse{}, err
	}

	var (
		lines  []*entities.RecipeIngredient
		tagIDs []uuid.UUID
	)
	switch {
	case req.Ingredients == nil && req.Tags == nil:
	case req.Ingredients == nil:
		return domain.RecipeResponse{}, domain.NewFieldError("ingredients", "must be sent together with tags")
	case req.Tags == nil:
		return domain.RecipeResponse{}, domain.NewFieldError("tags", "must be sent together with ingredients")
	default:
		lines, tagIDs, err = s.checkCollections(ctx, req.Ingredients, req.Tags)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	oldImage := ""
	if req.Image != nil {
		imageURL, err := s.media.SaveImage(ctx, imageFolder, *req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		oldImage, recipe.ImageURL = recipe.ImageURL, imageURL
	}
	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, lines, tagIDs); err != nil {
		if oldImage != "" {
			s.dropImage(ctx, recipe.ImageURL)
		}
		return domain.RecipeResponse{}, domain.StoreError(err)
	}
	s.metrics.RecordRecipeWrite("update")
	if oldImage != "" {
		s.dropImage(ctx, oldImage)
	}

	return s.GetRecipe(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	requester, err := parseRequester(userID)
	if err != nil {
		return err
	}
	recipe, err := s.ownedRecipe(ctx, recipeID, requester)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return domain.StoreError(err)
	}
	s.metrics.RecordRecipeWrite("delete")
	s.dropImage(ctx, recipe.ImageURL)
	return nil
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string, requesterID string) (domain.RecipeResponse, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	res, err := s.project(ctx, []*entities.Recipe{recipe}, requesterID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return res[0], nil
}

// ListRecipes returns one page of recipes matching filter. Membership
// filters select nothing for an anonymous requester.
func (s *recipeService) ListRecipes(ctx context.Context, filter domain.RecipeFilter, pagination utils.Pagination, requesterID string) ([]domain.RecipeResponse, int64, error) {
	query := RecipeQuery{TagSlugs: filter.Tags}

	if filter.AuthorID != "" {
		authorID, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return []domain.RecipeResponse{}, 0, nil
		}
		query.AuthorID = &authorID
	}

	if filter.IsFavorited || filter.IsInShoppingCart {
		requester, err := uuid.Parse(requesterID)
		if requesterID == "" || err != nil {
			return []domain.RecipeResponse{}, 0, nil
		}
		if filter.IsFavorited {
			query.FavoritedBy = &requester
		}
		if filter.IsInShoppingCart {
			query.InCartOf = &requester
		}
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, query, pagination)
	if err != nil {
		return nil, 0, domain.StoreError(err)
	}

	res, err := s.project(ctx, recipes, requesterID)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *recipeService) FavoritesCount(ctx context.Context, recipeID string) (int64, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return 0, domain.ErrRecipeNotFound
	}
	counts, err := s.recipeRepository.CountFavorites(ctx, []uuid.UUID{id})
	if err != nil {
		return 0, domain.StoreError(err)
	}
	return counts[id], nil
}

func (s *recipeService) findRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, domain.StoreError(err)
	}
	return recipe, nil
}

// ownedRecipe loads the recipe and rejects anyone but its author.
func (s *recipeService) ownedRecipe(ctx context.Context, recipeID string, requester uuid.UUID) (*entities.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != requester {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

// checkCollections rejects empty, duplicate and unknown ingredient and tag
// references, reporting every offending row at once.
func (s *recipeService) checkCollections(ctx context.Context, ingredients []domain.RecipeIngredientRequest, tags []string) ([]*entities.RecipeIngredient, []uuid.UUID, error) {
	verr := &domain.ValidationError{}
	if len(ingredients) == 0 {
		verr.Fields = append(verr.Fields, domain.FieldError{Field: "ingredients", Index: -1, Message: "must contain at least 1 item(s)"})
	}
	if len(tags) == 0 {
		verr.Fields = append(verr.Fields, domain.FieldError{Field: "tags", Index: -1, Message: "must contain at least 1 item(s)"})
	}

	lines := make([]*entities.RecipeIngredient, 0, len(ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(ingredients))
	seenIngredients := make(map[uuid.UUID]bool, len(ingredients))
	for i, item := range ingredients {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "ingredients", Index: i, Name: "id", Message: "must be a valid UUID"})
			continue
		}
		if seenIngredients[id] {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "ingredients", Index: i, Name: "id", Message: "ingredient is listed more than once"})
			continue
		}
		if item.Amount < domain.MinAmount || item.Amount > domain.MaxAmount {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "ingredients", Index: i, Name: "amount", Message: "must be between 1 and 10000"})
		}
		seenIngredients[id] = true
		ingredientIDs = append(ingredientIDs, id)
		lines = append(lines, &entities.RecipeIngredient{IngredientID: id, Amount: item.Amount})
	}

	tagIDs := make([]uuid.UUID, 0, len(tags))
	seenTags := make(map[uuid.UUID]bool, len(tags))
	for i, raw := range tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "tags", Index: i, Message: "must be a valid UUID"})
			continue
		}
		if seenTags[id] {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "tags", Index: i, Message: "tag is listed more than once"})
			continue
		}
		seenTags[id] = true
		tagIDs = append(tagIDs, id)
	}

	knownIngredients, err := s.catalogRepository.ExistingIngredientIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, domain.StoreError(err)
	}
	knownTags, err := s.catalogRepository.ExistingTagIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, domain.StoreError(err)
	}
	for i, item := range ingredients {
		if id, err := uuid.Parse(item.ID); err == nil && seenIngredients[id] && !knownIngredients[id] {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "ingredients", Index: i, Name: "id", Message: "ingredient does not exist"})
		}
	}
	for i, raw := range tags {
		if id, err := uuid.Parse(raw); err == nil && seenTags[id] && !knownTags[id] {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "tags", Index: i, Message: "tag does not exist"})
		}
	}

	if len(verr.Fields) > 0 {
		return nil, nil, verr
	}
	return lines, tagIDs, nil
}

// project builds the read view of recipes for one requester, resolving the
// derived flags and counts with one query each for the whole batch.
func (s *recipeService) project(ctx context.Context, recipes []*entities.Recipe, requesterID string) ([]domain.RecipeResponse, error) {
	res := make([]domain.RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return res, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.ledgerService.FavoritedSet(ctx, requesterID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.ledgerService.CartSet(ctx, requesterID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.ledgerService.SubscribedSet(ctx, requesterID, authorIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.recipeRepository.CountFavorites(ctx, recipeIDs)
	if err != nil {
		return nil, domain.StoreError(err)
	}

	for _, r := range recipes {
		item := domain.RecipeResponse{
			ID:               r.ID.String(),
			Tags:             make([]domain.TagResponse, 0, len(r.Tags)),
			Ingredients:      make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			FavoritesCount:   counts[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		}
		if r.Author != nil {
			item.Author = domain.RecipeAuthor{
				ID:           r.Author.ID.String(),
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: subscribed[r.Author.ID],
				Avatar:       r.Author.AvatarURL,
			}
		}
		for _, t := range r.Tags {
			item.Tags = append(item.Tags, catalog.ToTagResponse(t))
		}
		for _, line := range r.Ingredients {
			ingredient := domain.RecipeIngredientResponse{
				ID:     line.IngredientID.String(),
				Amount: line.Amount,
			}
			if line.Ingredient != nil {
				ingredient.Name = line.Ingredient.Name
				ingredient.MeasurementUnit = line.Ingredient.MeasurementUnit
			}
			item.Ingredients = append(item.Ingredients, ingredient)
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *recipeService) dropImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	if err := s.media.DeleteImage(ctx, link); err != nil {
		s.log.Warn("failed to delete recipe image", "link", link, "error", err)
	}
}
