package shoppinglist

import (
	"bytes"
	"context"

	"foodgram/domain"
	"foodgram/internal/metrics"
	"foodgram/internal/utils/document"

	"github.com/google/uuid"
)

const FileName = "shopping_list.pdf"

type (
	ShoppingListService interface {
		BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		DownloadShoppingList(ctx context.Context, userID string) ([]byte, error)
	}

	shoppingListService struct {
		shoppingListRepository ShoppingListRepository
		renderer               document.ShoppingListRenderer
		metrics                metrics.Recorder
	}
)

func NewShoppingListService(shoppingListRepository ShoppingListRepository, renderer document.ShoppingListRenderer, recorder metrics.Recorder) ShoppingListService {
	if recorder == nil {
		recorder = metrics.Nop()
	}
	return &shoppingListService{
		shoppingListRepository: shoppingListRepository,
		renderer:               renderer,
		metrics:                recorder,
	}
}

func (s *shoppingListService) BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	if userID == "" {
		return nil, domain.ErrAnonymousRequester
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	items, err := s.shoppingListRepository.AggregateCart(ctx, uid)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}

func (s *shoppingListService) DownloadShoppingList(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.BuildShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, items); err != nil {
		return nil, err
	}
	s.metrics.RecordShoppingListDownload(len(items))
	return buf.Bytes(), nil
}
