package domain

import "fmt"

var (
	MessageSuccessAddFavorite    = "recipe added to favorites"
	MessageSuccessRemoveFavorite = "recipe removed from favorites"
	MessageSuccessAddToCart      = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart = "recipe removed from shopping cart"
	MessageSuccessGetCart        = "success get shopping cart"
	MessageSuccessSubscribe      = "subscribed successfully"
	MessageSuccessUnsubscribe    = "unsubscribed successfully"

	MessageFailedAddFavorite    = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite = "failed to remove recipe from favorites"
	MessageFailedAddToCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart = "failed to remove recipe from shopping cart"
	MessageFailedGetCart        = "failed to get shopping cart"
	MessageFailedSubscribe      = "failed to subscribe"
	MessageFailedUnsubscribe    = "failed to unsubscribe"

	ErrAlreadyFavorited   = fmt.Errorf("%w: recipe is already in favorites", ErrConflict)
	ErrNotFavorited       = fmt.Errorf("%w: recipe is not in favorites", ErrNotFound)
	ErrAlreadyInCart      = fmt.Errorf("%w: recipe is already in shopping cart", ErrConflict)
	ErrNotInCart          = fmt.Errorf("%w: recipe is not in shopping cart", ErrNotFound)
	ErrAlreadySubscribed  = fmt.Errorf("%w: already subscribed to this author", ErrConflict)
	ErrNotSubscribed      = fmt.Errorf("%w: not subscribed to this author", ErrNotFound)
	ErrSelfSubscription   = NewFieldError("author", "cannot subscribe to yourself")
	ErrAnonymousRequester = fmt.Errorf("%w: authentication required", ErrUnauthorized)
)

type SubscriptionResponse struct {
	RecipeAuthor
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}
