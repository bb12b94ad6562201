package domain

import (
	"fmt"
	"time"
)

const (
	MinAmount      = 1
	MaxAmount      = 10000
	MinCookingTime = 1
	MaxCookingTime = 10000
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"

	ErrRecipeNotFound           = fmt.Errorf("%w: recipe not found", ErrNotFound)
	ErrUnauthorizedRecipeAccess = fmt.Errorf("%w: only the author can change this recipe", ErrPermission)
)

type (
	// RecipeIngredientRequest is one line of the write contract.
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"min=1,max=10000"`
	}

	CreateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Image       string                    `json:"image" validate:"required"`
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"min=1,max=10000"`
	}

	// UpdateRecipeRequest leaves nil fields untouched. Ingredients and Tags
	// replace the stored collections and must be sent together.
	UpdateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"omitempty,dive"`
		Tags        []string                  `json:"tags" validate:"omitempty,dive,uuid"`
		Image       *string                   `json:"image" validate:"omitempty,min=1"`
		Name        *string                   `json:"name" validate:"omitempty,min=1,max=256"`
		Text        *string                   `json:"text" validate:"omitempty,min=1"`
		CookingTime *int                      `json:"cooking_time" validate:"omitempty,min=1,max=10000"`
	}

	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeAuthor struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
		Avatar       string `json:"avatar,omitempty"`
	}

	// RecipeResponse is the read projection of a recipe for one requester.
	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           RecipeAuthor               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		FavoritesCount   int64                      `json:"favorites_count"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}
)
