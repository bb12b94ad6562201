package domain

import "fmt"

var (
	MessageSuccessGetIngredients    = "success get ingredients"
	MessageSuccessGetIngredient     = "success get ingredient"
	MessageSuccessGetTags           = "success get tags"
	MessageSuccessGetTag            = "success get tag"
	MessageSuccessImportIngredients = "ingredients imported"

	MessageFailedGetIngredients    = "failed to get ingredients"
	MessageFailedGetIngredient     = "failed to get ingredient"
	MessageFailedGetTags           = "failed to get tags"
	MessageFailedGetTag            = "failed to get tag"
	MessageFailedImportIngredients = "failed to import ingredients"

	ErrIngredientNotFound = fmt.Errorf("%w: ingredient not found", ErrNotFound)
	ErrTagNotFound        = fmt.Errorf("%w: tag not found", ErrNotFound)
	ErrInvalidCSVHeader   = fmt.Errorf("%w: csv header must be name,measurement_unit", ErrValidation)
)

type (
	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	TagResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	}

	ImportResult struct {
		Read     int `json:"read"`
		Inserted int `json:"inserted"`
	}
)
