package domain

var (
	MessageFailedDownloadShoppingList = "failed to download shopping list"
)

const (
	ShoppingListTitle = "Shopping list"
	ShoppingListEmpty = "Shopping list is empty."
)

// ShoppingListItem is one aggregated row: the total of an ingredient across
// every recipe in the cart.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}
