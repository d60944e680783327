package rack

import (
	products "github.com/angelmondragon/onrack-backend/internal/products"
	pkgerrors "github.com/angelmondragon/onrack-backend/pkg/errors"
)

// AddRackItemInput is the validated shape for a new rack entry.
type AddRackItemInput struct {
	ProductID     string `json:"product_id" validate:"required"`
	PurchasedDate string `json:"purchased_date" validate:"required,datetime=2006-01-02"`
}

// EditRackItemInput updates the purchased date only; membership (and hence
// the counter) is unchanged by an edit.
type EditRackItemInput struct {
	PurchasedDate string `json:"purchased_date" validate:"required,datetime=2006-01-02"`
}

// RackEntryDTO is one joined row of a user's rack.
type RackEntryDTO struct {
	ProductID     string              `json:"product_id"`
	PurchasedDate string              `json:"purchased_date"`
	Product       products.ProductDTO `json:"product"`
}

// DeleteResult reports how many rack rows were removed plus any non-fatal
// counter-cache warning.
type DeleteResult struct {
	Removed int64
	Warning *pkgerrors.CacheWarning
}
