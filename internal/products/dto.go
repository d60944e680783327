package products

import (
	"strings"

	pkgerrors "github.com/angelmondragon/onrack-backend/pkg/errors"
	"github.com/angelmondragon/onrack-backend/pkg/mongo/models"
)

// CreateProductInput is the validated shape for new products.
type CreateProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

// UpdateProductInput replaces the whole descriptive document.
type UpdateProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

// ProductDTO is the transport shape for a product.
type ProductDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// AnnotatedProductDTO pairs a product with its current on-rack count. The
// count comes from the counter cache and may lag the true rack membership.
type AnnotatedProductDTO struct {
	ProductDTO
	OnRackCount int64 `json:"on_rack_count"`
}

// CreateProductResult carries the created product plus any non-fatal
// counter-cache warning.
type CreateProductResult struct {
	Product ProductDTO
	Warning *pkgerrors.CacheWarning
}

func (i CreateProductInput) toModel() *models.Product {
	return &models.Product{
		Name:        strings.TrimSpace(i.Name),
		Price:       i.Price,
		Description: strings.TrimSpace(i.Description),
	}
}

func (i UpdateProductInput) toModel() *models.Product {
	return &models.Product{
		Name:        strings.TrimSpace(i.Name),
		Price:       i.Price,
		Description: strings.TrimSpace(i.Description),
	}
}

// FromModel converts a stored product into its transport shape.
func FromModel(p *models.Product) ProductDTO {
	if p == nil {
		return ProductDTO{}
	}
	return ProductDTO{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
	}
}
