package products

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "github.com/angelmondragon/onrack-backend/pkg/errors"
	"github.com/angelmondragon/onrack-backend/pkg/logger"
	"github.com/angelmondragon/onrack-backend/pkg/mongo/models"
)

type productStore interface {
	Create(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Replace(ctx context.Context, id primitive.ObjectID, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type counterCache interface {
	CounterKey(productID string) string
	SetCounter(ctx context.Context, productID string, value int64) error
	GetCounter(ctx context.Context, productID string) (int64, bool, error)
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	ProductRepo productStore
	Cache       counterCache
	Logger      *logger.Logger
}

// Service exposes product CRUD plus the counter-annotated read side. The
// primary store is the source of truth for rack membership; the counter
// cache is advisory and self-heals around missing keys.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (CreateProductResult, error)
	Get(ctx context.Context, id string) (AnnotatedProductDTO, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (ProductDTO, error)
	Delete(ctx context.Context, id string) error
	ListAnnotated(ctx context.Context) ([]AnnotatedProductDTO, error)
}

type service struct {
	repo  productStore
	cache counterCache
	logg  *logger.Logger
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter cache is required")
	}
	return &service{
		repo:  params.ProductRepo,
		cache: params.Cache,
		logg:  params.Logger,
	}, nil
}

// Create inserts the product and initializes its rack counter to zero. A
// counter-init failure after the insert committed is reported as a warning,
// not an error: readers treat a missing counter as zero, so the gap heals
// on its own.
func (s *service) Create(ctx context.Context, input CreateProductInput) (CreateProductResult, error) {
	product := input.toModel()
	if product.Name == "" {
		return CreateProductResult{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return CreateProductResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	product.ID = id

	result := CreateProductResult{Product: FromModel(product)}
	if err := s.cache.SetCounter(ctx, id.Hex(), 0); err != nil {
		result.Warning = &pkgerrors.CacheWarning{
			Op:  "initialize",
			Key: s.cache.CounterKey(id.Hex()),
			Err: err,
		}
		s.warn(ctx, result.Warning)
	}
	return result, nil
}

// Get loads one product annotated with its current on-rack count.
func (s *service) Get(ctx context.Context, id string) (AnnotatedProductDTO, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return AnnotatedProductDTO{}, err
	}
	product, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return AnnotatedProductDTO{}, mapStoreError(err, "product not found")
	}
	count, _, err := s.cache.GetCounter(ctx, oid.Hex())
	if err != nil {
		return AnnotatedProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable")
	}
	return AnnotatedProductDTO{ProductDTO: FromModel(product), OnRackCount: count}, nil
}

// Update replaces the product's descriptive fields. The counter is untouched.
func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (ProductDTO, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return ProductDTO{}, err
	}
	product := input.toModel()
	if product.Name == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	product.ID = oid
	if err := s.repo.Replace(ctx, oid, product); err != nil {
		return ProductDTO{}, mapStoreError(err, "product not found")
	}
	return FromModel(product), nil
}

// Delete removes the product. Its counter key is knowingly orphaned: rack
// items referencing the product fall out of joins, and nothing reads the
// counter for a product that no longer lists.
func (s *service) Delete(ctx context.Context, id string) error {
	oid, err := parseProductID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		return mapStoreError(err, "product not found")
	}
	return nil
}

// ListAnnotated returns every product exactly once, each carrying the
// cached on-rack count (zero when the key is absent).
func (s *service) ListAnnotated(ctx context.Context) ([]AnnotatedProductDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	result := make([]AnnotatedProductDTO, 0, len(list))
	for i := range list {
		product := &list[i]
		count, _, err := s.cache.GetCounter(ctx, product.ID.Hex())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable")
		}
		result = append(result, AnnotatedProductDTO{ProductDTO: FromModel(product), OnRackCount: count})
	}
	return result, nil
}

func (s *service) warn(ctx context.Context, warning *pkgerrors.CacheWarning) {
	if s.logg == nil || warning == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "cache_key", warning.Key)
	s.logg.Warn(ctx, warning.Error())
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return oid, nil
}

func mapStoreError(err error, notFoundMsg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store unavailable")
}
