package rack

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	products "github.com/angelmondragon/onrack-backend/internal/products"
	pkgerrors "github.com/angelmondragon/onrack-backend/pkg/errors"
	"github.com/angelmondragon/onrack-backend/pkg/logger"
	"github.com/angelmondragon/onrack-backend/pkg/mongo/models"
)

type userStore interface {
	FindByBusinessID(ctx context.Context, userID int) (*models.User, error)
	PushRackItem(ctx context.Context, userID int, item models.RackItem) error
	SetRackItemDate(ctx context.Context, userID int, productID primitive.ObjectID, date string) error
	RemoveRackItem(ctx context.Context, userID int, productID primitive.ObjectID) error
	JoinRackWithProducts(ctx context.Context, userID int) ([]JoinedRackItem, error)
	CountRackReferences(ctx context.Context, productID primitive.ObjectID) (int64, error)
}

type counterCache interface {
	CounterKey(productID string) string
	SetCounter(ctx context.Context, productID string, value int64) error
	IncrCounter(ctx context.Context, productID string) (int64, error)
	DecrCounterBy(ctx context.Context, productID string, n int64) (int64, error)
}

// ServiceParams groups dependencies for the rack service.
type ServiceParams struct {
	UserRepo userStore
	Cache    counterCache
	Logger   *logger.Logger
}

// Service orchestrates rack mutations across the primary store and the
// counter cache. There is no transaction spanning the two; the ordering in
// each operation decides which way the count drifts on partial failure, and
// RecomputeCounter is the reconciliation backstop.
type Service interface {
	AddItem(ctx context.Context, userID int, input AddRackItemInput) error
	EditItem(ctx context.Context, userID int, productID string, input EditRackItemInput) error
	DeleteItem(ctx context.Context, userID int, productID string) (DeleteResult, error)
	ReadRack(ctx context.Context, userID int) ([]RackEntryDTO, error)
	RecomputeCounter(ctx context.Context, productID string) (int64, error)
}

type service struct {
	users userStore
	cache counterCache
	logg  *logger.Logger
}

// NewService builds a rack service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter cache is required")
	}
	return &service{
		users: params.UserRepo,
		cache: params.Cache,
		logg:  params.Logger,
	}, nil
}

// AddItem verifies the user, bumps the product counter, then appends the
// rack entry. Increment-before-append biases the counter toward
// over-counting on partial failure: an inflated popularity count is a safer
// default display than a deflated one.
func (s *service) AddItem(ctx context.Context, userID int, input AddRackItemInput) error {
	productID, err := parseProductID(input.ProductID)
	if err != nil {
		return err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}

	// Cache keys always use the canonical hex form, not the request string,
	// so mixed-case ids cannot split a product's count across keys.
	if _, err := s.cache.IncrCounter(ctx, productID.Hex()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable")
	}

	item := models.RackItem{ProductID: productID, PurchasedDate: input.PurchasedDate}
	if err := s.users.PushRackItem(ctx, userID, item); err != nil {
		// Counter is now one high; the recount job squares it away.
		s.warnDrift(ctx, productID.Hex(), "append failed after increment")
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append rack item")
	}
	return nil
}

// EditItem rewrites the purchased date of the matching rack item. The
// counter is untouched because membership does not change.
func (s *service) EditItem(ctx context.Context, userID int, productID string, input EditRackItemInput) error {
	pid, err := parseProductID(productID)
	if err != nil {
		return err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if err := s.users.SetRackItemDate(ctx, userID, pid, input.PurchasedDate); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "rack item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rack item")
	}
	return nil
}

// DeleteItem removes every rack row referencing the product, then lowers
// the counter once per removed row. The removed count is taken from the
// user's pre-image; a cache failure after the pull committed surfaces as a
// warning next to the successful result, never a rollback.
func (s *service) DeleteItem(ctx context.Context, userID int, productID string) (DeleteResult, error) {
	pid, err := parseProductID(productID)
	if err != nil {
		return DeleteResult{}, err
	}
	user, err := s.users.FindByBusinessID(ctx, userID)
	if err != nil {
		return DeleteResult{}, mapUserError(err)
	}

	var removed int64
	for _, item := range user.Rack {
		if item.ProductID == pid {
			removed++
		}
	}

	if err := s.users.RemoveRackItem(ctx, userID, pid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove rack item")
	}

	result := DeleteResult{Removed: removed}
	if removed > 0 {
		if _, err := s.cache.DecrCounterBy(ctx, pid.Hex(), removed); err != nil {
			result.Warning = &pkgerrors.CacheWarning{
				Op:  "decrement",
				Key: s.cache.CounterKey(pid.Hex()),
				Err: err,
			}
			s.warn(ctx, result.Warning)
		}
	}
	return result, nil
}

// ReadRack returns the joined view of the user's rack. An unknown user
// yields an empty rack: the read path delegates entirely to the join and
// adds no existence check of its own.
func (s *service) ReadRack(ctx context.Context, userID int) ([]RackEntryDTO, error) {
	rows, err := s.users.JoinRackWithProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read rack")
	}
	result := make([]RackEntryDTO, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		result = append(result, RackEntryDTO{
			ProductID:     row.Item.ProductID.Hex(),
			PurchasedDate: row.Item.PurchasedDate,
			Product:       products.FromModel(&row.Product),
		})
	}
	return result, nil
}

// RecomputeCounter recounts rack references across all users and
// overwrites the cache entry. This is the reconciliation path that bounds
// every drift the non-transactional writes can introduce.
func (s *service) RecomputeCounter(ctx context.Context, productID string) (int64, error) {
	pid, err := parseProductID(productID)
	if err != nil {
		return 0, err
	}
	count, err := s.users.CountRackReferences(ctx, pid)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count rack references")
	}
	if err := s.cache.SetCounter(ctx, pid.Hex(), count); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable")
	}
	return count, nil
}

func (s *service) ensureUser(ctx context.Context, userID int) error {
	if _, err := s.users.FindByBusinessID(ctx, userID); err != nil {
		return mapUserError(err)
	}
	return nil
}

func (s *service) warn(ctx context.Context, warning *pkgerrors.CacheWarning) {
	if s.logg == nil || warning == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "cache_key", warning.Key)
	s.logg.Warn(ctx, warning.Error())
}

func (s *service) warnDrift(ctx context.Context, productID, reason string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithProductID(ctx, productID)
	s.logg.Warn(ctx, "counter drift: "+reason)
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return oid, nil
}

func mapUserError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
}
