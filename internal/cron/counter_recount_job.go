package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/onrack-backend/pkg/logger"
	"github.com/angelmondragon/onrack-backend/pkg/mongo/models"
)

type productLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

type counterRecomputer interface {
	RecomputeCounter(ctx context.Context, productID string) (int64, error)
}

// CounterRecountJobParams configure the counter recount job.
type CounterRecountJobParams struct {
	Logger   *logger.Logger
	Products productLister
	Rack     counterRecomputer
}

// NewCounterRecountJob builds the job that walks every product and rewrites
// its cached on-rack count from the primary store. This is the backstop for
// the drift the non-transactional rack writes can leave behind.
func NewCounterRecountJob(params CounterRecountJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	if params.Rack == nil {
		return nil, fmt.Errorf("rack recomputer required")
	}
	return &counterRecountJob{
		logg:     params.Logger,
		products: params.Products,
		rack:     params.Rack,
	}, nil
}

type counterRecountJob struct {
	logg     *logger.Logger
	products productLister
	rack     counterRecomputer
}

func (j *counterRecountJob) Name() string { return "counter-recount" }

// Run recounts every product. A failure on one product does not stop the
// sweep; all failures are collected and reported together.
func (j *counterRecountJob) Run(ctx context.Context) error {
	list, err := j.products.List(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	var errs error
	recounted := 0
	for i := range list {
		id := list[i].ID.Hex()
		if _, err := j.rack.RecomputeCounter(ctx, id); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("recount %s: %w", id, err))
			continue
		}
		recounted++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"products":  len(list),
		"recounted": recounted,
		"failed":    len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "counter recount sweep complete")
	return errs
}
