package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/onrack-backend/api/controllers"
	"github.com/angelmondragon/onrack-backend/api/middleware"
	products "github.com/angelmondragon/onrack-backend/internal/products"
	"github.com/angelmondragon/onrack-backend/internal/rack"
	"github.com/angelmondragon/onrack-backend/pkg/config"
	"github.com/angelmondragon/onrack-backend/pkg/logger"
	pkgmongo "github.com/angelmondragon/onrack-backend/pkg/mongo"
	"github.com/angelmondragon/onrack-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store pkgmongo.Pinger,
	cache redis.Pinger,
	productService products.Service,
	rackService rack.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store, cache))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Post("/", controllers.CreateProduct(productService, logg))
		r.Get("/{productID}", controllers.GetProduct(productService, logg))
		r.Put("/{productID}", controllers.UpdateProduct(productService, logg))
		r.Delete("/{productID}", controllers.DeleteProduct(productService, logg))
		r.Post("/{productID}/recompute-count", controllers.RecomputeProductCount(rackService, logg))
	})

	r.Route("/api/v1/users/{userID}/rack", func(r chi.Router) {
		r.Get("/", controllers.ReadRack(rackService, logg))
		r.Post("/", controllers.AddRackItem(rackService, logg))
		r.Patch("/{productID}", controllers.EditRackItem(rackService, logg))
		r.Delete("/{productID}", controllers.DeleteRackItem(rackService, logg))
	})

	return r
}
