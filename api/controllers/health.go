package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/onrack-backend/api/responses"
	"github.com/angelmondragon/onrack-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/onrack-backend/pkg/errors"
	"github.com/angelmondragon/onrack-backend/pkg/logger"
)

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OnRack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the primary store and the counter cache. Either failing
// marks the instance unready.
func HealthReady(cfg *config.Config, logg *logger.Logger, store, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OnRack-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		checks["mongo"] = checkDependency(r.Context(), store)
		if checks["mongo"] != "ok" {
			healthy = false
		}
		checks["redis"] = checkDependency(r.Context(), cache)
		if checks["redis"] != "ok" {
			healthy = false
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

func checkDependency(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
