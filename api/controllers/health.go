package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/calderon-ai/docintel-backend/api/responses"
	"github.com/calderon-ai/docintel-backend/pkg/config"
	pkgerrors "github.com/calderon-ai/docintel-backend/pkg/errors"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

const envHeader = "X-DocIntel-Env"

const readyCheckTimeout = 5 * time.Second

type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency; a nil pinger is skipped so
// partial deployments (api without bigquery, workers without redis) stay
// green.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency not ready").
						WithDetails(map[string]any{"dependency": name}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// ReadyChecks assembles the readiness map from whatever clients the caller
// has wired; nil entries are tolerated.
func ReadyChecks(db, redis, gcs, bigquery Pinger) map[string]Pinger {
	return map[string]Pinger{
		"db":       db,
		"redis":    redis,
		"gcs":      gcs,
		"bigquery": bigquery,
	}
}
