package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/b2b-quotes/api/responses"
	"github.com/angelmondragon/b2b-quotes/pkg/config"
	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
)

const (
	envHeader          = "X-Quotes-Env"
	readyCheckTimeout  = 2 * time.Second
	statusDependencyUp = "ok"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency. Nil pingers are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		results := map[string]string{}
		failed := map[string]string{}
		for _, name := range names {
			pinger := checks[name]
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				failed[name] = err.Error()
				continue
			}
			results[name] = statusDependencyUp
		}

		if len(failed) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": results})
	}
}
