// SPDX-License-Identifier: MIT

// Package api assembles the HTTP surface: middleware stack, health and
// metrics endpoints, and the mounted protocol handlers.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// The devices poll aggressively when they get errors; the per-IP limit is
// sized so a stock home network never hits it.
const (
	rateLimitRequests = 600
	rateLimitWindow   = time.Minute
)

// Mounter registers routes on a router. Each protocol handler implements it.
type Mounter interface {
	Mount(r chi.Router)
}

// Deps are the protocol handlers the router serves. A nil handler disables
// its protocol.
type Deps struct {
	Weather Mounter
	Feeds   Mounter
	Stocks  Mounter
}

// NewRouter builds the chi router with the canonical middleware stack.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(Logging)
	r.Use(httprate.LimitByIP(rateLimitRequests, rateLimitWindow))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, m := range []Mounter{deps.Weather, deps.Feeds, deps.Stocks} {
		if m != nil {
			m.Mount(r)
		}
	}
	return r
}
