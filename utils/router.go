package utils

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reelmerge/api"
)

// NewRouter constructs the base mux router with the shared middleware chain
// and the operational routes. corsOrigins is passed to CORS. Middleware only
// runs on matched routes, so every OPTIONS request lands on one catch-all:
// CORS answers preflights there and a bare OPTIONS gets an empty 204 without
// reaching any handler.
func NewRouter(corsOrigins []string) *mux.Router {
	r := mux.NewRouter()

	r.Use(api.RequestID())
	r.Use(CORS(corsOrigins))
	r.Use(api.Instrument())
	r.Use(api.Recover())

	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}
