package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/nestegg/nestegg/internal/ledger"
	"github.com/nestegg/nestegg/internal/metrics"
	"github.com/nestegg/nestegg/internal/snapshot"
)

// NewServer creates an HTTP server with all routes configured. Mutating
// routes require the admin API key when one is set.
func NewServer(port string, transactions *ledger.Service, snapshots *snapshot.Service, prices PriceSetter, adminAPIKey string) *http.Server {
	handler := NewHandler(transactions, snapshots, prices)

	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, metrics.Instrument(pattern, h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return h
		}
		return requireAuth(adminAPIKey, h)
	}

	handle("GET /api/v1/portfolio", http.HandlerFunc(handler.GetPortfolio))
	handle("GET /api/v1/transactions", http.HandlerFunc(handler.ListTransactions))
	handle("GET /api/v1/snapshots/latest", http.HandlerFunc(handler.GetLatestSnapshot))
	handle("GET /api/v1/snapshots/{date}", http.HandlerFunc(handler.GetSnapshotByDate))
	handle("GET /api/v1/snapshots", http.HandlerFunc(handler.ListSnapshots))

	handle("POST /api/v1/transactions/import", protected(handler.ImportTransactions))
	handle("POST /api/v1/snapshots/generate", protected(handler.GenerateSnapshot))
	handle("PUT /api/v1/prices", protected(handler.SetPrices))

	mux.Handle("GET /metrics", metrics.Handler())

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
