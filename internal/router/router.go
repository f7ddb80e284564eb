package router

import (
	"context"
	"net/http"
	"strings"

	"stock-keeper/internal/handler"
	"stock-keeper/internal/middleware"

	"github.com/rs/zerolog"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	health HealthChecker,
	metrics http.Handler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := health.Health(r.Context()); err != nil {
			logger.Warn().Err(err).Msg("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.Handle("/metrics", metrics)

	collectionHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			productHandler.Create(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	// /api/products/{id}[/action]
	itemHandler := func(w http.ResponseWriter, r *http.Request) {
		rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
		if rest == "" {
			collectionHandler(w, r)
			return
		}

		_, action, _ := strings.Cut(rest, "/")
		switch action {
		case "":
			productHandler.GetByID(w, r)
		case "price":
			productHandler.ChangePrice(w, r)
		case "stock":
			productHandler.UpdateStock(w, r)
		case "restock":
			productHandler.Restock(w, r)
		case "sell":
			productHandler.Sell(w, r)
		case "movements":
			productHandler.Movements(w, r)
		default:
			productHandler.NotFound(w, r)
		}
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", collectionHandler)
	mux.HandleFunc("/api/products/", itemHandler)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
