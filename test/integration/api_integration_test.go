package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"stock-keeper/internal/config"
	"stock-keeper/internal/database"
	"stock-keeper/internal/handler"
	"stock-keeper/internal/model"
	"stock-keeper/internal/repository"
	"stock-keeper/internal/router"
	"stock-keeper/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func setupTestServer(t *testing.T, testDB *TestDB, cfg config.InventoryConfig) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	registry := prometheus.NewRegistry()

	// Initialize repositories
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	movementRepo := repository.NewMovementRepository(testDB.Pool, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, movementRepo, service.NewMetrics(registry), cfg, logger)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, logger)

	// Create router
	return router.New(
		productHandler,
		database.NewHealthChecker(testDB.Pool),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		testAPIKey,
		logger,
	)
}

func do(t *testing.T, server http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func decodeProduct(t *testing.T, w *httptest.ResponseRecorder) model.ProductView {
	t.Helper()
	var view model.ProductView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	return view
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB, config.InventoryConfig{})

	t.Run("GET /api/products returns all products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := do(t, server, http.MethodGet, "/api/products", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.ProductView
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 5)
		assert.Equal(t, 1, products[0].ID)
	})

	t.Run("GET /api/products with pagination", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := do(t, server, http.MethodGet, "/api/products?limit=2&offset=1", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.ProductView
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		require.Len(t, products, 2)
		assert.Equal(t, 2, products[0].ID)
	})

	t.Run("GET /api/products/{id} returns specific product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := do(t, server, http.MethodGet, "/api/products/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.ProductView{ID: 1, Name: "Test Product 1", Price: 10, StockQuantity: 5}, decodeProduct(t, w))
	})

	t.Run("GET /api/products/{id} returns 404 for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodGet, "/api/products/999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, model.ErrCodeProductNotFound, errorCode(t, w))
	})

	t.Run("POST /api/products rejects missing id", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodPost, "/api/products", map[string]interface{}{
			"name": "Widget", "price": 5, "stockQuantity": 1,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeInvalidID, errorCode(t, w))
	})

	t.Run("POST /api/products rejects duplicate id", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := do(t, server, http.MethodPost, "/api/products", map[string]interface{}{
			"id": 1, "name": "Widget", "stockQuantity": 1,
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, model.ErrCodeDuplicateProductID, errorCode(t, w))
	})

	t.Run("Zero price can never be raised", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := do(t, server, http.MethodPost, "/api/products/4/price", map[string]float64{"price": 1})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, model.ErrCodePriceJump, errorCode(t, w))
	})

	t.Run("GET /api/products without API key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health returns 200 without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProductLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB, config.InventoryConfig{})
	CleanupDB(t, testDB.Pool)

	w := do(t, server, http.MethodPost, "/api/products", map[string]interface{}{
		"id": 1, "name": "Widget", "price": 10.0, "stockQuantity": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, model.ProductView{ID: 1, Name: "Widget", Price: 10, StockQuantity: 5}, decodeProduct(t, w))

	w = do(t, server, http.MethodPost, "/api/products/1/price", map[string]float64{"price": 999})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 999.0, decodeProduct(t, w).Price)

	w = do(t, server, http.MethodPost, "/api/products/1/price", map[string]float64{"price": 99900})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, model.ErrCodePriceJump, errorCode(t, w))

	w = do(t, server, http.MethodPost, "/api/products/1/sell", map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeProduct(t, w).StockQuantity)

	w = do(t, server, http.MethodPost, "/api/products/1/sell", map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, model.ErrCodeInsufficientStock, errorCode(t, w))

	w = do(t, server, http.MethodPost, "/api/products/1/stock", map[string]interface{}{"quantity": 5, "operation": "-"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, model.ErrCodeNegativeStock, errorCode(t, w))

	w = do(t, server, http.MethodPost, "/api/products/1/stock", map[string]interface{}{"quantity": 5, "operation": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeUnknownStockOperation, errorCode(t, w))

	w = do(t, server, http.MethodPost, "/api/products/1/restock", map[string]int{"quantity": 10})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ProductView{ID: 1, Name: "Widget", Price: 999, StockQuantity: 12}, decodeProduct(t, w))

	w = do(t, server, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ProductView{ID: 1, Name: "Widget", Price: 999, StockQuantity: 12}, decodeProduct(t, w))

	// Only successful stock changes are recorded.
	w = do(t, server, http.MethodGet, "/api/products/1/movements", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var movements []model.StockMovement
	require.NoError(t, json.NewDecoder(w.Body).Decode(&movements))
	require.Len(t, movements, 2)

	kinds := []model.MovementKind{movements[0].Kind, movements[1].Kind}
	assert.ElementsMatch(t, []model.MovementKind{model.MovementSale, model.MovementRestock}, kinds)

	w = do(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `stock_keeper_product_operations_total{operation="sell",result="ok"} 1`)
	assert.Contains(t, body, `stock_keeper_product_operations_total{operation="sell",result="rejected"} 1`)
	assert.Contains(t, body, `stock_keeper_stock_units_total{direction="in"} 10`)
}

func TestUnassignedIDs_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB, config.InventoryConfig{AllowUnassignedID: true})
	CleanupDB(t, testDB.Pool)

	w := do(t, server, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Gadget", "stockQuantity": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeProduct(t, w)
	assert.GreaterOrEqual(t, created.ID, 1000)
	assert.Equal(t, 0.0, created.Price)

	w = do(t, server, http.MethodGet, "/api/products/"+strconv.Itoa(created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeProduct(t, w))

	w = do(t, server, http.MethodPost, "/api/products", map[string]interface{}{
		"id": created.ID + 1, "name": "Gadget", "stockQuantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeReservedID, errorCode(t, w))

	w = do(t, server, http.MethodPost, "/api/products", map[string]interface{}{
		"id": 7, "name": "Gadget", "stockQuantity": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB, config.InventoryConfig{})

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
