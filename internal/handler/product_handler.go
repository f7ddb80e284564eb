package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"stock-keeper/internal/model"
	"stock-keeper/internal/service"

	"github.com/rs/zerolog"
)

const productsPath = "/api/products/"

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// NotFound answers requests for unknown product routes.
func (h *ProductHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, model.ErrCodeRouteNotFound, "route not found", h.logger)
}

// GetAll handles GET /api/products requests with pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	limit, ok := h.queryInt(w, r, "limit", 10)
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	var req model.CreateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// ChangePrice handles POST /api/products/{id}/price requests.
func (h *ProductHandler) ChangePrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req model.ChangePriceRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.service.ChangePrice(r.Context(), id, req.Price)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// UpdateStock handles POST /api/products/{id}/stock requests.
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req model.UpdateStockRequest
	if !h.decode(w, r, &req) {
		return
	}

	op, err := model.ParseStockOperation(req.Operation)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.UpdateStock(r.Context(), id, req.Quantity, op)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Restock handles POST /api/products/{id}/restock requests.
func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	h.quantityChange(w, r, h.service.Restock)
}

// Sell handles POST /api/products/{id}/sell requests.
func (h *ProductHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.quantityChange(w, r, h.service.Sell)
}

// Movements handles GET /api/products/{id}/movements requests.
func (h *ProductHandler) Movements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	limit, ok := h.queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	movements, err := h.service.Movements(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, movements)
}

func (h *ProductHandler) quantityChange(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id, quantity int) (*model.Product, error),
) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req model.QuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := apply(r.Context(), id, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// productID extracts the numeric id from /api/products/{id}[/action].
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	rest := strings.TrimPrefix(r.URL.Path, productsPath)
	segment, _, _ := strings.Cut(rest, "/")
	if segment == "" || rest == r.URL.Path {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidID, "product ID is required", h.logger)
		return 0, false
	}

	id, err := strconv.Atoi(segment)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid product ID format", h.logger)
		return 0, false
	}

	return id, true
}

func (h *ProductHandler) queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidQuery, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return v, true
}

func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return false
	}
	return true
}
