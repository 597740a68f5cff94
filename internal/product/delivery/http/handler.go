package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/dto"
	"github.com/tair/techstore/internal/product/usecase/command"
	"github.com/tair/techstore/internal/product/usecase/query"
	"github.com/tair/techstore/pkg/auth"
	"github.com/tair/techstore/pkg/logger"
	"github.com/tair/techstore/pkg/metrics"
)

// ProductHandler handles HTTP requests for products using CQRS pattern
type ProductHandler struct {
	// Command handlers
	createHandler      *command.CreateProductHandler
	updateHandler      *command.UpdateProductHandler
	deleteHandler      *command.DeleteProductHandler
	updateStockHandler *command.UpdateStockHandler

	// Query handlers
	getProductHandler *query.GetProductHandler
	listHandler       *query.ListProductsHandler
	statsHandler      *query.GetStatsHandler

	gate          auth.Gate
	metrics       *metrics.HTTPMetrics
	totalProducts prometheus.Gauge
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	updateStockHandler *command.UpdateStockHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	statsHandler *query.GetStatsHandler,
	gate auth.Gate,
	reg prometheus.Registerer,
) *ProductHandler {
	return &ProductHandler{
		createHandler:      createHandler,
		updateHandler:      updateHandler,
		deleteHandler:      deleteHandler,
		updateStockHandler: updateStockHandler,
		getProductHandler:  getProductHandler,
		listHandler:        listHandler,
		statsHandler:       statsHandler,
		gate:               gate,
		metrics:            metrics.NewHTTPMetrics(reg, "product_service"),
		totalProducts:      metrics.NewGauge(reg, "product_service_total_products", "Total number of products in the system"),
	}
}

// RegisterRoutes registers the catalog routes. Mutations are authorized by
// the command handlers, so no route-level auth middleware is needed.
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/api/products", h.metrics.Wrap("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/stats", h.metrics.Wrap("/api/products/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metrics.Wrap("/api/products/{id}", h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/categories", h.metrics.Wrap("/api/categories", h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/categories/{key}", h.metrics.Wrap("/api/categories/{key}", h.GetCategory)).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/products", h.metrics.Wrap("/api/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.metrics.Wrap("/api/products/{id}", h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/products/{id}", h.metrics.Wrap("/api/products/{id}", h.DeleteProduct)).Methods("DELETE")
	router.HandleFunc("/api/products/{id}/stock", h.metrics.Wrap("/api/products/{id}/stock", h.UpdateStock)).Methods("PATCH")
}

// ListProducts godoc
// @Summary List products
// @Description Lists products of a category filtered and sorted by the query parameters
// @Tags Products
// @Produce json
// @Param categoryKey query string false "Category key" example(notebooks)
// @Param categoryId query int false "Category id"
// @Param brand query []string false "Brands (repeat or comma separate)" collectionFormat(multi)
// @Param type query []string false "Product types" collectionFormat(multi)
// @Param minPrice query number false "Price floor"
// @Param maxPrice query number false "Price ceiling"
// @Param search query string false "Case-insensitive text search"
// @Param sort query string false "default, price-asc or price-desc"
// @Success 200 {array} dto.ProductRecord
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := dto.DecodeListQuery(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{
		CategoryKey: q.CategoryKey,
		CategoryID:  q.CategoryID,
		Criteria:    q.Criteria,
	})
	if err != nil {
		h.fail(w, r, "Failed to list products", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromProducts(products))
}

// GetProduct godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} dto.ProductRecord
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		h.fail(w, r, "Failed to get product", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromProduct(product))
}

// CreateProduct godoc
// @Summary Create a product (admin)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Product data"
// @Success 201 {object} dto.ProductRecord
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	credential, err := credentialFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectBody(w, r, credential, apperr.NewFieldError("body", "invalid JSON"))
		return
	}
	input, err := req.Input()
	if err != nil {
		h.rejectBody(w, r, credential, err)
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		Credential: credential,
		Input:      input,
	})
	if err != nil {
		h.fail(w, r, "Failed to create product", err)
		return
	}

	logger.Info(r.Context()).
		Uint("product_id", product.ID).
		Str("name", product.Name).
		Msg("Product created")
	h.updateProductsMetric(r.Context())
	respondJSON(w, http.StatusCreated, dto.FromProduct(product))
}

// UpdateProduct godoc
// @Summary Update a product (admin)
// @Description Changes only the fields present in the body
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body dto.UpdateProductRequest true "Fields to change"
// @Success 200 {object} dto.ProductRecord
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	credential, err := credentialFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.rejectBody(w, r, credential, err)
		return
	}

	var req dto.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectBody(w, r, credential, apperr.NewFieldError("body", "invalid JSON"))
		return
	}
	patch, err := req.Patch()
	if err != nil {
		h.rejectBody(w, r, credential, err)
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{
		Credential: credential,
		ID:         id,
		Patch:      patch,
	})
	if err != nil {
		h.fail(w, r, "Failed to update product", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromProduct(product))
}

// DeleteProduct godoc
// @Summary Delete a product (admin)
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	credential, err := credentialFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.rejectBody(w, r, credential, err)
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{Credential: credential, ID: id}); err != nil {
		h.fail(w, r, "Failed to delete product", err)
		return
	}

	logger.Info(r.Context()).Uint("product_id", id).Msg("Product deleted")
	h.updateProductsMetric(r.Context())
	respondJSON(w, http.StatusOK, dto.DeleteResponse{Success: true})
}

// UpdateStock godoc
// @Summary Set product stock (admin)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body dto.UpdateStockRequest true "New stock quantity"
// @Success 200 {object} dto.ProductRecord
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	credential, err := credentialFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.rejectBody(w, r, credential, err)
		return
	}

	var req dto.UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectBody(w, r, credential, apperr.NewFieldError("body", "invalid JSON"))
		return
	}
	if req.StockQuantity == nil {
		h.rejectBody(w, r, credential, apperr.NewFieldError("stock_quantity", "is required"))
		return
	}
	stock, ok := req.StockQuantity.Int()
	if !ok {
		h.rejectBody(w, r, credential, apperr.NewFieldError("stock_quantity", "must be a whole number"))
		return
	}

	product, err := h.updateStockHandler.Handle(r.Context(), command.UpdateStockCommand{
		Credential: credential,
		ProductID:  id,
		Stock:      stock,
	})
	if err != nil {
		h.fail(w, r, "Failed to update stock", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromProduct(product))
}

// GetStats godoc
// @Summary Catalog statistics
// @Tags Products
// @Produce json
// @Success 200 {object} query.ProductStats
// @Router /api/products/stats [get]
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		h.fail(w, r, "Failed to get stats", err)
		return
	}
	h.totalProducts.Set(float64(stats.TotalProducts))
	respondJSON(w, http.StatusOK, stats)
}

// ListCategories godoc
// @Summary List catalog categories
// @Tags Categories
// @Produce json
// @Success 200 {array} dto.CategoryRecord
// @Router /api/categories [get]
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := domain.Categories()
	out := make([]dto.CategoryRecord, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.FromCategory(c))
	}
	respondJSON(w, http.StatusOK, out)
}

// GetCategory godoc
// @Summary Get a category with its brand and type options
// @Tags Categories
// @Produce json
// @Param key path string true "Category key"
// @Success 200 {object} dto.CategoryRecord
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/categories/{key} [get]
func (h *ProductHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	category, ok := domain.LookupCategory(key)
	if !ok {
		respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "category not found: " + key})
		return
	}
	respondJSON(w, http.StatusOK, dto.FromCategory(category))
}

// RegisterHealthCheck registers the health endpoint backed by a database ping
func (h *ProductHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				logger.Error(r.Context()).Err(err).Msg("Health check failed")
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  "database unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")
}

// RegisterIndex registers the service index at /
func (h *ProductHandler) RegisterIndex(router *mux.Router, version string) {
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"service":    "techstore",
			"version":    version,
			"products":   "/api/products",
			"categories": "/api/categories",
			"docs":       "/swagger/index.html",
		})
	}).Methods("GET")
}

// fail logs server-side failures and writes the error response
func (h *ProductHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := apperr.StatusCode(err)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error(r.Context()).Err(err).Msg(msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		logger.Warn(r.Context()).Err(err).Str("path", r.URL.Path).Msg(msg)
	default:
		logger.Debug(r.Context()).Err(err).Msg(msg)
	}
	respondError(w, err)
}

// rejectBody reports a malformed request, unless the caller is not an Admin
// in which case the authorization failure takes precedence.
func (h *ProductHandler) rejectBody(w http.ResponseWriter, r *http.Request, credential string, err error) {
	if _, authErr := command.AuthorizeAdmin(r.Context(), h.gate, credential); authErr != nil {
		h.fail(w, r, "Rejected product mutation", authErr)
		return
	}
	respondError(w, err)
}

// updateProductsMetric updates the total products gauge
func (h *ProductHandler) updateProductsMetric(ctx context.Context) {
	stats, err := h.statsHandler.Handle(ctx, query.GetStatsQuery{})
	if err == nil {
		h.totalProducts.Set(float64(stats.TotalProducts))
	}
}

// credentialFrom returns the bearer token, or "" when the header is absent
// so the gate reports a missing credential.
func credentialFrom(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}
	token, err := auth.BearerToken(header)
	if err != nil {
		return "", apperr.NewUnauthorizedError(err.Error())
	}
	return token, nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.NewFieldError("id", "must be a positive integer")
	}
	return uint(id), nil
}

// respondError writes the taxonomy status and message of err
func respondError(w http.ResponseWriter, err error) {
	status := apperr.StatusCode(err)
	body := dto.ErrorResponse{Error: err.Error()}

	var ve *apperr.ValidationError
	var ae *apperr.AuthorizationError
	switch {
	case errors.As(err, &ve):
		body.Fields = ve.Fields
	case errors.As(err, &ae):
		body.Error = ae.Reason
	case status == http.StatusInternalServerError:
		body.Error = "internal server error"
	}
	respondJSON(w, status, body)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
