package transport

import (
	"errors"
	"net/http"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/middleware"
	"catalog-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductListResponse is returned by GET /api/{path}/admin/products
type ProductListResponse struct {
	Success  bool             `json:"success"`
	Products []domain.Product `json:"products"`
}

// MessageResponse acknowledges a mutation
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProductHandler serves the admin product endpoints
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes. All of them need a signed-in admin.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/{path}/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/products", h.List)
		r.Post("/product", h.Create)
		r.Put("/product/{id}", h.Update)
		r.Delete("/product/{id}", h.Delete)
	})
}

// List returns every product under the API path
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	apiPath := chi.URLParam(r, "path")

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Success:  true,
		Products: h.catalog.List(apiPath),
	})
}

// Create stores a new product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	envelope, ok := h.decodeEnvelope(w, r)
	if !ok {
		return
	}

	product := h.catalog.Create(chi.URLParam(r, "path"), envelope.Data)

	h.logger.Info("Product created", zap.String("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "已建立產品"})
}

// Update replaces the product with the given id
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	envelope, ok := h.decodeEnvelope(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.catalog.Update(chi.URLParam(r, "path"), id, envelope.Data); err != nil {
		h.respondWithCatalogError(w, id, err)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "已更新產品"})
}

// Delete removes the product with the given id
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.Delete(chi.URLParam(r, "path"), id); err != nil {
		h.respondWithCatalogError(w, id, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "已刪除產品"})
}

func (h *ProductHandler) decodeEnvelope(w http.ResponseWriter, r *http.Request) (domain.ProductEnvelope, bool) {
	var envelope domain.ProductEnvelope

	if err := middleware.DecodeAndValidate(r, &envelope); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return envelope, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return envelope, false
	}

	return envelope, true
}

func (h *ProductHandler) respondWithCatalogError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, service.ErrProductNotFound) {
		h.logger.Debug("Product not found", zap.String("product_id", id))
		middleware.RespondWithError(w, http.StatusNotFound, "找不到產品")
		return
	}

	h.logger.Error("Catalog operation failed", zap.String("product_id", id), zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
