package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ezra-186/Team09-HCH/pkg/httputil"

	"github.com/Ezra-186/Team09-HCH/internal/service"
)

// SellerHandler handles HTTP requests for the seller directory.
type SellerHandler struct {
	sellers  *service.SellerService
	products *service.ProductService
	logger   *slog.Logger
}

// NewSellerHandler creates a new seller HTTP handler.
func NewSellerHandler(sellers *service.SellerService, products *service.ProductService, logger *slog.Logger) *SellerHandler {
	return &SellerHandler{
		sellers:  sellers,
		products: products,
		logger:   logger,
	}
}

// List handles GET /api/v1/sellers.
func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sellers)
}

// Get handles GET /api/v1/sellers/{id}.
func (h *SellerHandler) Get(w http.ResponseWriter, r *http.Request) {
	seller, err := h.sellers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, seller)
}

// Products handles GET /api/v1/sellers/{id}/products.
func (h *SellerHandler) Products(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.sellers.Get(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.products.ListBySeller(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}
