package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ezra-186/Team09-HCH/pkg/httputil"
	"github.com/Ezra-186/Team09-HCH/pkg/validator"

	"github.com/Ezra-186/Team09-HCH/internal/service"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	products *service.ProductService
	reviews  *service.ReviewService
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(products *service.ProductService, reviews *service.ReviewService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		reviews:  reviews,
		logger:   logger,
	}
}

// ProductRequest is the request body for creating or updating a product.
// The form path fills the same struct, so both content types validate
// identically.
type ProductRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// IDResponse is the body for a successful create.
type IDResponse struct {
	ID string `json:"id"`
}

// decodeProductRequest reads a ProductRequest from either a JSON or a form
// body.
func decodeProductRequest(w http.ResponseWriter, r *http.Request) (ProductRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ProductRequest
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			httputil.WriteMessage(w, http.StatusBadRequest, "invalid form body")
			return req, false
		}

		price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
		if err != nil {
			httputil.WriteMessage(w, http.StatusBadRequest, "price must be a number")
			return req, false
		}

		req = ProductRequest{
			Title:       r.PostFormValue("title"),
			Description: r.PostFormValue("description"),
			Price:       price,
			ImageURL:    r.PostFormValue("image_url"),
			Category:    r.PostFormValue("category"),
		}

		if err := validator.Validate(req); err != nil {
			httputil.WriteValidationError(w, err)
			return req, false
		}

		return req, true
	}

	if err := validator.DecodeAndValidate(r, &req); err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, valErr)
		} else {
			httputil.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		}
		return req, false
	}

	return req, true
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// Sources handles GET /api/v1/products/sources. It lists per-product image
// attribution entries for the credits page.
func (h *ProductHandler) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.products.ListImageSources(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sources)
}

// Stats handles GET /api/v1/products/{id}/stats.
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviews.StatsForProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := SellerFromContext(r.Context())

	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	id, err := h.products.Create(r.Context(), sellerID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// Update handles PATCH and PUT /api/v1/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := SellerFromContext(r.Context())

	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	if err := h.products.Update(r.Context(), chi.URLParam(r, "id"), sellerID, req.toInput()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w)
}

// Delete handles DELETE /api/v1/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := SellerFromContext(r.Context())

	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id"), sellerID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w)
}
