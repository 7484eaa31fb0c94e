package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Ezra-186/Team09-HCH/pkg/httputil"

	"github.com/Ezra-186/Team09-HCH/internal/service"
)

// defaultReturnTo is where the form flow lands when the caller supplied no
// usable return path.
const defaultReturnTo = "/products"

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// List handles GET /api/v1/reviews?productId=.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		httputil.WriteMessage(w, http.StatusBadRequest, "productId query parameter is required")
		return
	}

	reviews, err := h.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// sanitizeReturnTo keeps the post-submit redirect on this site. Only local
// absolute paths pass; anything else, including protocol-relative urls,
// falls back to the product listing.
func sanitizeReturnTo(returnTo string) string {
	if !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") {
		return defaultReturnTo
	}
	return returnTo
}

// withReviewFlag appends review=<flag> to the target path's query string.
func withReviewFlag(target, flag string) string {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: defaultReturnTo}
	}
	q := u.Query()
	q.Set("review", flag)
	u.RawQuery = q.Encode()
	return u.String()
}

// Create handles POST /api/v1/reviews. JSON clients get a JSON response;
// HTML form posts get a 303 redirect back to the page they came from, with
// the outcome in a query flag.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	if isFormRequest(r) {
		h.createFromForm(w, r)
		return
	}

	var input service.SubmitReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviews.Submit(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, IDResponse{ID: review.ID})
}

func (h *ReviewHandler) createFromForm(w http.ResponseWriter, r *http.Request) {
	returnTo := defaultReturnTo

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, withReviewFlag(returnTo, "error"), http.StatusSeeOther)
		return
	}
	returnTo = sanitizeReturnTo(r.PostFormValue("returnTo"))

	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		http.Redirect(w, r, withReviewFlag(returnTo, "error"), http.StatusSeeOther)
		return
	}

	input := service.SubmitReviewInput{
		ProductID:  r.PostFormValue("productId"),
		AuthorName: r.PostFormValue("authorName"),
		Rating:     rating,
		Comment:    r.PostFormValue("comment"),
	}
	if title := strings.TrimSpace(r.PostFormValue("title")); title != "" {
		input.Title = &title
	}

	if _, err := h.reviews.Submit(r.Context(), input); err != nil {
		h.logger.WarnContext(r.Context(), "form review rejected",
			slog.String("product_id", input.ProductID),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, withReviewFlag(returnTo, "error"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, withReviewFlag(returnTo, "success"), http.StatusSeeOther)
}
