package http

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/Ezra-186/Team09-HCH/pkg/httputil"

	"github.com/Ezra-186/Team09-HCH/internal/auth"
	"github.com/Ezra-186/Team09-HCH/internal/service"
)

// AuthHandler handles the seller login, logout, and session endpoints.
type AuthHandler struct {
	sellers       *service.SellerService
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler. secureCookies should be
// true outside development so the session cookie is HTTPS-only.
func NewAuthHandler(sellers *service.SellerService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sellers:       sellers,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	SellerID string `json:"sellerId"`
	Password string `json:"password"`
}

// SessionResponse is the body for a successful login or session lookup.
type SessionResponse struct {
	SellerID string `json:"sellerId"`
	Name     string `json:"name"`
}

// isFormRequest reports whether the request body is form-encoded rather than
// JSON. The dashboard posts plain HTML forms; API clients post JSON.
func isFormRequest(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req LoginRequest
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			httputil.WriteMessage(w, http.StatusBadRequest, "invalid form body")
			return
		}
		req.SellerID = r.PostFormValue("sellerId")
		req.Password = r.PostFormValue("password")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	seller, token, err := h.sellers.Login(r.Context(), req.SellerID, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setSessionCookie(w, token)
	httputil.WriteJSON(w, http.StatusOK, SessionResponse{
		SellerID: seller.ID,
		Name:     seller.Name,
	})
}

// Logout handles POST /api/v1/auth/logout. It always succeeds; logging out
// without a session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	httputil.WriteOK(w)
}

// Session handles GET /api/v1/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerFromContext(r.Context())
	if !ok {
		httputil.WriteMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	seller, err := h.sellers.Get(r.Context(), sellerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SessionResponse{
		SellerID: seller.ID,
		Name:     seller.Name,
	})
}
