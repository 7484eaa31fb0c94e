package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"

	"github.com/Ezra-186/Team09-HCH/internal/auth"
	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/internal/repository"
)

// invalidCredentials is the single message for every login failure. An
// unknown seller and a wrong password are indistinguishable to the caller, so
// login attempts cannot be used to enumerate seller ids.
var invalidCredentials = apperrors.Unauthorized("invalid credentials")

// SellerService implements seller directory reads and the login flow.
type SellerService struct {
	sellerRepo repository.SellerRepository
	codec      *auth.SessionCodec
	logger     *slog.Logger
}

// NewSellerService creates a new seller service.
func NewSellerService(sellerRepo repository.SellerRepository, codec *auth.SessionCodec, logger *slog.Logger) *SellerService {
	return &SellerService{
		sellerRepo: sellerRepo,
		codec:      codec,
		logger:     logger,
	}
}

// List returns all sellers.
func (s *SellerService) List(ctx context.Context) ([]domain.Seller, error) {
	sellers, err := s.sellerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	return sellers, nil
}

// Get retrieves a single seller.
func (s *SellerService) Get(ctx context.Context, id string) (*domain.Seller, error) {
	seller, err := s.sellerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("seller", id)
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return seller, nil
}

// Login checks the seller's credentials and issues a session token.
func (s *SellerService) Login(ctx context.Context, sellerID, password string) (*domain.SellerAuth, string, error) {
	sellerID = strings.TrimSpace(sellerID)
	if sellerID == "" || password == "" {
		return nil, "", apperrors.InvalidInput("sellerId and password are required")
	}

	seller, err := s.sellerRepo.GetAuthByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", invalidCredentials
		}
		return nil, "", fmt.Errorf("get seller auth: %w", err)
	}

	if seller.PasswordHash == nil {
		return nil, "", invalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*seller.PasswordHash), []byte(password)); err != nil {
		return nil, "", invalidCredentials
	}

	token := s.codec.Issue(seller.ID)

	s.logger.InfoContext(ctx, "seller logged in",
		slog.String("seller_id", seller.ID),
	)

	return seller, token, nil
}

// VerifySession resolves a session token back to a seller id.
func (s *SellerService) VerifySession(token string) (string, bool) {
	return s.codec.Verify(token)
}
