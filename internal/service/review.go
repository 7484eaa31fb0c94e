package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/internal/event"
	"github.com/Ezra-186/Team09-HCH/internal/repository"
)

// SubmitReviewInput carries the caller-supplied fields for a new review.
type SubmitReviewInput struct {
	ProductID  string  `json:"productId"`
	AuthorName string  `json:"authorName"`
	Rating     int     `json:"rating"`
	Comment    string  `json:"comment"`
	Title      *string `json:"title"`
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		producer:    producer,
		logger:      logger,
	}
}

// ListByProduct returns a product's reviews oldest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, apperrors.InvalidInput("productId is required")
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Submit validates the input, verifies the product exists, and appends one
// immutable review. Reviews are anonymous; no session is required.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (*domain.Review, error) {
	input.ProductID = strings.TrimSpace(input.ProductID)
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("productId is required")
	}
	input.AuthorName = strings.TrimSpace(input.AuthorName)
	if input.AuthorName == "" {
		return nil, apperrors.InvalidInput("authorName is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	input.Comment = strings.TrimSpace(input.Comment)
	if input.Comment == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			input.Title = nil
		} else {
			input.Title = &trimmed
		}
	}

	// The product check and the insert are not atomic; a review for a
	// just-deleted product can slip through. Orphaned reviews are invisible
	// because reads always go through the product.
	if _, err := s.productRepo.GetByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", input.ProductID)
		}
		return nil, fmt.Errorf("verify product: %w", err)
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		ProductID:  input.ProductID,
		AuthorName: input.AuthorName,
		Rating:     input.Rating,
		Comment:    input.Comment,
		Title:      input.Title,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// StatsForProducts returns per-product review counts and averages. Products
// with no reviews map to the zero value.
func (s *ReviewService) StatsForProducts(ctx context.Context, productIDs []string) (map[string]domain.ReviewStats, error) {
	stats, err := s.reviewRepo.StatsForProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}

	for _, id := range productIDs {
		if _, ok := stats[id]; !ok {
			stats[id] = domain.ReviewStats{}
		}
	}

	return stats, nil
}

// StatsForProduct returns the stats for one product, verifying it exists.
func (s *ReviewService) StatsForProduct(ctx context.Context, productID string) (domain.ReviewStats, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ReviewStats{}, apperrors.NotFound("product", productID)
		}
		return domain.ReviewStats{}, fmt.Errorf("verify product: %w", err)
	}

	stats, err := s.reviewRepo.StatsForProducts(ctx, []string{productID})
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}

	return stats[productID], nil
}
