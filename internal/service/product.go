package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/internal/event"
	"github.com/Ezra-186/Team09-HCH/internal/repository"
)

// ProductInput carries the caller-supplied fields for creating or updating a
// product. The owning seller comes from the session, never from the body.
type ProductInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// ProductService implements the business logic for product operations.
type ProductService struct {
	productRepo repository.ProductRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		producer:    producer,
		logger:      logger,
	}
}

// validate normalizes the input in place and reports the first violation.
// A category is only rejected when the caller supplied one; an absent
// category falls back to the catch-all.
func (in *ProductInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperrors.InvalidInput("title is required")
	}

	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price <= 0 {
		return apperrors.InvalidInput("price must be a positive number")
	}

	trimmed := strings.TrimSpace(in.Category)
	if trimmed != "" && !domain.IsValidCategory(trimmed) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid category %q", trimmed))
	}
	in.Category = domain.NormalizeCategory(trimmed)

	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	return nil
}

// List returns all products.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get retrieves a single product.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ListBySeller returns the products owned by the given seller.
func (s *ProductService) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	products, err := s.productRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	return products, nil
}

// ListImageSources returns the attribution entries for the image credits
// page. Source URLs that are not absolute http(s) links are dropped so the
// page never links to something unloadable; the entry keeps its image URL.
func (s *ProductService) ListImageSources(ctx context.Context) ([]domain.ProductImageSource, error) {
	sources, err := s.productRepo.ListImageSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list image sources: %w", err)
	}

	for i := range sources {
		if sources[i].ImageSourceURL != nil && !domain.IsValidImageSourceURL(*sources[i].ImageSourceURL) {
			sources[i].ImageSourceURL = nil
		}
	}

	return sources, nil
}

// Create validates the input and inserts a new product owned by sellerID,
// returning the allocated id.
func (s *ProductService) Create(ctx context.Context, sellerID string, input ProductInput) (string, error) {
	if err := input.validate(); err != nil {
		return "", err
	}

	id, err := s.productRepo.Create(ctx, repository.CreateProductInput{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
	})
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}

	category := input.Category
	if err := s.producer.PublishProductCreated(ctx, &domain.Product{
		ID:       id,
		SellerID: sellerID,
		Name:     input.Title,
		Category: &category,
		Price:    input.Price,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", id),
		slog.String("seller_id", sellerID),
	)

	return id, nil
}

// Update validates the input and applies it to a product the seller owns.
// A missing product maps to not-found; an existing product owned by someone
// else maps to forbidden.
func (s *ProductService) Update(ctx context.Context, id, sellerID string, input ProductInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	updated, err := s.productRepo.Update(ctx, id, sellerID, repository.UpdateProductInput{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if !updated {
		return s.classifyMiss(ctx, id)
	}

	category := input.Category
	if err := s.producer.PublishProductUpdated(ctx, &domain.Product{
		ID:       id,
		SellerID: sellerID,
		Name:     input.Title,
		Category: &category,
		Price:    input.Price,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id),
		slog.String("seller_id", sellerID),
	)

	return nil
}

// Delete removes a product the seller owns, with the same miss semantics as
// Update.
func (s *ProductService) Delete(ctx context.Context, id, sellerID string) error {
	deleted, err := s.productRepo.Delete(ctx, id, sellerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return s.classifyMiss(ctx, id)
	}

	if err := s.producer.PublishProductDeleted(ctx, id, sellerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
		slog.String("seller_id", sellerID),
	)

	return nil
}

// classifyMiss decides why an ownership-scoped mutation matched no row. The
// follow-up read races the mutation, but the outcome only affects which error
// status the caller sees.
func (s *ProductService) classifyMiss(ctx context.Context, id string) error {
	_, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("product", id)
		}
		return fmt.Errorf("check product ownership: %w", err)
	}
	return apperrors.Forbidden("you do not own this product")
}
