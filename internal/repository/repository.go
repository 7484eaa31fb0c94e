package repository

import (
	"context"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
)

// CreateProductInput holds the columns written when creating a product.
// Validation happens at the service boundary; the repository writes what it
// is given.
type CreateProductInput struct {
	SellerID    string
	Title       string
	Description string
	Price       float64
	ImageURL    string
	Category    string
}

// UpdateProductInput holds the columns written when updating a product.
type UpdateProductInput struct {
	Title       string
	Description string
	Price       float64
	ImageURL    string
	Category    string
}

// ProductRepository defines the interface for product persistence operations.
// Update and Delete are ownership-scoped: the seller filter is part of the
// mutation statement, and false means the row was missing or owned by
// someone else.
type ProductRepository interface {
	// List returns all products ordered by id ascending.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a product by its identifier, or nil when absent.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// ListBySeller returns the products owned by the given seller.
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)

	// ListImageSources returns image attribution entries for all products,
	// ordered by product name.
	ListImageSources(ctx context.Context) ([]domain.ProductImageSource, error)

	// Create inserts a new product and returns its assigned identifier.
	Create(ctx context.Context, input CreateProductInput) (string, error)

	// Update modifies a product if it exists and belongs to sellerID.
	Update(ctx context.Context, id, sellerID string, input UpdateProductInput) (bool, error)

	// Delete removes a product if it exists and belongs to sellerID.
	Delete(ctx context.Context, id, sellerID string) (bool, error)
}

// ReviewRepository defines the interface for review persistence operations.
// Reviews are append-only; no update or delete is exposed.
type ReviewRepository interface {
	// Create inserts one immutable review row. Product existence is NOT
	// checked here; callers must verify the product first.
	Create(ctx context.Context, review *domain.Review) error

	// ListByProduct returns a product's reviews ordered by creation time
	// ascending, then id for a stable tie-break.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// StatsForProducts returns per-product review counts and averages in one
	// batched query. Products with zero reviews are absent from the map.
	StatsForProducts(ctx context.Context, productIDs []string) (map[string]domain.ReviewStats, error)
}

// SellerRepository defines read access to seller records.
type SellerRepository interface {
	// List returns all sellers ordered by name.
	List(ctx context.Context) ([]domain.Seller, error)

	// GetByID retrieves a seller by its identifier, or nil when absent.
	GetByID(ctx context.Context, id string) (*domain.Seller, error)

	// GetAuthByID retrieves the credential record for the login flow. This is
	// the only read path exposing the password hash.
	GetAuthByID(ctx context.Context, id string) (*domain.SellerAuth, error)
}
