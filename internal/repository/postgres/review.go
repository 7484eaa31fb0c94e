package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/pkg/database"
)

// ReviewRepository implements review persistence operations using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts one immutable review row. The product reference is not
// re-verified here; the service boundary checks existence before calling.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, rating, title, comment, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.Rating,
		review.Title,
		review.Comment,
		review.AuthorName,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ListByProduct returns a product's reviews ordered by creation time
// ascending, with id as a tie-break for stable ordering.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	query := `
		SELECT id, product_id, rating, title, comment, author_name, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.Rating,
			&rv.Title,
			&rv.Comment,
			&rv.AuthorName,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// StatsForProducts returns count and average rating per product in a single
// batched aggregate. Averages are rounded to one decimal place. Products with
// no reviews do not appear in the result; callers default to {0, 0}.
func (r *ReviewRepository) StatsForProducts(ctx context.Context, productIDs []string) (map[string]domain.ReviewStats, error) {
	stats := make(map[string]domain.ReviewStats)
	if len(productIDs) == 0 {
		return stats, nil
	}

	query := `
		SELECT product_id, COUNT(*)::int, AVG(rating)::float
		FROM reviews
		WHERE product_id = ANY($1)
		GROUP BY product_id`

	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID string
			count     int
			average   float64
		)

		if err := rows.Scan(&productID, &count, &average); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}

		stats[productID] = domain.ReviewStats{
			Count:   count,
			Average: math.Round(average*10) / 10,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats rows: %w", err)
	}

	return stats, nil
}
