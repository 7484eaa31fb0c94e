package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/pkg/database"
	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"
)

// SellerRepository implements read access to seller records using PostgreSQL.
type SellerRepository struct {
	db database.DBTX
}

// NewSellerRepository creates a new PostgreSQL-backed seller repository.
func NewSellerRepository(db database.DBTX) *SellerRepository {
	return &SellerRepository{db: db}
}

func scanSellerRow(row pgx.Row) (*domain.Seller, error) {
	var (
		s        domain.Seller
		location *string
		bio      *string
	)

	if err := row.Scan(&s.ID, &s.Name, &location, &bio); err != nil {
		return nil, err
	}

	if location != nil {
		s.Location = *location
	}
	if bio != nil {
		s.Bio = *bio
	}

	return &s, nil
}

// List returns all sellers ordered by name.
func (r *SellerRepository) List(ctx context.Context) ([]domain.Seller, error) {
	query := `
		SELECT id, name, location, bio
		FROM sellers
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	sellers := []domain.Seller{}
	for rows.Next() {
		s, err := scanSellerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seller row: %w", err)
		}
		sellers = append(sellers, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seller rows: %w", err)
	}

	return sellers, nil
}

// GetByID retrieves a seller by its identifier.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*domain.Seller, error) {
	query := `
		SELECT id, name, location, bio
		FROM sellers
		WHERE id = $1`

	s, err := scanSellerRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}

	return s, nil
}

// GetAuthByID retrieves the credential record used by the login flow.
func (r *SellerRepository) GetAuthByID(ctx context.Context, id string) (*domain.SellerAuth, error) {
	query := `
		SELECT id, name, password_hash
		FROM sellers
		WHERE id = $1`

	var auth domain.SellerAuth
	err := r.db.QueryRow(ctx, query, id).Scan(&auth.ID, &auth.Name, &auth.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get seller auth: %w", err)
	}

	return &auth, nil
}
