package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/internal/repository"
	"github.com/Ezra-186/Team09-HCH/pkg/database"
	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"
)

// productIDPattern matches sequentially allocated product ids.
var productIDPattern = regexp.MustCompile(`^product-(\d+)$`)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// Every query is built against the capability record captured at
// construction, so the same code serves both generations of the products
// table.
type ProductRepository struct {
	db   database.DBTX
	cols ProductColumns
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX, cols ProductColumns) *ProductRepository {
	return &ProductRepository{db: db, cols: cols}
}

// selectClause projects the supported columns in a fixed order; missing
// optional columns surface as typed NULLs so every row scans the same way.
func (r *ProductRepository) selectClause() (string, error) {
	nameCol, err := r.cols.NameColumn()
	if err != nil {
		return "", err
	}

	categoryExpr := "category"
	if !r.cols.Category {
		categoryExpr = "NULL::text"
	}
	imageExpr := "image_url"
	if !r.cols.ImageURL {
		imageExpr = "NULL::text"
	}
	imageSourceExpr := "image_source_url"
	if !r.cols.ImageSourceURL {
		imageSourceExpr = "NULL::text"
	}
	statusExpr := "status"
	if !r.cols.Status {
		statusExpr = "NULL::text"
	}

	return fmt.Sprintf(
		"SELECT id, seller_id, %s, description, %s, price, %s, %s, %s FROM products",
		nameCol, categoryExpr, imageExpr, imageSourceExpr, statusExpr,
	), nil
}

func scanProductRow(row pgx.Row) (*domain.Product, error) {
	var (
		p           domain.Product
		name        *string
		description *string
	)

	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&name,
		&description,
		&p.Category,
		&p.Price,
		&p.ImageURL,
		&p.ImageSourceURL,
		&p.Status,
	)
	if err != nil {
		return nil, err
	}

	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}

	return &p, nil
}

func (r *ProductRepository) selectProducts(ctx context.Context, where string, args ...any) ([]domain.Product, error) {
	clause, err := r.selectClause()
	if err != nil {
		return nil, err
	}

	query := clause
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// List returns all products ordered by id ascending.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.selectProducts(ctx, "")
}

// GetByID retrieves a product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	clause, err := r.selectClause()
	if err != nil {
		return nil, err
	}

	p, err := scanProductRow(r.db.QueryRow(ctx, clause+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// ListBySeller returns the products owned by the given seller.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	return r.selectProducts(ctx, "seller_id = $1", sellerID)
}

// ListImageSources returns one attribution entry per product, ordered by
// name. Missing image columns project as typed NULLs, same as the product
// reads, so legacy tables simply yield entries without links.
func (r *ProductRepository) ListImageSources(ctx context.Context) ([]domain.ProductImageSource, error) {
	nameCol, err := r.cols.NameColumn()
	if err != nil {
		return nil, err
	}

	imageExpr := "image_url"
	if !r.cols.ImageURL {
		imageExpr = "NULL::text"
	}
	imageSourceExpr := "image_source_url"
	if !r.cols.ImageSourceURL {
		imageSourceExpr = "NULL::text"
	}

	query := fmt.Sprintf(
		"SELECT %s, %s, %s FROM products ORDER BY %s ASC",
		nameCol, imageExpr, imageSourceExpr, nameCol,
	)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list image sources: %w", err)
	}
	defer rows.Close()

	sources := []domain.ProductImageSource{}
	for rows.Next() {
		var (
			name *string
			src  domain.ProductImageSource
		)
		if err := rows.Scan(&name, &src.ImageURL, &src.ImageSourceURL); err != nil {
			return nil, fmt.Errorf("scan image source row: %w", err)
		}
		if name != nil {
			src.Name = *name
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image source rows: %w", err)
	}

	return sources, nil
}

// nextProductID scans the existing product-<n> ids and allocates max+1.
// Not safe against concurrent creates: two simultaneous calls can compute
// the same id, and the second insert fails on the primary key.
func (r *ProductRepository) nextProductID(ctx context.Context) (string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM products WHERE id LIKE 'product-%'`)
	if err != nil {
		return "", fmt.Errorf("scan product ids: %w", err)
	}
	defer rows.Close()

	maxSuffix := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan product id: %w", err)
		}

		m := productIDPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}

		var n int
		if _, err := fmt.Sscanf(m[1], "%d", &n); err == nil && n > maxSuffix {
			maxSuffix = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate product ids: %w", err)
	}

	return fmt.Sprintf("product-%d", maxSuffix+1), nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create inserts a new product, writing only the columns the schema supports,
// and returns the allocated id.
func (r *ProductRepository) Create(ctx context.Context, input repository.CreateProductInput) (string, error) {
	nameCol, err := r.cols.NameColumn()
	if err != nil {
		return "", err
	}

	id, err := r.nextProductID(ctx)
	if err != nil {
		return "", err
	}

	columns := []string{"id", "seller_id", nameCol, "description", "price"}
	args := []any{id, input.SellerID, input.Title, input.Description, input.Price}

	if r.cols.Category {
		columns = append(columns, "category")
		args = append(args, input.Category)
	}
	if r.cols.ImageURL {
		columns = append(columns, "image_url")
		args = append(args, nullIfEmpty(input.ImageURL))
	}
	if r.cols.ImageSourceURL {
		columns = append(columns, "image_source_url")
		args = append(args, nullIfEmpty(input.ImageURL))
	}
	if r.cols.Status {
		columns = append(columns, "status")
		args = append(args, domain.StatusActive)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO products (%s) VALUES (%s)",
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}

	return id, nil
}

// Update modifies a product in a single ownership-scoped statement. It
// returns false when no row matched, i.e. the product is missing or owned by
// a different seller.
func (r *ProductRepository) Update(ctx context.Context, id, sellerID string, input repository.UpdateProductInput) (bool, error) {
	nameCol, err := r.cols.NameColumn()
	if err != nil {
		return false, err
	}

	updates := []string{nameCol + " = $1", "description = $2", "price = $3"}
	args := []any{input.Title, input.Description, input.Price}

	if r.cols.Category {
		updates = append(updates, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, input.Category)
	}
	if r.cols.ImageURL {
		updates = append(updates, fmt.Sprintf("image_url = $%d", len(args)+1))
		args = append(args, nullIfEmpty(input.ImageURL))
	}
	if r.cols.ImageSourceURL {
		updates = append(updates, fmt.Sprintf("image_source_url = $%d", len(args)+1))
		args = append(args, nullIfEmpty(input.ImageURL))
	}

	args = append(args, id, sellerID)

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d AND seller_id = $%d",
		strings.Join(updates, ", "), len(args)-1, len(args),
	)

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// Delete removes a product in a single ownership-scoped statement.
func (r *ProductRepository) Delete(ctx context.Context, id, sellerID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}
