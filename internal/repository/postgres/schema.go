package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ezra-186/Team09-HCH/pkg/database"
)

// ErrNoNameColumn reports a products table with neither a name nor a title
// column. This is a deployment defect, not a runtime condition, so callers
// treat it as fatal.
var ErrNoNameColumn = errors.New("products table must have either name or title column")

// ProductColumns is the capability record for the products table. The table
// has shipped in two generations (legacy `title`, newer `name`, with the
// category/image/status columns appearing later), and every query branches on
// this record instead of assuming one shape. It is computed once at startup
// and never refreshed; schema drift within a process lifetime is not handled.
type ProductColumns struct {
	Name           bool
	Title          bool
	Category       bool
	ImageURL       bool
	ImageSourceURL bool
	Status         bool
}

// NameColumn returns the column holding the product display name.
func (c ProductColumns) NameColumn() (string, error) {
	switch {
	case c.Name:
		return "name", nil
	case c.Title:
		return "title", nil
	default:
		return "", ErrNoNameColumn
	}
}

// ensureOptionalColumns brings older tables up to the newer generation where
// the store permits DDL. Category gets the catch-all default so existing rows
// stay valid.
var ensureOptionalColumns = []string{
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS category TEXT NOT NULL DEFAULT 'General'`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_url TEXT`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_source_url TEXT`,
}

const productColumnsQuery = `
	SELECT column_name
	FROM information_schema.columns
	WHERE table_schema = 'public'
	  AND table_name = 'products'`

// DetectProductColumns ensures the newer optional columns exist, then reads
// the catalog to compute the capability record. Call it once at startup and
// hand the result to NewProductRepository.
func DetectProductColumns(ctx context.Context, db database.DBTX) (ProductColumns, error) {
	for _, ddl := range ensureOptionalColumns {
		if _, err := db.Exec(ctx, ddl); err != nil {
			return ProductColumns{}, fmt.Errorf("ensure product columns: %w", err)
		}
	}

	rows, err := db.Query(ctx, productColumnsQuery)
	if err != nil {
		return ProductColumns{}, fmt.Errorf("introspect products table: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return ProductColumns{}, fmt.Errorf("scan column name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return ProductColumns{}, fmt.Errorf("iterate column rows: %w", err)
	}

	cols := ProductColumns{
		Name:           present["name"],
		Title:          present["title"],
		Category:       present["category"],
		ImageURL:       present["image_url"],
		ImageSourceURL: present["image_source_url"],
		Status:         present["status"],
	}

	if _, err := cols.NameColumn(); err != nil {
		return ProductColumns{}, err
	}

	return cols, nil
}
