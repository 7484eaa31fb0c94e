package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/internal/repository"
	"github.com/Ezra-186/Team09-HCH/pkg/database"
	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func strPtr(s string) *string { return &s }

// allColumns is the newer schema generation with every optional column present.
var allColumns = ProductColumns{
	Name:           true,
	Category:       true,
	ImageURL:       true,
	ImageSourceURL: true,
	Status:         true,
}

// legacyColumns is the older generation: title instead of name, no optional columns.
var legacyColumns = ProductColumns{
	Title: true,
}

var productCols = []string{
	"id", "seller_id", "name", "description", "category",
	"price", "image_url", "image_source_url", "status",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:             "product-1",
		SellerID:       "seller-1",
		Name:           "Willow basket",
		Description:    "Hand-woven willow basket",
		Category:       strPtr("Woodwork"),
		Price:          42.50,
		ImageURL:       strPtr("https://cdn.example.com/basket.jpg"),
		ImageSourceURL: strPtr("https://photos.example.com/basket"),
		Status:         strPtr("active"),
	}
}

func productRow(p domain.Product) []any {
	return []any{
		p.ID, p.SellerID, strPtr(p.Name), strPtr(p.Description), p.Category,
		p.Price, p.ImageURL, p.ImageSourceURL, p.Status,
	}
}

// ---------------------------------------------------------------------------
// ProductRepository
// ---------------------------------------------------------------------------

func TestProductRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	p := sampleProduct()
	mock.ExpectQuery("SELECT id, seller_id, name, description, category, price, image_url, image_source_url, status FROM products ORDER BY id ASC").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "product-1", products[0].ID)
	assert.Equal(t, "Willow basket", products[0].Name)
	assert.Equal(t, 42.50, products[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_LegacySchemaProjectsNulls(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, legacyColumns)

	// Legacy tables select the title column and NULL::text for the rest.
	mock.ExpectQuery(`SELECT id, seller_id, title, description, NULL::text, price, NULL::text, NULL::text, NULL::text FROM products ORDER BY id ASC`).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(
			"product-1", "seller-1", strPtr("Willow basket"), strPtr("Hand-woven"),
			(*string)(nil), 42.50, (*string)(nil), (*string)(nil), (*string)(nil),
		))

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Willow basket", products[0].Name)
	assert.Nil(t, products[0].Category)
	assert.Nil(t, products[0].ImageURL)
	assert.Nil(t, products[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_NoNameColumn(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, ProductColumns{})

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrNoNameColumn)
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.SellerID, got.SellerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("product-99").
		WillReturnRows(pgxmock.NewRows(productCols))

	got, err := repo.GetByID(context.Background(), "product-99")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListBySeller(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE seller_id").
		WithArgs("seller-1").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	products, err := repo.ListBySeller(context.Background(), "seller-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "seller-1", products[0].SellerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListImageSources(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectQuery("SELECT name, image_url, image_source_url FROM products ORDER BY name ASC").
		WillReturnRows(pgxmock.NewRows([]string{"name", "image_url", "image_source_url"}).
			AddRow(strPtr("Mug"), strPtr("https://cdn.example.com/mug.jpg"), strPtr("https://photos.example.com/mug")).
			AddRow(strPtr("Willow basket"), strPtr("https://cdn.example.com/basket.jpg"), (*string)(nil)))

	sources, err := repo.ListImageSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "Mug", sources[0].Name)
	assert.Equal(t, "https://photos.example.com/mug", *sources[0].ImageSourceURL)
	assert.Nil(t, sources[1].ImageSourceURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListImageSources_LegacySchemaProjectsNulls(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, legacyColumns)

	// Legacy tables order by title and project NULL for both image columns.
	mock.ExpectQuery(`SELECT title, NULL::text, NULL::text FROM products ORDER BY title ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"title", "image_url", "image_source_url"}).
			AddRow(strPtr("Willow basket"), (*string)(nil), (*string)(nil)))

	sources, err := repo.ListImageSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Willow basket", sources[0].Name)
	assert.Nil(t, sources[0].ImageURL)
	assert.Nil(t, sources[0].ImageSourceURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_AllocatesNextID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectQuery("SELECT id FROM products WHERE id LIKE").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).
			AddRow("product-1").
			AddRow("product-7").
			AddRow("product-3"))

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			"product-8", "seller-1", "Willow basket", "Hand-woven", 42.50,
			"Woodwork", "https://cdn.example.com/basket.jpg",
			"https://cdn.example.com/basket.jpg", "active",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Create(context.Background(), repository.CreateProductInput{
		SellerID:    "seller-1",
		Title:       "Willow basket",
		Description: "Hand-woven",
		Price:       42.50,
		ImageURL:    "https://cdn.example.com/basket.jpg",
		Category:    "Woodwork",
	})
	require.NoError(t, err)
	assert.Equal(t, "product-8", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_IgnoresForeignIDs(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	// Ids outside the product-<n> pattern don't count toward the max.
	mock.ExpectQuery("SELECT id FROM products WHERE id LIKE").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).
			AddRow("product-2").
			AddRow("product-extra").
			AddRow("product-1-b"))

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			"product-3", "seller-1", "Mug", "", 18.00,
			"Ceramics", nil, nil, "active",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Create(context.Background(), repository.CreateProductInput{
		SellerID: "seller-1",
		Title:    "Mug",
		Price:    18.00,
		Category: "Ceramics",
	})
	require.NoError(t, err)
	assert.Equal(t, "product-3", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_LegacySchemaWritesTitleOnly(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, legacyColumns)

	mock.ExpectQuery("SELECT id FROM products WHERE id LIKE").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	mock.ExpectExec("INSERT INTO products").
		WithArgs("product-1", "seller-1", "Mug", "", 18.00).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Create(context.Background(), repository.CreateProductInput{
		SellerID: "seller-1",
		Title:    "Mug",
		Price:    18.00,
		Category: "Ceramics",
	})
	require.NoError(t, err)
	assert.Equal(t, "product-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_Owned(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectExec("UPDATE products SET").
		WithArgs(
			"New name", "New description", 55.00, "Textiles",
			nil, nil, "product-1", "seller-1",
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := repo.Update(context.Background(), "product-1", "seller-1", repository.UpdateProductInput{
		Title:       "New name",
		Description: "New description",
		Price:       55.00,
		Category:    "Textiles",
	})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotOwned(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectExec("UPDATE products SET").
		WithArgs(
			"New name", "", 55.00, "Textiles",
			nil, nil, "product-1", "seller-2",
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.Update(context.Background(), "product-1", "seller-2", repository.UpdateProductInput{
		Title:    "New name",
		Price:    55.00,
		Category: "Textiles",
	})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Owned(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectExec("DELETE FROM products WHERE id").
		WithArgs("product-1", "seller-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := repo.Delete(context.Background(), "product-1", "seller-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotOwned(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectExec("DELETE FROM products WHERE id").
		WithArgs("product-1", "seller-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.Delete(context.Background(), "product-1", "seller-2")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_QueryError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock, allColumns)

	mock.ExpectQuery("SELECT .+ FROM products ORDER BY id ASC").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
