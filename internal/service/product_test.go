package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"
	pkgkafka "github.com/Ezra-186/Team09-HCH/pkg/kafka"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
	"github.com/Ezra-186/Team09-HCH/internal/event"
	"github.com/Ezra-186/Team09-HCH/internal/repository"
)

// --- Mock repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) ListImageSources(ctx context.Context) ([]domain.ProductImageSource, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProductImageSource), args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, input repository.CreateProductInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, id, sellerID string, input repository.UpdateProductInput) (bool, error) {
	args := m.Called(ctx, id, sellerID, input)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepository) Delete(ctx context.Context, id, sellerID string) (bool, error) {
	args := m.Called(ctx, id, sellerID)
	return args.Bool(0), args.Error(1)
}

// --- Test helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer() *event.Producer {
	logger := newTestLogger()
	// Publishing fails silently in tests, there is no real broker.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newProductService(repo *mockProductRepository) *ProductService {
	return NewProductService(repo, newTestProducer(), newTestLogger())
}

func strPtr(s string) *string { return &s }

// --- Tests ---

func TestProductService_Create_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, repository.CreateProductInput{
		SellerID:    "seller-1",
		Title:       "Willow basket",
		Description: "Hand-woven",
		Price:       42.50,
		ImageURL:    "https://cdn.example.com/basket.jpg",
		Category:    "Woodwork",
	}).Return("product-4", nil)

	id, err := svc.Create(ctx, "seller-1", ProductInput{
		Title:       "  Willow basket  ",
		Description: "Hand-woven",
		Price:       42.50,
		ImageURL:    "https://cdn.example.com/basket.jpg",
		Category:    "Woodwork",
	})

	require.NoError(t, err)
	assert.Equal(t, "product-4", id)
	repo.AssertExpectations(t)
}

func TestProductService_Create_EmptyCategoryFallsBack(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(in repository.CreateProductInput) bool {
		return in.Category == domain.CategoryGeneral
	})).Return("product-1", nil)

	_, err := svc.Create(ctx, "seller-1", ProductInput{
		Title: "Mug",
		Price: 18.00,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_Create_Validation(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ProductInput
	}{
		{"missing title", ProductInput{Price: 10}},
		{"whitespace title", ProductInput{Title: "   ", Price: 10}},
		{"zero price", ProductInput{Title: "Mug", Price: 0}},
		{"negative price", ProductInput{Title: "Mug", Price: -5}},
		{"unknown category", ProductInput{Title: "Mug", Price: 10, Category: "Pottery"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "seller-1", tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Update_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("Update", ctx, "product-1", "seller-1", repository.UpdateProductInput{
		Title:    "New name",
		Price:    55.00,
		Category: "Textiles",
	}).Return(true, nil)

	err := svc.Update(ctx, "product-1", "seller-1", ProductInput{
		Title:    "New name",
		Price:    55.00,
		Category: "Textiles",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_Update_NotOwned(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("Update", ctx, "product-1", "seller-2", mock.AnythingOfType("repository.UpdateProductInput")).
		Return(false, nil)
	repo.On("GetByID", ctx, "product-1").
		Return(&domain.Product{ID: "product-1", SellerID: "seller-1"}, nil)

	err := svc.Update(ctx, "product-1", "seller-2", ProductInput{Title: "New name", Price: 10})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertExpectations(t)
}

func TestProductService_Update_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("Update", ctx, "product-99", "seller-1", mock.AnythingOfType("repository.UpdateProductInput")).
		Return(false, nil)
	repo.On("GetByID", ctx, "product-99").Return(nil, apperrors.ErrNotFound)

	err := svc.Update(ctx, "product-99", "seller-1", ProductInput{Title: "New name", Price: 10})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestProductService_Delete_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "product-1", "seller-1").Return(true, nil)

	err := svc.Delete(ctx, "product-1", "seller-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_Delete_NotOwned(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "product-1", "seller-2").Return(false, nil)
	repo.On("GetByID", ctx, "product-1").
		Return(&domain.Product{ID: "product-1", SellerID: "seller-1"}, nil)

	err := svc.Delete(ctx, "product-1", "seller-2")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertExpectations(t)
}

func TestProductService_ListImageSources_DropsNonHTTPSourceURLs(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("ListImageSources", ctx).Return([]domain.ProductImageSource{
		{Name: "Mug", ImageURL: strPtr("https://cdn.example.com/mug.jpg"), ImageSourceURL: strPtr("https://photos.example.com/mug")},
		{Name: "Willow basket", ImageURL: strPtr("https://cdn.example.com/basket.jpg"), ImageSourceURL: strPtr("javascript:alert(1)")},
		{Name: "Stool", ImageURL: nil, ImageSourceURL: nil},
	}, nil)

	sources, err := svc.ListImageSources(ctx)

	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "https://photos.example.com/mug", *sources[0].ImageSourceURL)
	assert.Nil(t, sources[1].ImageSourceURL)
	assert.Equal(t, "https://cdn.example.com/basket.jpg", *sources[1].ImageURL)
	assert.Nil(t, sources[2].ImageSourceURL)
	repo.AssertExpectations(t)
}

func TestProductService_List_Error(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Product{}, errors.New("connection refused"))

	_, err := svc.List(ctx)

	assert.Error(t, err)
	repo.AssertExpectations(t)
}
