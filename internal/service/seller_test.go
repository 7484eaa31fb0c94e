package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"

	"github.com/Ezra-186/Team09-HCH/internal/auth"
	"github.com/Ezra-186/Team09-HCH/internal/domain"
)

type mockSellerRepository struct {
	mock.Mock
}

func (m *mockSellerRepository) List(ctx context.Context) ([]domain.Seller, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Seller), args.Error(1)
}

func (m *mockSellerRepository) GetByID(ctx context.Context, id string) (*domain.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}

func (m *mockSellerRepository) GetAuthByID(ctx context.Context, id string) (*domain.SellerAuth, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerAuth), args.Error(1)
}

func newSellerService(repo *mockSellerRepository) *SellerService {
	codec := auth.NewSessionCodec("test-session-secret")
	return NewSellerService(repo, codec, newTestLogger())
}

func hashPassword(t *testing.T, password string) *string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	return &s
}

func TestSellerService_Login_Success(t *testing.T) {
	repo := new(mockSellerRepository)
	svc := newSellerService(repo)
	ctx := context.Background()

	repo.On("GetAuthByID", ctx, "seller-1").Return(&domain.SellerAuth{
		ID:           "seller-1",
		Name:         "Bram",
		PasswordHash: hashPassword(t, "hunter2"),
	}, nil)

	seller, token, err := svc.Login(ctx, "seller-1", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "seller-1", seller.ID)
	require.NotEmpty(t, token)

	sellerID, ok := svc.VerifySession(token)
	assert.True(t, ok)
	assert.Equal(t, "seller-1", sellerID)
	repo.AssertExpectations(t)
}

func TestSellerService_Login_WrongPassword(t *testing.T) {
	repo := new(mockSellerRepository)
	svc := newSellerService(repo)
	ctx := context.Background()

	repo.On("GetAuthByID", ctx, "seller-1").Return(&domain.SellerAuth{
		ID:           "seller-1",
		Name:         "Bram",
		PasswordHash: hashPassword(t, "hunter2"),
	}, nil)

	_, _, err := svc.Login(ctx, "seller-1", "wrong")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSellerService_Login_UnknownSellerSameError(t *testing.T) {
	repo := new(mockSellerRepository)
	svc := newSellerService(repo)
	ctx := context.Background()

	repo.On("GetAuthByID", ctx, "seller-1").Return(&domain.SellerAuth{
		ID:           "seller-1",
		PasswordHash: hashPassword(t, "hunter2"),
	}, nil)
	repo.On("GetAuthByID", ctx, "seller-99").Return(nil, apperrors.ErrNotFound)

	_, _, wrongPassErr := svc.Login(ctx, "seller-1", "wrong")
	_, _, unknownErr := svc.Login(ctx, "seller-99", "whatever")

	// An unknown id and a bad password must be indistinguishable.
	require.Error(t, wrongPassErr)
	require.Error(t, unknownErr)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
}

func TestSellerService_Login_NoPasswordHash(t *testing.T) {
	repo := new(mockSellerRepository)
	svc := newSellerService(repo)
	ctx := context.Background()

	repo.On("GetAuthByID", ctx, "seller-1").Return(&domain.SellerAuth{
		ID:   "seller-1",
		Name: "Bram",
	}, nil)

	_, _, err := svc.Login(ctx, "seller-1", "hunter2")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSellerService_Login_MissingFields(t *testing.T) {
	repo := new(mockSellerRepository)
	svc := newSellerService(repo)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "", "hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, _, err = svc.Login(ctx, "seller-1", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	repo.AssertNotCalled(t, "GetAuthByID", mock.Anything, mock.Anything)
}

func TestSellerService_Get_NotFound(t *testing.T) {
	repo := new(mockSellerRepository)
	svc := newSellerService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "seller-99").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Get(ctx, "seller-99")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSellerService_List(t *testing.T) {
	repo := new(mockSellerRepository)
	svc := newSellerService(repo)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Seller{
		{ID: "seller-1", Name: "Anya"},
		{ID: "seller-2", Name: "Bram"},
	}, nil)

	sellers, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Len(t, sellers, 2)
	repo.AssertExpectations(t)
}
