package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, accountID uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func TestCategorySeeder_Seed_Empty(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	mockRepo := new(MockCategoryRepository)
	seeder := NewCategorySeeder(mockRepo)

	mockRepo.On("List", ctx, accountID).Return([]*domain.Category{}, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Category) bool {
		return c.AccountID == accountID && c.ID == CategoryID(accountID, c.Name) && c.Kind.Valid()
	})).Return(nil)

	created, err := seeder.Seed(ctx, accountID)

	require.NoError(t, err)
	assert.Equal(t, len(DefaultChart), created)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Create", len(DefaultChart))
}

func TestCategorySeeder_Seed_AllExist(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	mockRepo := new(MockCategoryRepository)
	seeder := NewCategorySeeder(mockRepo)

	existing := make([]*domain.Category, 0, len(DefaultChart))
	for _, def := range DefaultChart {
		existing = append(existing, &domain.Category{ID: uuid.New(), AccountID: accountID, Name: def.Name})
	}
	mockRepo.On("List", ctx, accountID).Return(existing, nil)

	created, err := seeder.Seed(ctx, accountID)

	require.NoError(t, err)
	assert.Zero(t, created)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCategorySeeder_Seed_MatchesFoldedNames(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	mockRepo := new(MockCategoryRepository)
	seeder := NewCategorySeeder(mockRepo)

	// User already created "IMPOSTOS" and "salarios" without accents
	mockRepo.On("List", ctx, accountID).Return([]*domain.Category{
		{ID: uuid.New(), AccountID: accountID, Name: "IMPOSTOS"},
		{ID: uuid.New(), AccountID: accountID, Name: "salarios"},
	}, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name != "Impostos" && c.Name != "Salários"
	})).Return(nil)

	created, err := seeder.Seed(ctx, accountID)

	require.NoError(t, err)
	assert.Equal(t, len(DefaultChart)-2, created)
	mockRepo.AssertExpectations(t)
}

func TestCategorySeeder_Seed_CreateFails(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	mockRepo := new(MockCategoryRepository)
	seeder := NewCategorySeeder(mockRepo)

	mockRepo.On("List", ctx, accountID).Return([]*domain.Category{}, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("disk full")).Once()

	created, err := seeder.Seed(ctx, accountID)

	assert.Error(t, err)
	assert.Zero(t, created)
	mockRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCategorySeeder_Seed_ListFails(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	mockRepo := new(MockCategoryRepository)
	seeder := NewCategorySeeder(mockRepo)

	mockRepo.On("List", ctx, accountID).Return(nil, errors.New("connection refused"))

	_, err := seeder.Seed(ctx, accountID)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestDefaultChart_CoversEveryBucket(t *testing.T) {
	classifier := report.DefaultClassifier()
	seen := make(map[report.Bucket]bool)
	for _, def := range DefaultChart {
		seen[classifier.Classify(def.Name, def.Kind)] = true
	}

	for _, b := range []report.Bucket{
		report.BucketRevenue,
		report.BucketDeductions,
		report.BucketCostOfGoods,
		report.BucketOperatingExpense,
		report.BucketFinancial,
		report.BucketNonOperating,
		report.BucketTaxes,
	} {
		assert.True(t, seen[b], "no default category lands in %s", b)
	}
}

func TestDefaultChart_VariableCosts(t *testing.T) {
	classifier := report.DefaultClassifier()
	variable := map[string]bool{
		"Compra de mercadorias": true,
		"Frete":                 true,
		"Comissões":             true,
	}

	for _, def := range DefaultChart {
		assert.Equal(t, variable[def.Name], classifier.IsVariableCost(def.Name), def.Name)
	}
}

func TestCategoryID_Stable(t *testing.T) {
	accountID := uuid.New()
	assert.Equal(t, CategoryID(accountID, "Impostos"), CategoryID(accountID, "IMPOSTOS"))
	assert.NotEqual(t, CategoryID(accountID, "Impostos"), CategoryID(uuid.New(), "Impostos"))
}
