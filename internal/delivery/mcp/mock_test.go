package mcp

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shopmcp/shopify-mcp-server/internal/catalog"
	"github.com/shopmcp/shopify-mcp-server/internal/usecase"
)

// MockStoreUseCase is a mock implementation of the UseCaseProvider interface
type MockStoreUseCase struct {
	mock.Mock
}

func (m *MockStoreUseCase) GetOrders(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	called := m.Called(ctx, args)
	data, _ := called.Get(0).(map[string]interface{})
	return data, called.Error(1)
}

func (m *MockStoreUseCase) GetTransactions(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	called := m.Called(ctx, args)
	data, _ := called.Get(0).(map[string]interface{})
	return data, called.Error(1)
}

func (m *MockStoreUseCase) GetInventoryLevels(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	called := m.Called(ctx, args)
	data, _ := called.Get(0).(map[string]interface{})
	return data, called.Error(1)
}

func (m *MockStoreUseCase) GetProducts(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	called := m.Called(ctx, args)
	data, _ := called.Get(0).(map[string]interface{})
	return data, called.Error(1)
}

func (m *MockStoreUseCase) UpdateInventory(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	called := m.Called(ctx, args)
	data, _ := called.Get(0).(map[string]interface{})
	return data, called.Error(1)
}

func (m *MockStoreUseCase) GetFinancialSummary(ctx context.Context, args catalog.Arguments) (*usecase.FinancialSummary, error) {
	called := m.Called(ctx, args)
	summary, _ := called.Get(0).(*usecase.FinancialSummary)
	return summary, called.Error(1)
}

func (m *MockStoreUseCase) GetSalesSummary(ctx context.Context, args catalog.Arguments) (*usecase.SalesSummary, error) {
	called := m.Called(ctx, args)
	summary, _ := called.Get(0).(*usecase.SalesSummary)
	return summary, called.Error(1)
}

func (m *MockStoreUseCase) GetStoreSummary(ctx context.Context) (*usecase.StoreSummary, error) {
	called := m.Called(ctx)
	summary, _ := called.Get(0).(*usecase.StoreSummary)
	return summary, called.Error(1)
}

func (m *MockStoreUseCase) GetProductAnalytics(ctx context.Context, args catalog.Arguments) (*usecase.ProductAnalytics, error) {
	called := m.Called(ctx, args)
	analytics, _ := called.Get(0).(*usecase.ProductAnalytics)
	return analytics, called.Error(1)
}
