package payment

import (
	"context"

	"cashapp-gateway/internal/order"

	"github.com/stretchr/testify/mock"
)

type MockOrderStore struct {
	mock.Mock
	calls *[]string
}

func (m *MockOrderStore) record(name string) {
	if m.calls != nil {
		*m.calls = append(*m.calls, name)
	}
}

func (m *MockOrderStore) GetOrder(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, o *order.Order, status order.Status, note string) error {
	m.record("UpdateStatus")
	args := m.Called(ctx, o, status, note)
	return args.Error(0)
}

func (m *MockOrderStore) PaymentComplete(ctx context.Context, o *order.Order) error {
	m.record("PaymentComplete")
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderStore) ThankYouURL(o *order.Order) string {
	args := m.Called(o)
	return args.String(0)
}

type MockCartService struct {
	mock.Mock
	calls *[]string
}

func (m *MockCartService) ClearActiveCart(ctx context.Context) error {
	if m.calls != nil {
		*m.calls = append(*m.calls, "ClearActiveCart")
	}
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) Load(ctx context.Context, gatewayID string) (map[string]string, error) {
	args := m.Called(ctx, gatewayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsStore) Save(ctx context.Context, gatewayID string, values map[string]string) error {
	args := m.Called(ctx, gatewayID, values)
	return args.Error(0)
}

func testOptions() Options {
	return Options{
		ID:                "cashapp",
		MethodName:        "CashApp",
		MethodTitle:       "CashApp Payments",
		MethodDescription: "Manual CashApp transfers.",
		AwaitingNote:      "Awaiting CashApp payment",
		Defaults:          Config{Enabled: true, Title: "CashApp"},
	}
}

type gatewayFixture struct {
	gw       *OfflineGateway
	orders   *MockOrderStore
	cart     *MockCartService
	settings *MockSettingsStore
	calls    *[]string
}

func newFixture(cfg Config, options ...Option) *gatewayFixture {
	calls := &[]string{}
	f := &gatewayFixture{
		orders:   &MockOrderStore{calls: calls},
		cart:     &MockCartService{calls: calls},
		settings: new(MockSettingsStore),
		calls:    calls,
	}
	f.gw = NewOfflineGateway(testOptions(), cfg, f.orders, f.cart, f.settings, options...)
	return f
}
