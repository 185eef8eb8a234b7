package checkout

import (
	"context"
	"fmt"
	"sync"

	"cashapp-gateway/internal/order"
	"cashapp-gateway/internal/payment"
)

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[uint]*order.Order
	getErr    error
	updateErr error
}

func newFakeOrders(orders ...*order.Order) *fakeOrders {
	f := &fakeOrders{orders: make(map[uint]*order.Order)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = append([]order.OrderItem(nil), o.Items...)
	return &cp
}

func (f *fakeOrders) GetOrder(_ context.Context, orderID uint) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *order.Order, status order.Status, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	o.Status = status
	f.orders[o.ID].Status = status
	return nil
}

func (f *fakeOrders) PaymentComplete(_ context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.Status = order.StatusProcessing
	f.orders[o.ID].Status = order.StatusProcessing
	return nil
}

func (f *fakeOrders) ThankYouURL(o *order.Order) string {
	return fmt.Sprintf("https://shop.example.com/checkout/order-received/%d?key=%s", o.ID, o.OrderKey)
}

func (f *fakeOrders) SetPaymentMethod(_ context.Context, o *order.Order, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.PaymentMethod = method
	f.orders[o.ID].PaymentMethod = method
	return nil
}

func (f *fakeOrders) status(id uint) order.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].Status
}

type fakeCart struct {
	cleared int
}

func (c *fakeCart) ClearActiveCart(context.Context) error {
	c.cleared++
	return nil
}

type fakeSettings struct {
	values map[string]map[string]string
	err    error
}

func (s *fakeSettings) Load(_ context.Context, id string) (map[string]string, error) {
	return s.values[id], s.err
}

func (s *fakeSettings) Save(_ context.Context, id string, values map[string]string) error {
	if s.err != nil {
		return s.err
	}
	if s.values == nil {
		s.values = make(map[string]map[string]string)
	}
	s.values[id] = values
	return nil
}

type fakeNotifier struct {
	customer []*order.Order
	admin    []*order.Order
	err      error
}

func (n *fakeNotifier) SendCustomerOrder(_ context.Context, o *order.Order) error {
	n.customer = append(n.customer, o)
	return n.err
}

func (n *fakeNotifier) SendAdminNewOrder(_ context.Context, o *order.Order) error {
	n.admin = append(n.admin, o)
	return n.err
}

func offlineOptions(id, name string) payment.Options {
	return payment.Options{
		ID:           id,
		MethodName:   name,
		MethodTitle:  name + " Payments",
		AwaitingNote: "Awaiting " + name + " payment",
		Defaults:     payment.Config{Enabled: true, Title: name},
	}
}
