package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusOnHold     Status = "on-hold"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusFailed     Status = "failed"
)

var statusLabels = map[Status]string{
	StatusPending:    "Pending payment",
	StatusOnHold:     "On hold",
	StatusProcessing: "Processing",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
	StatusRefunded:   "Refunded",
	StatusFailed:     "Failed",
}

func ValidStatus(s Status) bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human readable status name used in order notes.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// PaymentCompleteFrom lists the statuses from which a payment can still complete.
var PaymentCompleteFrom = []Status{StatusPending, StatusOnHold, StatusFailed, StatusCancelled}

type Order struct {
	ID            uint
	OrderKey      string
	UserID        *uint
	CustomerName  string
	CustomerEmail string
	Currency      string
	Total         float64
	PaymentMethod string
	Status        Status
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
}

type OrderItem struct {
	ID       uint
	OrderID  uint
	Name     string
	Quantity int
	Price    float64
	Virtual  bool
}

// NeedsPayment reports whether the order is still in a status from which a
// payment can complete.
func (o *Order) NeedsPayment() bool {
	if o == nil {
		return false
	}
	for _, s := range PaymentCompleteFrom {
		if o.Status == s {
			return true
		}
	}
	return false
}

// HasStatus mirrors the comparison used by email gating.
func (o *Order) HasStatus(s Status) bool {
	return o != nil && o.Status == s
}

// NeedsProcessing is false only when every item is virtual, in which case
// a completed payment can skip straight to StatusCompleted.
func (o *Order) NeedsProcessing() bool {
	if len(o.Items) == 0 {
		return true
	}
	for _, it := range o.Items {
		if !it.Virtual {
			return true
		}
	}
	return false
}

func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
