package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"cashapp-gateway/internal/logger"

	"go.uber.org/zap"
)

// Service is the order store consumed by payment gateways.
type Service interface {
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, o *Order, status Status, note string) error
	PaymentComplete(ctx context.Context, o *Order) error
	ThankYouURL(o *Order) string
	SetPaymentMethod(ctx context.Context, o *Order, method string) error
}

type service struct {
	repo     Repository
	storeURL string
	now      func() time.Time
}

func NewService(repo Repository, storeURL string) Service {
	return &service{
		repo:     repo,
		storeURL: strings.TrimRight(storeURL, "/"),
		now:      time.Now,
	}
}

func (s *service) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// UpdateStatus moves o to status and records note. Unknown statuses are
// rejected; setting the current status again only records the note.
func (s *service) UpdateStatus(ctx context.Context, o *Order, status Status, note string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", o.ID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(status)),
	)

	if !ValidStatus(status) {
		log.Warn("rejected unknown order status")
		return &StatusTransitionError{OrderID: o.ID, From: o.Status, To: status, Err: ErrInvalidStatus}
	}

	if o.Status == status {
		if note == "" {
			return nil
		}
		if err := s.repo.AddNote(ctx, o.ID, note); err != nil {
			log.Error("failed to add order note", zap.Error(err))
			return err
		}
		return nil
	}

	fullNote := transitionNote(note, o.Status, status)
	if err := s.repo.UpdateStatus(ctx, o.ID, status, fullNote); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		if errors.Is(err, ErrOrderNotFound) {
			return err
		}
		return &StatusTransitionError{OrderID: o.ID, From: o.Status, To: status, Err: err}
	}

	o.Status = status
	log.Info("order status updated")
	return nil
}

// PaymentComplete marks o as paid. Orders already past payment are left alone.
func (s *service) PaymentComplete(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PaymentComplete"),
		zap.Uint("order_id", o.ID),
		zap.String("from", string(o.Status)),
	)

	if !slices.Contains(PaymentCompleteFrom, o.Status) {
		log.Info("order already paid, skipping payment complete")
		return nil
	}

	target := StatusProcessing
	if !o.NeedsProcessing() {
		target = StatusCompleted
	}

	paidAt := s.now()
	note := transitionNote("Payment complete.", o.Status, target)
	if err := s.repo.MarkPaid(ctx, o.ID, target, paidAt, note); err != nil {
		log.Error("failed to mark order paid", zap.Error(err))
		if errors.Is(err, ErrOrderNotFound) {
			return err
		}
		return &StatusTransitionError{OrderID: o.ID, From: o.Status, To: target, Err: err}
	}

	o.Status = target
	o.PaidAt = &paidAt
	log.Info("order payment complete", zap.String("to", string(target)))
	return nil
}

// SetPaymentMethod records the method chosen at checkout.
func (s *service) SetPaymentMethod(ctx context.Context, o *Order, method string) error {
	if o.PaymentMethod == method {
		return nil
	}
	if err := s.repo.SetPaymentMethod(ctx, o.ID, method); err != nil {
		logger.FromCtx(ctx).Error("failed to set payment method",
			zap.String("layer", "service"),
			zap.String("method", "SetPaymentMethod"),
			zap.Uint("order_id", o.ID),
			zap.Error(err),
		)
		return err
	}
	o.PaymentMethod = method
	return nil
}

func (s *service) ThankYouURL(o *Order) string {
	q := url.Values{}
	q.Set("key", o.OrderKey)
	return fmt.Sprintf("%s/checkout/order-received/%s?%s", s.storeURL, strconv.FormatUint(uint64(o.ID), 10), q.Encode())
}

func transitionNote(note string, from, to Status) string {
	change := fmt.Sprintf("Order status changed from %s to %s.", from.Label(), to.Label())
	if note == "" {
		return change
	}
	return strings.TrimSpace(note) + " " + change
}
