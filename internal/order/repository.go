package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Repository interface {
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status Status, note string) error
	MarkPaid(ctx context.Context, orderID uint, status Status, paidAt time.Time, note string) error
	AddNote(ctx context.Context, orderID uint, note string) error
	SetPaymentMethod(ctx context.Context, orderID uint, method string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	var (
		o      Order
		userID sql.NullInt64
		paidAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_key, user_id, customer_name, customer_email,
			currency, total, payment_method, status, paid_at, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.OrderKey, &userID, &o.CustomerName, &o.CustomerEmail,
		&o.Currency, &o.Total, &o.PaymentMethod, &o.Status, &paidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if userID.Valid {
		uid := uint(userID.Int64)
		o.UserID = &uid
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, name, quantity, price, is_virtual
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Name, &item.Quantity, &item.Price, &item.Virtual); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

// UpdateStatus writes the new status and its note in one transaction.
func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status Status, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}

	if err := insertNote(ctx, tx, orderID, note); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) MarkPaid(ctx context.Context, orderID uint, status Status, paidAt time.Time, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, paid_at = $2, updated_at = NOW() WHERE id = $3
	`, status, paidAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}

	if err := insertNote(ctx, tx, orderID, note); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) AddNote(ctx context.Context, orderID uint, note string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_notes (order_id, note) VALUES ($1, $2)
	`, orderID, note)
	if err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}
	return nil
}

func (r *repository) SetPaymentMethod(ctx context.Context, orderID uint, method string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_method = $1, updated_at = NOW() WHERE id = $2
	`, method, orderID)
	if err != nil {
		return fmt.Errorf("failed to set payment method: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func insertNote(ctx context.Context, tx *sql.Tx, orderID uint, note string) error {
	if note == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_notes (order_id, note) VALUES ($1, $2)
	`, orderID, note); err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}
	return nil
}
