package cart

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	ClearByUser(ctx context.Context, userID uint) (int64, error)
	ClearBySession(ctx context.Context, sessionID string) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClearByUser(ctx context.Context, userID uint) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFailedClearCart, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *repository) ClearBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFailedClearCart, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
