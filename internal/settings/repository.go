package settings

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Repository persists gateway settings as key/value rows per gateway id.
type Repository interface {
	Load(ctx context.Context, gatewayID string) (map[string]string, error)
	Save(ctx context.Context, gatewayID string, values map[string]string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Load returns the stored values; a gateway never saved yields an empty map.
func (r *repository) Load(ctx context.Context, gatewayID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value
		FROM gateway_settings
		WHERE gateway_id = $1
	`, gatewayID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadSettings, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedLoadSettings, err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadSettings, err)
	}

	return values, nil
}

func (r *repository) Save(ctx context.Context, gatewayID string, values map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveSettings, err)
	}
	defer tx.Rollback()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO gateway_settings (gateway_id, key, value, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (gateway_id, key)
			DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		`, gatewayID, k, values[k])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFailedSaveSettings, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveSettings, err)
	}
	return nil
}
