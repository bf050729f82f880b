package dao

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rbannon32/lawscan/server/data"
)

type ComputedValueDAO struct {
	Db *sql.DB
}

// Insert upserts a computed value by key. The newest write wins; derived
// artifacts are regenerated in full so there is nothing to merge.
func (d *ComputedValueDAO) Insert(
	ctx context.Context,
	cv *data.ComputedValue,
) error {
	id := uuid.New().String()

	_, err := d.Db.ExecContext(
		ctx,
		`INSERT INTO computed_value(value_id, key, data, created_timestamp)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET data = $3, created_timestamp = $4`,
		id,
		cv.Key,
		cv.Data,
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("error inserting computed value %s: %w", cv.Key, err)
	}

	return nil
}

// FindByKey returns the computed value for a key, or nil when absent.
func (d *ComputedValueDAO) FindByKey(
	ctx context.Context,
	key string,
) (*data.ComputedValue, error) {
	var cv data.ComputedValue
	err := d.Db.QueryRowContext(
		ctx,
		`SELECT value_id, key, data, created_timestamp
		FROM computed_value
		WHERE key = $1`,
		key,
	).Scan(
		&cv.InternalId,
		&cv.Key,
		&cv.Data,
		&cv.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding computed value %s: %w", key, err)
	}

	return &cv, nil
}
