package pincode

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDirectory reads pincode mappings from the pincode_blocks table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory constructs the repository.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// FindByPincode fetches one mapping.
func (r *PostgresDirectory) FindByPincode(ctx context.Context, pincode string) (Record, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pincode, district, block, state, latitude, longitude
		FROM pincode_blocks
		WHERE pincode = $1
	`, pincode)
	if err != nil {
		return Record{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return Record{}, false, rows.Err()
	}
	var rec Record
	if err := rows.Scan(&rec.Pincode, &rec.District, &rec.Block, &rec.State, &rec.Lat, &rec.Lon); err != nil {
		return Record{}, false, err
	}
	return rec, true, rows.Err()
}

var _ Repository = (*PostgresDirectory)(nil)
