package groundwater

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/aquasutra/internal/domain/groundwater"
)

// PostgresBlockRepository reads block assessments from the groundwater_blocks table.
type PostgresBlockRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBlockRepository constructs the repository.
func NewPostgresBlockRepository(pool *pgxpool.Pool) *PostgresBlockRepository {
	return &PostgresBlockRepository{pool: pool}
}

// FindBlock fetches the latest assessment for district/block.
func (r *PostgresBlockRepository) FindBlock(ctx context.Context, district, block string) (groundwater.BlockStatus, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT district, block, classification, depth_m, recharge_rate, extraction_rate
		FROM groundwater_blocks
		WHERE lower(district) = lower($1) AND lower(block) = lower($2)
		ORDER BY assessed_on DESC
		LIMIT 1
	`, district, block)
	if err != nil {
		return groundwater.BlockStatus{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return groundwater.BlockStatus{}, false, rows.Err()
	}
	var st groundwater.BlockStatus
	if err := rows.Scan(&st.District, &st.Block, &st.Classification, &st.DepthM, &st.RechargeRate, &st.ExtractionRate); err != nil {
		return groundwater.BlockStatus{}, false, err
	}
	return st, true, rows.Err()
}

var _ BlockRepository = (*PostgresBlockRepository)(nil)
