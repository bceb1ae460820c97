package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/dtrack/internal/core/daterange"
	pgdb "github.com/ogurasousui/dtrack/internal/platform/db/postgres"
)

// ActiveRangeRepository は daterange_active から実績のある期間を取得する daterange.Source の実装です。
type ActiveRangeRepository struct {
	session
}

// NewActiveRangeRepository は ActiveRangeRepository を生成します。
func NewActiveRangeRepository(pool DB) *ActiveRangeRepository {
	return &ActiveRangeRepository{session: newSession(pool)}
}

// ActiveRanges は粒度に対応する列 (days, weeks, months, years) の値をまとめて返します。
// filter が指定された場合はその次元で集計された行だけを対象にします。
func (r *ActiveRangeRepository) ActiveRanges(ctx context.Context, credential string, g daterange.Granularity, filter daterange.Filter) ([]string, error) {
	if !g.Valid() {
		return nil, daterange.ErrInvalidGranularity
	}
	key, ids, err := filter.Dimension()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + pgx.Identifier{string(g) + "s"}.Sanitize() + " FROM daterange_active()"
	var args []any
	if key != "" {
		query += " WHERE dims = $1 AND dimensions->>$2 = ANY($3)"
		args = append(args, []string{key}, key, ids)
	}

	var values []string
	err = r.withinRole(ctx, credential, func(ctx context.Context, exec pgdb.Queryer) error {
		rows, err := exec.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("postgres: query daterange_active: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var row []string
			if err := rows.Scan(&row); err != nil {
				return fmt.Errorf("postgres: scan daterange_active: %w", err)
			}
			values = append(values, row...)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}
