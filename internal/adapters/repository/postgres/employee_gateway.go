package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/dtrack/internal/core/profile"
	pgdb "github.com/ogurasousui/dtrack/internal/platform/db/postgres"
)

// EmployeeGateway は PostgreSQL に直接接続して current_employee と onboard を扱う profile.Gateway の実装です。
type EmployeeGateway struct {
	session
}

// NewEmployeeGateway は EmployeeGateway を生成します。
func NewEmployeeGateway(pool DB) *EmployeeGateway {
	return &EmployeeGateway{session: newSession(pool)}
}

// LookupCurrentEmployee は credential の role で current_employee を参照します。
func (g *EmployeeGateway) LookupCurrentEmployee(ctx context.Context, credential string) (*profile.EmployeeRecord, error) {
	var record *profile.EmployeeRecord

	err := g.withinRole(ctx, credential, func(ctx context.Context, exec pgdb.Queryer) error {
		row := exec.QueryRow(ctx, `
        SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(roles, '{}')
          FROM current_employee
         LIMIT 1
    `)

		found, err := scanEmployeeRecord(row)
		if err != nil {
			return err
		}
		record = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Onboard は onboard 関数を呼び出して社員レコードとロールを作成します。
func (g *EmployeeGateway) Onboard(ctx context.Context, credential string) error {
	return g.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		exec := pgdb.QueryerFromContext(ctx, g.pool)
		if _, err := exec.Exec(ctx, `SELECT onboard($1)`, credential); err != nil {
			return fmt.Errorf("postgres: onboard: %w", err)
		}
		return nil
	})
}

func scanEmployeeRecord(row pgx.Row) (*profile.EmployeeRecord, error) {
	var record profile.EmployeeRecord
	if err := row.Scan(&record.ID, &record.FirstName, &record.LastName, &record.Roles); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
