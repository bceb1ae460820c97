package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/dtrack/internal/core/profile"
	pgdb "github.com/ogurasousui/dtrack/internal/platform/db/postgres"
)

const undefinedObjectCode = "42704"

// ErrMissingRoleClaim は credential に role クレームが含まれていないことを表します。
var ErrMissingRoleClaim = errors.New("postgres: credential has no role claim")

// DB は pgxpool.Pool と互換性のある接続インターフェースです。
type DB interface {
	pgdb.Queryer
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// session は credential の role とクレームを設定したトランザクション内でクエリを実行します。
type session struct {
	pool DB
	tx   *pgdb.TransactionManager
}

func newSession(pool DB) session {
	return session{pool: pool, tx: pgdb.NewTransactionManager(pool)}
}

func (s session) withinRole(ctx context.Context, credential string, fn func(context.Context, pgdb.Queryer) error) error {
	role, claims, err := parseCredential(credential)
	if err != nil {
		return err
	}

	if err := s.tx.WithinRole(ctx, role, claims, fn); err != nil {
		return translateLookupError(err)
	}
	return nil
}

// parseCredential は署名検証済みの id token から role とクレーム JSON を取り出します。
func parseCredential(credential string) (string, string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return "", "", fmt.Errorf("postgres: parse credential: %w", err)
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return "", "", ErrMissingRoleClaim
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return "", "", fmt.Errorf("postgres: encode claims: %w", err)
	}
	return role, string(raw), nil
}

// translateLookupError は未作成ロールのエラーを profile.LookupError に変換します。
func translateLookupError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedObjectCode {
		return &profile.LookupError{Body: pgErr.Message}
	}
	return err
}
