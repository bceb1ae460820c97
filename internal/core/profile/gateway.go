package profile

import "context"

// Gateway は社員プロフィール取得とオンボーディングを行う外部エンドポイントの抽象です。
type Gateway interface {
	// LookupCurrentEmployee は credential の利用者に対応するレコードを返します。
	// 該当レコードが無い場合は nil, nil を返します。
	// エラー応答は *LookupError として返します。
	LookupCurrentEmployee(ctx context.Context, credential string) (*EmployeeRecord, error)
	// Onboard は credential の利用者の社員レコードを作成します。
	Onboard(ctx context.Context, credential string) error
}
