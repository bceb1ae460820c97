package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

const bearerPrefix = "bearer "

// bearerFromContext は authorization メタデータから Bearer トークンを取り出します。
// 無い場合や形式が不正な場合は空文字を返します。
func bearerFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
