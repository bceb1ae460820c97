package handler

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ogurasousui/dtrack/internal/adapters/grpc/service"
	"github.com/ogurasousui/dtrack/internal/core/profile"
)

// ProfileHandler は ProfileService の gRPC 実装です。
type ProfileHandler struct {
	uc profile.UseCase
}

var _ service.ProfileServer = (*ProfileHandler)(nil)

// NewProfileHandler は ProfileHandler を生成します。
func NewProfileHandler(uc profile.UseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// GetCurrentEmployee は呼び出し元の社員プロフィールを返します。
func (h *ProfileHandler) GetCurrentEmployee(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	p, err := h.uc.Profile(ctx, bearerFromContext(ctx))
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{
		"id":        p.ID,
		"full_name": p.FullName,
		"roles":     stringList(p.Roles),
		"manager":   p.IsManager(),
	})
}

// GetIdentity は呼び出し元の ID と表示名を返します。表示名が空の場合は fallback を使います。
func (h *ProfileHandler) GetIdentity(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	identity, err := h.uc.Identity(ctx, bearerFromContext(ctx), in.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{
		"id":        identity.ID,
		"full_name": identity.FullName,
	})
}

// GetPermissions は呼び出し元のロール一覧を返します。
func (h *ProfileHandler) GetPermissions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	roles, err := h.uc.Permissions(ctx, bearerFromContext(ctx))
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"roles": stringList(roles)})
}
