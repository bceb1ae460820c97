package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ogurasousui/dtrack/internal/core/profile"
)

type stubProfileUseCase struct {
	credential string
	fallback   string
	profile    *profile.Profile
	err        error
}

func (s *stubProfileUseCase) Profile(_ context.Context, credential string) (*profile.Profile, error) {
	s.credential = credential
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func (s *stubProfileUseCase) Identity(_ context.Context, credential, fallbackName string) (*profile.Identity, error) {
	s.credential = credential
	s.fallback = fallbackName
	if s.err != nil {
		return nil, s.err
	}
	return &profile.Identity{ID: s.profile.ID, FullName: fallbackName}, nil
}

func (s *stubProfileUseCase) Permissions(_ context.Context, credential string) ([]string, error) {
	s.credential = credential
	if s.err != nil {
		return nil, s.err
	}
	return s.profile.Roles, nil
}

func withBearer(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
}

func TestProfileHandler_GetCurrentEmployee(t *testing.T) {
	t.Parallel()

	uc := &stubProfileUseCase{profile: &profile.Profile{ID: 42, FullName: "Grace Hopper", Roles: []string{"employee", "lead"}}}
	h := NewProfileHandler(uc)

	resp, err := h.GetCurrentEmployee(withBearer("token-a"), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetCurrentEmployee returned error: %v", err)
	}

	if uc.credential != "token-a" {
		t.Fatalf("expected bearer token to be forwarded, got %q", uc.credential)
	}

	want := map[string]any{
		"id":        float64(42),
		"full_name": "Grace Hopper",
		"roles":     []any{"employee", "lead"},
		"manager":   true,
	}
	if diff := cmp.Diff(want, resp.AsMap()); diff != "" {
		t.Fatalf("unexpected response (-want +got):\n%s", diff)
	}
}

func TestProfileHandler_GetCurrentEmployee_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "missing credential", err: profile.ErrMissingCredential, code: codes.Unauthenticated},
		{name: "unrecoverable", err: profile.ErrUnrecoverable, code: codes.PermissionDenied},
		{name: "exhausted", err: profile.ErrExhausted, code: codes.Unavailable},
		{name: "provisioning failed", err: profile.ErrProvisioningFailed, code: codes.Unavailable},
		{name: "unknown", err: errors.New("boom"), code: codes.Internal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewProfileHandler(&stubProfileUseCase{err: tt.err})
			_, err := h.GetCurrentEmployee(context.Background(), &emptypb.Empty{})
			if status.Code(err) != tt.code {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestProfileHandler_GetIdentityAndPermissions(t *testing.T) {
	t.Parallel()

	uc := &stubProfileUseCase{profile: &profile.Profile{ID: 7, Roles: []string{"power"}}}
	h := NewProfileHandler(uc)
	ctx := withBearer("token-b")

	identity, err := h.GetIdentity(ctx, wrapperspb.String("grace@example.com"))
	if err != nil {
		t.Fatalf("GetIdentity returned error: %v", err)
	}
	if uc.fallback != "grace@example.com" {
		t.Fatalf("expected fallback name to be forwarded, got %q", uc.fallback)
	}
	if got := identity.AsMap()["id"]; got != float64(7) {
		t.Fatalf("unexpected id: %v", got)
	}

	perms, err := h.GetPermissions(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetPermissions returned error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"roles": []any{"power"}}, perms.AsMap()); diff != "" {
		t.Fatalf("unexpected permissions (-want +got):\n%s", diff)
	}
}

func TestBearerFromContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "no metadata", ctx: context.Background(), want: ""},
		{name: "bearer", ctx: withBearer("abc"), want: "abc"},
		{name: "lowercase scheme", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "bearer  xyz ")), want: "xyz"},
		{name: "basic scheme", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic abc")), want: ""},
		{name: "too short", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bear")), want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := bearerFromContext(tt.ctx); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
