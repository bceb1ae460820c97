package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ProfileServiceName = "dtrack.v1.ProfileService"

	ProfileGetCurrentEmployeeMethod = "/dtrack.v1.ProfileService/GetCurrentEmployee"
	ProfileGetIdentityMethod        = "/dtrack.v1.ProfileService/GetIdentity"
	ProfileGetPermissionsMethod     = "/dtrack.v1.ProfileService/GetPermissions"
)

// ProfileServer は ProfileService のサーバー側インターフェースです。
type ProfileServer interface {
	GetCurrentEmployee(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	GetIdentity(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
	GetPermissions(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// ProfileServiceDesc は ProfileService の grpc.ServiceDesc です。
var ProfileServiceDesc = grpc.ServiceDesc{
	ServiceName: ProfileServiceName,
	HandlerType: (*ProfileServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCurrentEmployee", Handler: unaryHandler(ProfileGetCurrentEmployeeMethod, ProfileServer.GetCurrentEmployee)},
		{MethodName: "GetIdentity", Handler: unaryHandler(ProfileGetIdentityMethod, ProfileServer.GetIdentity)},
		{MethodName: "GetPermissions", Handler: unaryHandler(ProfileGetPermissionsMethod, ProfileServer.GetPermissions)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterProfileServer は ProfileService を登録します。
func RegisterProfileServer(s grpc.ServiceRegistrar, srv ProfileServer) {
	s.RegisterService(&ProfileServiceDesc, srv)
}

// ProfileClient は ProfileService のクライアントです。
type ProfileClient struct {
	cc grpc.ClientConnInterface
}

// NewProfileClient は ProfileClient を生成します。
func NewProfileClient(cc grpc.ClientConnInterface) *ProfileClient {
	return &ProfileClient{cc: cc}
}

func (c *ProfileClient) GetCurrentEmployee(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProfileGetCurrentEmployeeMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProfileClient) GetIdentity(ctx context.Context, fallbackName string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProfileGetIdentityMethod, wrapperspb.String(fallbackName), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProfileClient) GetPermissions(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProfileGetPermissionsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
