package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	DateRangeServiceName = "dtrack.v1.DateRangeService"

	DateRangeComputeRangeMethod = "/dtrack.v1.DateRangeService/ComputeRange"
	DateRangeListRangesMethod   = "/dtrack.v1.DateRangeService/ListRanges"
	DateRangeStepRangeMethod    = "/dtrack.v1.DateRangeService/StepRange"
)

// DateRangeServer は DateRangeService のサーバー側インターフェースです。
type DateRangeServer interface {
	ComputeRange(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListRanges(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	StepRange(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// DateRangeServiceDesc は DateRangeService の grpc.ServiceDesc です。
var DateRangeServiceDesc = grpc.ServiceDesc{
	ServiceName: DateRangeServiceName,
	HandlerType: (*DateRangeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputeRange", Handler: unaryHandler(DateRangeComputeRangeMethod, DateRangeServer.ComputeRange)},
		{MethodName: "ListRanges", Handler: unaryHandler(DateRangeListRangesMethod, DateRangeServer.ListRanges)},
		{MethodName: "StepRange", Handler: unaryHandler(DateRangeStepRangeMethod, DateRangeServer.StepRange)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterDateRangeServer は DateRangeService を登録します。
func RegisterDateRangeServer(s grpc.ServiceRegistrar, srv DateRangeServer) {
	s.RegisterService(&DateRangeServiceDesc, srv)
}

// DateRangeClient は DateRangeService のクライアントです。
type DateRangeClient struct {
	cc grpc.ClientConnInterface
}

// NewDateRangeClient は DateRangeClient を生成します。
func NewDateRangeClient(cc grpc.ClientConnInterface) *DateRangeClient {
	return &DateRangeClient{cc: cc}
}

func (c *DateRangeClient) ComputeRange(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, DateRangeComputeRangeMethod, in, opts...)
}

func (c *DateRangeClient) ListRanges(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, DateRangeListRangesMethod, in, opts...)
}

func (c *DateRangeClient) StepRange(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, DateRangeStepRangeMethod, in, opts...)
}

func (c *DateRangeClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
