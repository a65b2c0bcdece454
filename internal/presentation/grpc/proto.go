package grpc

// proto.go defines the gRPC server interface derived from umoja/lms/v1/lms.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/umojafin/lms/api/gen/go/umoja/lms/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/umojafin/lms/internal/application/dto"
)

// Request and response messages mirror the application DTOs; with the JSON
// codec registered they serialize identically to the proto JSON mapping.
type (
	DisburseLoanRequest        = dto.DisburseLoanRequest
	DisburseLoanResponse       = dto.LoanResponse
	GetLoanRequest             = dto.GetLoanRequest
	GetLoanResponse            = dto.LoanResponse
	ProcessPaymentRequest      = dto.ProcessPaymentRequest
	ProcessPaymentResponse     = dto.PaymentResponse
	ReverseTransactionRequest  = dto.ReverseTransactionRequest
	ReverseTransactionResponse = dto.ReversalResponse
	ClassifyLoanRequest        = dto.ClassifyLoanRequest
	ClassifyLoanResponse       = dto.ClassificationResponse
	BatchClassifyRequest       = dto.BatchClassifyRequest
	BatchClassifyResponse      = dto.BatchClassifyResponse
	UpdateDelayedDaysRequest   = dto.UpdateDelayedDaysRequest
	UpdateDelayedDaysResponse  = dto.UpdateDelayedDaysResponse
	CreateSnapshotRequest      = dto.CreateSnapshotRequest
	CreateSnapshotResponse     = dto.SnapshotResponse
)

// LoanServiceServer is the server API for LoanService.
// It mirrors the proto-generated interface from umoja.lms.v1.LoanService.
type LoanServiceServer interface {
	DisburseLoan(context.Context, *DisburseLoanRequest) (*DisburseLoanResponse, error)
	GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error)
	ProcessPayment(context.Context, *ProcessPaymentRequest) (*ProcessPaymentResponse, error)
	ReverseTransaction(context.Context, *ReverseTransactionRequest) (*ReverseTransactionResponse, error)
	ClassifyLoan(context.Context, *ClassifyLoanRequest) (*ClassifyLoanResponse, error)
	BatchClassify(context.Context, *BatchClassifyRequest) (*BatchClassifyResponse, error)
	UpdateDelayedDays(context.Context, *UpdateDelayedDaysRequest) (*UpdateDelayedDaysResponse, error)
	CreateSnapshot(context.Context, *CreateSnapshotRequest) (*CreateSnapshotResponse, error)
	mustEmbedUnimplementedLoanServiceServer()
}

// UnimplementedLoanServiceServer provides forward-compatible default implementations.
type UnimplementedLoanServiceServer struct{}

func (UnimplementedLoanServiceServer) DisburseLoan(context.Context, *DisburseLoanRequest) (*DisburseLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DisburseLoan not implemented")
}
func (UnimplementedLoanServiceServer) GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLoanServiceServer) ProcessPayment(context.Context, *ProcessPaymentRequest) (*ProcessPaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ProcessPayment not implemented")
}
func (UnimplementedLoanServiceServer) ReverseTransaction(context.Context, *ReverseTransactionRequest) (*ReverseTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReverseTransaction not implemented")
}
func (UnimplementedLoanServiceServer) ClassifyLoan(context.Context, *ClassifyLoanRequest) (*ClassifyLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClassifyLoan not implemented")
}
func (UnimplementedLoanServiceServer) BatchClassify(context.Context, *BatchClassifyRequest) (*BatchClassifyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method BatchClassify not implemented")
}
func (UnimplementedLoanServiceServer) UpdateDelayedDays(context.Context, *UpdateDelayedDaysRequest) (*UpdateDelayedDaysResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateDelayedDays not implemented")
}
func (UnimplementedLoanServiceServer) CreateSnapshot(context.Context, *CreateSnapshotRequest) (*CreateSnapshotResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateSnapshot not implemented")
}
func (UnimplementedLoanServiceServer) mustEmbedUnimplementedLoanServiceServer() {}

// RegisterLoanServiceServer registers the LoanServiceServer with the gRPC server.
func RegisterLoanServiceServer(s *grpclib.Server, srv LoanServiceServer) {
	s.RegisterService(&_LoanService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "umoja.lms.v1.LoanService",
	HandlerType: (*LoanServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "DisburseLoan", Handler: _LoanService_DisburseLoan_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "GetLoan", Handler: _LoanService_GetLoan_Handler},                       //nolint:revive // gRPC handler registration
		{MethodName: "ProcessPayment", Handler: _LoanService_ProcessPayment_Handler},         //nolint:revive // gRPC handler registration
		{MethodName: "ReverseTransaction", Handler: _LoanService_ReverseTransaction_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "ClassifyLoan", Handler: _LoanService_ClassifyLoan_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "BatchClassify", Handler: _LoanService_BatchClassify_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "UpdateDelayedDays", Handler: _LoanService_UpdateDelayedDays_Handler},   //nolint:revive // gRPC handler registration
		{MethodName: "CreateSnapshot", Handler: _LoanService_CreateSnapshot_Handler},         //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_DisburseLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(DisburseLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).DisburseLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/DisburseLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).DisburseLoan(ctx, req.(*DisburseLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_GetLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).GetLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/GetLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).GetLoan(ctx, req.(*GetLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_ProcessPayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProcessPaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).ProcessPayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/ProcessPayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).ProcessPayment(ctx, req.(*ProcessPaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_ReverseTransaction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReverseTransactionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).ReverseTransaction(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/ReverseTransaction",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).ReverseTransaction(ctx, req.(*ReverseTransactionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_ClassifyLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClassifyLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).ClassifyLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/ClassifyLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).ClassifyLoan(ctx, req.(*ClassifyLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_BatchClassify_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(BatchClassifyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).BatchClassify(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/BatchClassify",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).BatchClassify(ctx, req.(*BatchClassifyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_UpdateDelayedDays_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateDelayedDaysRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).UpdateDelayedDays(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/UpdateDelayedDays",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).UpdateDelayedDays(ctx, req.(*UpdateDelayedDaysRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_CreateSnapshot_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateSnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).CreateSnapshot(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/umoja.lms.v1.LoanService/CreateSnapshot",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).CreateSnapshot(ctx, req.(*CreateSnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}
