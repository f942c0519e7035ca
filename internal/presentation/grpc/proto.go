package grpc

// proto.go defines the gRPC surface of autofin.credit.v1.CreditService. The
// service descriptor and unary handlers are written by hand and paired with
// the JSON codec in json_codec.go, so no generated protobuf code is needed.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProcessApplicationRequest submits a credit application for decision.
// Monetary figures travel as decimal strings.
type ProcessApplicationRequest struct {
	DocumentNumber  string `json:"document_number"`
	RequestedAmount string `json:"requested_amount"`

	VehicleVIN          string `json:"vehicle_vin"`
	VehicleBrand        string `json:"vehicle_brand"`
	VehicleModel        string `json:"vehicle_model"`
	VehicleYear         int    `json:"vehicle_year"`
	VehicleType         string `json:"vehicle_type,omitempty"`
	VehicleValue        string `json:"vehicle_value"`
	VehicleOdometer     int    `json:"vehicle_odometer"`
	VehicleColor        string `json:"vehicle_color,omitempty"`
	VehicleEngine       string `json:"vehicle_engine,omitempty"`
	VehicleTransmission string `json:"vehicle_transmission,omitempty"`
}

// GetApplicationRequest identifies a single application.
type GetApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

// ListApplicationsRequest identifies a customer document.
type ListApplicationsRequest struct {
	DocumentNumber string `json:"document_number"`
}

// Decision is the wire representation of a decided application.
type Decision struct {
	ApplicationID      string `json:"application_id"`
	CustomerDocument   string `json:"customer_document"`
	VehicleVIN         string `json:"vehicle_vin"`
	RequestedAmount    string `json:"requested_amount"`
	Status             string `json:"status"`
	CreditScore        int    `json:"credit_score,omitempty"`
	ScoreFallback      bool   `json:"score_fallback,omitempty"`
	AnnualRate         string `json:"annual_rate,omitempty"`
	MonthlyInstallment string `json:"monthly_installment,omitempty"`
	RejectionReason    string `json:"rejection_reason,omitempty"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

type ProcessApplicationResponse struct {
	Decision *Decision `json:"decision"`
}

type GetApplicationResponse struct {
	Decision *Decision `json:"decision"`
}

type ListApplicationsResponse struct {
	Decisions []*Decision `json:"decisions"`
}

// CreditServiceServer is the server API for CreditService.
type CreditServiceServer interface {
	ProcessApplication(context.Context, *ProcessApplicationRequest) (*ProcessApplicationResponse, error)
	GetApplication(context.Context, *GetApplicationRequest) (*GetApplicationResponse, error)
	ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error)
	mustEmbedUnimplementedCreditServiceServer()
}

// UnimplementedCreditServiceServer provides forward-compatible defaults.
type UnimplementedCreditServiceServer struct{}

func (UnimplementedCreditServiceServer) ProcessApplication(context.Context, *ProcessApplicationRequest) (*ProcessApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ProcessApplication not implemented")
}

func (UnimplementedCreditServiceServer) GetApplication(context.Context, *GetApplicationRequest) (*GetApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetApplication not implemented")
}

func (UnimplementedCreditServiceServer) ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListApplications not implemented")
}

func (UnimplementedCreditServiceServer) mustEmbedUnimplementedCreditServiceServer() {}

// RegisterCreditServiceServer registers the service implementation with the server.
func RegisterCreditServiceServer(s *grpclib.Server, srv CreditServiceServer) {
	s.RegisterService(&_CreditService_serviceDesc, srv)
}

var _CreditService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "autofin.credit.v1.CreditService",
	HandlerType: (*CreditServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ProcessApplication", Handler: _CreditService_ProcessApplication_Handler},
		{MethodName: "GetApplication", Handler: _CreditService_GetApplication_Handler},
		{MethodName: "ListApplications", Handler: _CreditService_ListApplications_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _CreditService_ProcessApplication_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProcessApplicationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).ProcessApplication(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/autofin.credit.v1.CreditService/ProcessApplication",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).ProcessApplication(ctx, req.(*ProcessApplicationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CreditService_GetApplication_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetApplicationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).GetApplication(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/autofin.credit.v1.CreditService/GetApplication",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).GetApplication(ctx, req.(*GetApplicationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CreditService_ListApplications_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListApplicationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).ListApplications(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/autofin.credit.v1.CreditService/ListApplications",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).ListApplications(ctx, req.(*ListApplicationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}
