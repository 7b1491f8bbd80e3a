package errors

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Domain is the ErrorInfo domain attached to status details.
const Domain = "gacha-core"

// GRPCCode maps a failure kind to the gRPC code a service should answer with.
func GRPCCode(kind Kind) codes.Code {
	switch kind {
	case KindValidation:
		return codes.InvalidArgument
	case KindAffordability:
		return codes.FailedPrecondition
	case KindConfiguration:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// GRPCStatus converts err into a gRPC status. Typed errors carry an ErrorInfo
// detail whose reason is the kind and whose metadata is the error context.
func GRPCStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	var e *Error
	if !errors.As(err, &e) {
		return status.New(codes.Internal, "an unexpected error occurred")
	}

	st := status.New(GRPCCode(e.Kind), e.Message)
	info := &errdetails.ErrorInfo{
		Reason: string(e.Kind),
		Domain: Domain,
	}
	if len(e.Context) > 0 {
		info.Metadata = make(map[string]string, len(e.Context))
		for k, v := range e.Context {
			info.Metadata[k] = fmt.Sprint(v)
		}
	}
	withDetails, derr := st.WithDetails(info)
	if derr != nil {
		return st
	}
	return withDetails
}
