package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
)

func TestKindOfWrapped(t *testing.T) {
	base := Affordability("need %d more", 40)
	wrapped := fmt.Errorf("pay: %w", base)

	if !IsKind(wrapped, KindAffordability) {
		t.Fatalf("expected affordability kind through wrapping, got %q", KindOf(wrapped))
	}
	if IsKind(wrapped, KindValidation) {
		t.Fatalf("wrong kind matched")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors carry no kind")
	}
	if IsKind(nil, KindValidation) {
		t.Fatalf("nil error has no kind")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindConfiguration, "load banner", errors.New("boom"))
	if got, want := err.Error(), "[CONFIGURATION_ERROR] load banner: boom"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if !errors.Is(err, err.Cause) {
		t.Fatalf("cause must unwrap")
	}
}

func TestGRPCStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"nil", nil, codes.OK},
		{"validation", Validation("amount must be positive"), codes.InvalidArgument},
		{"affordability", Affordability("short"), codes.FailedPrecondition},
		{"configuration", Configuration("bad banner"), codes.Internal},
		{"untyped", errors.New("x"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GRPCStatus(tt.err).Code(); got != tt.code {
				t.Fatalf("code = %v, want %v", got, tt.code)
			}
		})
	}
}

func TestGRPCStatusDetails(t *testing.T) {
	err := Affordability("short").WithContext("tier", "gold")
	st := GRPCStatus(err)

	details := st.Details()
	if len(details) != 1 {
		t.Fatalf("expected one detail, got %d", len(details))
	}
	info, ok := details[0].(*errdetails.ErrorInfo)
	if !ok {
		t.Fatalf("detail is %T", details[0])
	}
	if info.Reason != string(KindAffordability) || info.Domain != Domain {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Metadata["tier"] != "gold" {
		t.Fatalf("metadata not carried: %v", info.Metadata)
	}
}
