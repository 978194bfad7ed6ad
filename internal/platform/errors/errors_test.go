package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("launch: %w", New(CodeNotAnOwner, "caller is not an owner"))
	if !stderrors.Is(err, New(CodeNotAnOwner, "")) {
		t.Fatal("expected wrapped error to match by code")
	}
	if stderrors.Is(err, New(CodeNotAnAsset, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New(CodeVotingClosed, "closed"))); got != CodeVotingClosed {
		t.Fatalf("CodeOf = %s, want %s", got, CodeVotingClosed)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf plain = %s, want %s", got, CodeUnknown)
	}
	if HasCode(nil, CodeUnknown) {
		t.Fatal("nil error must not carry a code")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeInitializationError, "open journal", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeContributionTooSmall, codes.InvalidArgument},
		{CodeInsufficientFunds, codes.FailedPrecondition},
		{CodeVotingStillOpen, codes.FailedPrecondition},
		{CodeNotAnOwner, codes.PermissionDenied},
		{CodeUnauthorized, codes.PermissionDenied},
		{CodeNotFound, codes.NotFound},
		{CodeDuplicatePreimage, codes.AlreadyExists},
		{CodeInitializationError, codes.Internal},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Fatalf("%s.GRPCCode() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestToGRPCStatusDetails(t *testing.T) {
	err := WithMetadata(CodeContributionTooSmall, "contribution below minimum", map[string]string{"Minimum": "100"})
	st := status.Convert(err.ToGRPCStatus("pt-BR"))
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %v, want %v", st.Code(), codes.InvalidArgument)
	}
	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			info = d
		case *errdetails.LocalizedMessage:
			localized = d
		}
	}
	if info == nil || info.Reason != string(CodeContributionTooSmall) || info.Domain != Domain {
		t.Fatalf("error info = %+v", info)
	}
	if info.Metadata["Minimum"] != "100" {
		t.Fatalf("metadata = %v", info.Metadata)
	}
	if localized == nil || localized.Locale != "en-US" || localized.Message != "Contributions must be at least 100." {
		t.Fatalf("localized = %+v", localized)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeInitializationError, "invalid engine params", stderrors.New("council is empty"))
	if got := err.Error(); got != "invalid engine params: council is empty" {
		t.Fatalf("Error() = %q", got)
	}
	if got := Errorf(CodeNotFound, "asset %d:%d", 1, 2).Error(); got != "asset 1:2" {
		t.Fatalf("Errorf message = %q", got)
	}
}
