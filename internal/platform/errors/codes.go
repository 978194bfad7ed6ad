// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Ownership and asset errors
	CodeNotAnOwner          Code = "NOT_AN_OWNER"
	CodeNotAnAsset          Code = "NOT_AN_ASSET"
	CodeAssetAlreadyOwned   Code = "ASSET_ALREADY_OWNED"
	CodeTokensAlreadyIssued Code = "TOKENS_ALREADY_ISSUED"

	// Asset lifecycle errors
	CodeInvalidStatusTransition Code = "INVALID_STATUS_TRANSITION"

	// Proposal and voting errors
	CodeDuplicatePreimage  Code = "DUPLICATE_PREIMAGE"
	CodeSessionAlreadyOpen Code = "SESSION_ALREADY_OPEN"
	CodeVotingClosed       Code = "VOTING_CLOSED"
	CodeVotingStillOpen    Code = "VOTING_STILL_OPEN"
	CodeNoVotingWeight     Code = "NO_VOTING_WEIGHT"

	// Waiting list errors
	CodeAlreadyWaiting   Code = "ALREADY_WAITING"
	CodeNotInWaitingList Code = "NOT_IN_WAITING_LIST"

	// Payment and fund errors
	CodePaymentAlreadyInProcess Code = "PAYMENT_ALREADY_IN_PROCESS"
	CodeContributionTooSmall    Code = "CONTRIBUTION_TOO_SMALL"
	CodeInsufficientFunds       Code = "INSUFFICIENT_FUNDS"
	CodeAmountInvalid           Code = "AMOUNT_INVALID"

	// Access errors
	CodeUnauthorized Code = "UNAUTHORIZED"

	// Engine errors
	CodeInitializationError Code = "INITIALIZATION_ERROR"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeContributionTooSmall,
		CodeAmountInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeInvalidStatusTransition,
		CodeVotingClosed,
		CodeVotingStillOpen,
		CodeNoVotingWeight,
		CodeNotInWaitingList,
		CodePaymentAlreadyInProcess,
		CodeInsufficientFunds,
		CodeNotAnAsset:
		return codes.FailedPrecondition

	// PermissionDenied - caller lacks the required role or ownership
	case CodeNotAnOwner,
		CodeUnauthorized:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAssetAlreadyOwned,
		CodeTokensAlreadyIssued,
		CodeDuplicatePreimage,
		CodeSessionAlreadyOpen,
		CodeAlreadyWaiting:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
