package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotAnOwner              = "NOT_AN_OWNER"
	CodeNotAnAsset              = "NOT_AN_ASSET"
	CodeAssetAlreadyOwned       = "ASSET_ALREADY_OWNED"
	CodeTokensAlreadyIssued     = "TOKENS_ALREADY_ISSUED"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeDuplicatePreimage       = "DUPLICATE_PREIMAGE"
	CodeSessionAlreadyOpen      = "SESSION_ALREADY_OPEN"
	CodeVotingClosed            = "VOTING_CLOSED"
	CodeVotingStillOpen         = "VOTING_STILL_OPEN"
	CodeNoVotingWeight          = "NO_VOTING_WEIGHT"
	CodeAlreadyWaiting          = "ALREADY_WAITING"
	CodeNotInWaitingList        = "NOT_IN_WAITING_LIST"
	CodePaymentAlreadyInProcess = "PAYMENT_ALREADY_IN_PROCESS"
	CodeContributionTooSmall    = "CONTRIBUTION_TOO_SMALL"
	CodeInsufficientFunds       = "INSUFFICIENT_FUNDS"
	CodeAmountInvalid           = "AMOUNT_INVALID"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInitializationError     = "INITIALIZATION_ERROR"
	CodeNotFound                = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeNotAnOwner:              "Only owners of this asset can do that.",
	CodeNotAnAsset:              "{{if .Asset}}Asset {{.Asset}} is not available for this operation.{{else}}The asset is not available for this operation.{{end}}",
	CodeAssetAlreadyOwned:       "This asset already has an owner.",
	CodeTokensAlreadyIssued:     "Ownership tokens were already issued for this asset.",
	CodeInvalidStatusTransition: "The asset cannot move from {{.FromStatus}} to {{.ToStatus}}.",
	CodeDuplicatePreimage:       "An identical proposal is already open.",
	CodeSessionAlreadyOpen:      "A voting session is already open for this asset.",
	CodeVotingClosed:            "Voting is closed.",
	CodeVotingStillOpen:         "Voting is still open.",
	CodeNoVotingWeight:          "You have no voting weight in this referendum.",
	CodeAlreadyWaiting:          "You are already waiting for this asset.",
	CodeNotInWaitingList:        "The candidate is not in the waiting list.",
	CodePaymentAlreadyInProcess: "This payment was already made.",
	CodeContributionTooSmall:    "Contributions must be at least {{.Minimum}}.",
	CodeInsufficientFunds:       "There are not enough funds for this operation.",
	CodeAmountInvalid:           "The amount must be greater than zero.",
	CodeUnauthorized:            "You are not allowed to do that.",
	CodeInitializationError:     "The estate engine is misconfigured.",
	CodeNotFound:                "The requested resource was not found.",
}
