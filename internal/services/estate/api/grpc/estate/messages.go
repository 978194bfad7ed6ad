package estate

import (
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Empty is the request or response of calls without a body.
type Empty struct{}

// AmountRequest carries a currency amount.
type AmountRequest struct {
	Amount primitive.Balance `json:"amount"`
}

// AssetRequest names an asset.
type AssetRequest struct {
	Asset primitive.AssetKey `json:"asset"`
}

// ReserveContributionsRequest earmarks explicit contributions for an asset.
type ReserveContributionsRequest struct {
	Asset         primitive.AssetKey  `json:"asset"`
	Contributions []fund.Contribution `json:"contributions"`
}

// SubmitAssetRequest puts an asset up for acquisition.
type SubmitAssetRequest struct {
	Asset    primitive.AssetKey `json:"asset"`
	Price    primitive.Balance  `json:"price"`
	Metadata string             `json:"metadata,omitempty"`
}

// CouncilVoteRequest is a council ballot.
type CouncilVoteRequest struct {
	Hash string `json:"hash"`
	Aye  bool   `json:"aye"`
}

// HashRequest names a proposal.
type HashRequest struct {
	Hash string `json:"hash"`
}

// VoteRequest is a referendum ballot.
type VoteRequest struct {
	Index primitive.ReferendumIndex `json:"index"`
	Aye   bool                      `json:"aye"`
}

// RepresentativeSessionRequest proposes a representative.
type RepresentativeSessionRequest struct {
	Asset     primitive.AssetKey  `json:"asset"`
	Candidate primitive.AccountID `json:"candidate"`
}

// TenantSessionRequest proposes a tenant.
type TenantSessionRequest struct {
	Asset     primitive.AssetKey   `json:"asset"`
	Tenant    primitive.AccountID  `json:"tenant"`
	Judgement *primitive.Judgement `json:"judgement,omitempty"`
}

// ReferendumRequest names a referendum.
type ReferendumRequest struct {
	Index primitive.ReferendumIndex `json:"index"`
}

// AssetView is the public record of an asset.
type AssetView struct {
	Asset          primitive.AssetKey    `json:"asset"`
	Status         string                `json:"status"`
	Seller         primitive.AccountID   `json:"seller"`
	Price          primitive.Balance     `json:"price"`
	Metadata       string                `json:"metadata,omitempty"`
	Rent           primitive.Balance     `json:"rent,omitempty"`
	Representative primitive.AccountID   `json:"representative,omitempty"`
	Tenants        []primitive.AccountID `json:"tenants,omitempty"`
	Waiting        []primitive.AccountID `json:"waiting,omitempty"`
	ProposalHash   string                `json:"proposal_hash"`
}

// Holding is one owner's token balance.
type Holding struct {
	Account primitive.AccountID `json:"account"`
	Balance primitive.Balance   `json:"balance"`
}

// VirtualAccountView is the public record of an asset's virtual account.
type VirtualAccountView struct {
	Asset   primitive.AssetKey  `json:"asset"`
	Account primitive.AccountID `json:"account"`
	TokenID primitive.TokenID   `json:"token_id"`
	Issued  primitive.Balance   `json:"issued"`
	Owners  []Holding           `json:"owners"`
}

// ReferendumView is the public record of a referendum.
type ReferendumView struct {
	Index     primitive.ReferendumIndex `json:"index"`
	Hash      string                    `json:"hash"`
	Kind      string                    `json:"kind"`
	Asset     primitive.AssetKey        `json:"asset"`
	Candidate primitive.AccountID       `json:"candidate,omitempty"`
	Track     string                    `json:"track"`
	Start     primitive.BlockNumber     `json:"start"`
	End       primitive.BlockNumber     `json:"end"`
	Ayes      primitive.Balance         `json:"ayes"`
	Nays      primitive.Balance         `json:"nays"`
	Outcome   string                    `json:"outcome"`
	EnactAt   primitive.BlockNumber     `json:"enact_at,omitempty"`
	Enacted   bool                      `json:"enacted"`
}

// RoleRequest names an account and a role.
type RoleRequest struct {
	Account primitive.AccountID `json:"account"`
	Role    primitive.Role      `json:"role"`
}

// MintAssetRequest mints an asset NFT to an owner.
type MintAssetRequest struct {
	Asset    primitive.AssetKey  `json:"asset"`
	Owner    primitive.AccountID `json:"owner"`
	Metadata string              `json:"metadata,omitempty"`
}

// BalanceRequest sets an account's free balance.
type BalanceRequest struct {
	Account primitive.AccountID `json:"account"`
	Amount  primitive.Balance   `json:"amount"`
}

// BalanceResponse reports an account's currency balances.
type BalanceResponse struct {
	Free     primitive.Balance `json:"free"`
	Reserved primitive.Balance `json:"reserved"`
}

// BlockRequest runs the block hooks up to a block.
type BlockRequest struct {
	Block primitive.BlockNumber `json:"block"`
}
