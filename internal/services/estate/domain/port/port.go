// Package port declares the external collaborators the estate engine depends
// on by contract only: roles, the NFT anchor, identity and currency.
package port

import "github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"

// Existence states whether a transfer may drop the sender below the
// existential deposit and reap the account.
type Existence string

const (
	// AllowDeath lets the sender's account be reaped.
	AllowDeath Existence = "allow_death"
	// KeepAlive fails the transfer rather than reap the sender.
	KeepAlive Existence = "keep_alive"
)

// Roles is the role registration and approval service.
type Roles interface {
	HasRole(account primitive.AccountID, role primitive.Role) bool
	IsPending(account primitive.AccountID, role primitive.Role) bool
	RegisterPending(account primitive.AccountID, role primitive.Role) error
	Approve(account primitive.AccountID, role primitive.Role) error
}

// Assets is the NFT anchor: every real-estate asset is an NFT item.
type Assets interface {
	OwnerOf(asset primitive.AssetKey) (primitive.AccountID, bool)
	Transfer(asset primitive.AssetKey, to primitive.AccountID) error
}

// Identity is the identity registrar.
type Identity interface {
	JudgementOf(account primitive.AccountID) primitive.Judgement
	ProvideJudgement(account primitive.AccountID, judgement primitive.Judgement) error
}

// Currency is the fungible currency with free and reserved balances.
type Currency interface {
	FreeBalance(account primitive.AccountID) primitive.Balance
	ReservedBalance(account primitive.AccountID) primitive.Balance
	Transfer(from, to primitive.AccountID, amount primitive.Balance, existence Existence) error
	Reserve(account primitive.AccountID, amount primitive.Balance) error
	Unreserve(account primitive.AccountID, amount primitive.Balance) error
	MakeFreeBalanceBe(account primitive.AccountID, amount primitive.Balance)
}
