// Package effect describes side effects on external collaborators. Deciders
// queue effects alongside events; the engine runs them after every decision
// of an action succeeded and compensates completed effects when a later one
// fails.
package effect

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Kind identifies an effect.
type Kind string

const (
	KindTransfer      Kind = "currency.transfer"
	KindReserve       Kind = "currency.reserve"
	KindUnreserve     Kind = "currency.unreserve"
	KindAssetTransfer Kind = "asset.transfer"
	KindJudgement     Kind = "identity.judgement"
	KindApproveRole   Kind = "roles.approve"
)

// Effect is one queued call to a collaborator.
type Effect struct {
	Kind      Kind
	From      primitive.AccountID
	To        primitive.AccountID
	Amount    primitive.Balance
	Existence port.Existence
	Asset     primitive.AssetKey
	Role      primitive.Role
	Judgement primitive.Judgement
}

// Transfer moves currency between accounts.
func Transfer(from, to primitive.AccountID, amount primitive.Balance, existence port.Existence) Effect {
	return Effect{Kind: KindTransfer, From: from, To: to, Amount: amount, Existence: existence}
}

// Reserve moves free balance of account into its reserved balance.
func Reserve(account primitive.AccountID, amount primitive.Balance) Effect {
	return Effect{Kind: KindReserve, From: account, Amount: amount}
}

// Unreserve returns reserved balance of account to its free balance.
func Unreserve(account primitive.AccountID, amount primitive.Balance) Effect {
	return Effect{Kind: KindUnreserve, From: account, Amount: amount}
}

// TransferAsset moves the asset NFT from its current owner to a new one.
func TransferAsset(asset primitive.AssetKey, from, to primitive.AccountID) Effect {
	return Effect{Kind: KindAssetTransfer, Asset: asset, From: from, To: to}
}

// ProvideJudgement records a registrar judgement for account.
func ProvideJudgement(account primitive.AccountID, judgement primitive.Judgement) Effect {
	return Effect{Kind: KindJudgement, To: account, Judgement: judgement}
}

// ApproveRole approves a pending role request for account.
func ApproveRole(account primitive.AccountID, role primitive.Role) Effect {
	return Effect{Kind: KindApproveRole, To: account, Role: role}
}

// String renders the effect for logs.
func (e Effect) String() string {
	switch e.Kind {
	case KindTransfer:
		return fmt.Sprintf("%s %s->%s %d (%s)", e.Kind, e.From, e.To, e.Amount, e.Existence)
	case KindReserve, KindUnreserve:
		return fmt.Sprintf("%s %s %d", e.Kind, e.From, e.Amount)
	case KindAssetTransfer:
		return fmt.Sprintf("%s %s %s->%s", e.Kind, e.Asset, e.From, e.To)
	case KindJudgement:
		return fmt.Sprintf("%s %s %s", e.Kind, e.To, e.Judgement)
	case KindApproveRole:
		return fmt.Sprintf("%s %s %s", e.Kind, e.To, e.Role)
	}
	return string(e.Kind)
}
