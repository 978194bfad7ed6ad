package ownership

import (
	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Contribution is one account's stake in an acquisition, used to split the
// token supply.
type Contribution struct {
	Account primitive.AccountID
	Amount  primitive.Balance
}

// OpenVirtualAccount creates the virtual account for asset.
func OpenVirtualAccount(state State, asset primitive.AssetKey) command.Decision {
	if _, exists := state.Accounts[asset]; exists {
		return command.Rejectf(apperrors.CodeAssetAlreadyOwned, "asset %s already has a virtual account", asset)
	}
	account := DeriveAccount(asset)
	return command.Accept(event.MustNew(EventTypeAccountOpened, entityType, string(account), AccountOpenedPayload{
		Asset:   asset,
		Account: account,
		TokenID: state.NextToken,
	}))
}

// IssueTokens mints supply tokens to the virtual account of asset.
func IssueTokens(state State, asset primitive.AssetKey, supply primitive.Balance) command.Decision {
	va, ok := state.Accounts[asset]
	if !ok {
		return command.Rejectf(apperrors.CodeNotAnAsset, "asset %s has no virtual account", asset)
	}
	if va.Issued > 0 {
		return command.Rejectf(apperrors.CodeTokensAlreadyIssued, "tokens for asset %s already issued", asset)
	}
	if supply == 0 {
		return command.Rejectf(apperrors.CodeAmountInvalid, "token supply must be positive")
	}
	return command.Accept(event.MustNew(EventTypeTokensIssued, entityType, string(va.Account), TokensIssuedPayload{
		Asset:   asset,
		Account: va.Account,
		TokenID: va.TokenID,
		Supply:  supply,
	}))
}

// Distribute splits the issued supply among contributors in proportion to
// what they paid. Units lost to rounding stay with the virtual account.
func Distribute(state State, asset primitive.AssetKey, contributions []Contribution) command.Decision {
	va, ok := state.Accounts[asset]
	if !ok || va.Issued == 0 {
		return command.Rejectf(apperrors.CodeNotAnAsset, "asset %s has no issued tokens", asset)
	}
	if va.Distributed {
		return command.Rejectf(apperrors.CodeTokensAlreadyIssued, "tokens for asset %s already distributed", asset)
	}

	merged := make(map[primitive.AccountID]primitive.Balance, len(contributions))
	var total primitive.Balance
	for _, c := range contributions {
		merged[c.Account] += c.Amount
		total += c.Amount
	}
	if total == 0 {
		return command.Rejectf(apperrors.CodeAmountInvalid, "asset %s has no contributions to distribute", asset)
	}
	accounts := make([]primitive.AccountID, 0, len(merged))
	for account := range merged {
		accounts = append(accounts, account)
	}
	primitive.SortAccounts(accounts)

	shares := make([]Share, 0, len(accounts))
	var distributed primitive.Balance
	for _, account := range accounts {
		share, ok := primitive.MulDiv(va.Issued, merged[account], total)
		if !ok {
			return command.Rejectf(apperrors.CodeAmountInvalid, "share of %s overflows", account)
		}
		if share == 0 {
			continue
		}
		shares = append(shares, Share{Account: account, Amount: share})
		distributed += share
	}
	return command.Accept(event.MustNew(EventTypeDistributed, entityType, string(va.Account), DistributedPayload{
		Asset:     asset,
		Account:   va.Account,
		TokenID:   va.TokenID,
		Shares:    shares,
		Remainder: va.Issued - distributed,
	}))
}
