package fund

import (
	"strconv"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Contribute records a contribution and moves the funds into the pool.
func Contribute(state State, cfg Config, account primitive.AccountID, amount primitive.Balance) command.Decision {
	if amount < cfg.MinContribution || amount == 0 {
		return command.Reject(command.Rejection{
			Code:     apperrors.CodeContributionTooSmall,
			Message:  "contribution is below the minimum",
			Metadata: map[string]string{"Minimum": strconv.FormatUint(uint64(cfg.MinContribution), 10)},
		})
	}
	if state.Balances[account]+amount < state.Balances[account] {
		return command.Rejectf(apperrors.CodeAmountInvalid, "contribution overflows balance")
	}
	evt := event.MustNew(EventTypeContributed, entityType, string(account), ContributedPayload{
		Account: account,
		Amount:  amount,
	})
	return command.Accept(evt).WithEffects(effect.Transfer(account, cfg.Account, amount, port.AllowDeath))
}

// Withdraw returns part of a contributor's unreserved balance.
func Withdraw(state State, cfg Config, account primitive.AccountID, amount primitive.Balance) command.Decision {
	if amount == 0 {
		return command.Rejectf(apperrors.CodeAmountInvalid, "withdrawal must be positive")
	}
	if state.Available(account) < amount {
		return command.Rejectf(apperrors.CodeInsufficientFunds, "withdrawal exceeds available balance")
	}
	evt := event.MustNew(EventTypeWithdrawn, entityType, string(account), WithdrawnPayload{
		Account: account,
		Amount:  amount,
	})
	return command.Accept(evt).WithEffects(effect.Transfer(cfg.Account, account, amount, port.AllowDeath))
}

// ReserveForAcquisition earmarks amount of pooled funds for asset. Each
// contributor gives floor(amount * available / total available); leftover
// units are taken one at a time from contributors in ascending account
// order.
func ReserveForAcquisition(state State, cfg Config, asset primitive.AssetKey, amount primitive.Balance, block primitive.BlockNumber) command.Decision {
	if rejected, ok := checkReservable(state, asset, amount); !ok {
		return rejected
	}
	total := state.TotalAvailable()
	if total < amount {
		return command.Rejectf(apperrors.CodeInsufficientFunds, "pool holds %d, acquisition needs %d", total, amount)
	}

	accounts := state.Contributors()
	shares := make(map[primitive.AccountID]primitive.Balance, len(accounts))
	var drawn primitive.Balance
	for _, account := range accounts {
		share, _ := primitive.MulDiv(amount, state.Available(account), total)
		shares[account] = share
		drawn += share
	}
	for remainder := amount - drawn; remainder > 0; {
		progressed := false
		for _, account := range accounts {
			if remainder == 0 {
				break
			}
			if shares[account] < state.Available(account) {
				shares[account]++
				remainder--
				progressed = true
			}
		}
		if !progressed {
			return command.Rejectf(apperrors.CodeInsufficientFunds, "pool cannot cover the acquisition")
		}
	}

	contributions := make([]Contribution, 0, len(accounts))
	for _, account := range accounts {
		if shares[account] > 0 {
			contributions = append(contributions, Contribution{Account: account, Amount: shares[account]})
		}
	}
	return reserve(cfg, asset, amount, contributions, block)
}

// ReserveContributions earmarks explicit per-contributor amounts for asset.
func ReserveContributions(state State, cfg Config, asset primitive.AssetKey, contributions []Contribution, block primitive.BlockNumber) command.Decision {
	var amount primitive.Balance
	merged := make(map[primitive.AccountID]primitive.Balance, len(contributions))
	for _, c := range contributions {
		if c.Amount == 0 {
			return command.Rejectf(apperrors.CodeAmountInvalid, "contribution of %s must be positive", c.Account)
		}
		merged[c.Account] += c.Amount
		amount += c.Amount
	}
	if rejected, ok := checkReservable(state, asset, amount); !ok {
		return rejected
	}

	accounts := make([]primitive.AccountID, 0, len(merged))
	for account := range merged {
		accounts = append(accounts, account)
	}
	primitive.SortAccounts(accounts)
	normalized := make([]Contribution, 0, len(accounts))
	for _, account := range accounts {
		if state.Available(account) < merged[account] {
			return command.Rejectf(apperrors.CodeInsufficientFunds, "%s has %d available, %d requested", account, state.Available(account), merged[account])
		}
		normalized = append(normalized, Contribution{Account: account, Amount: merged[account]})
	}
	return reserve(cfg, asset, amount, normalized, block)
}

// Consume spends the reservation for asset, paying payee.
func Consume(state State, cfg Config, asset primitive.AssetKey, payee primitive.AccountID) command.Decision {
	reservation, ok := state.Reservations[asset]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no reservation for asset %s", asset)
	}
	if reservation.Consumed {
		return command.Rejectf(apperrors.CodePaymentAlreadyInProcess, "reservation for asset %s already consumed", asset)
	}
	evt := event.MustNew(EventTypeConsumed, entityType, asset.String(), ConsumedPayload{
		Asset:  asset,
		Payee:  payee,
		Amount: reservation.Amount,
	})
	return command.Accept(evt).WithEffects(
		effect.Unreserve(cfg.Account, reservation.Amount),
		effect.Transfer(cfg.Account, payee, reservation.Amount, port.AllowDeath),
	)
}

func checkReservable(state State, asset primitive.AssetKey, amount primitive.Balance) (command.Decision, bool) {
	if amount == 0 {
		return command.Rejectf(apperrors.CodeAmountInvalid, "reservation must be positive"), false
	}
	if _, exists := state.Reservations[asset]; exists {
		return command.Rejectf(apperrors.CodeAssetAlreadyOwned, "asset %s already has a reservation", asset), false
	}
	return command.Decision{}, true
}

func reserve(cfg Config, asset primitive.AssetKey, amount primitive.Balance, contributions []Contribution, block primitive.BlockNumber) command.Decision {
	evt := event.MustNew(EventTypeReserved, entityType, asset.String(), ReservedPayload{
		Asset:         asset,
		Amount:        amount,
		Contributions: contributions,
		Block:         block,
	})
	return command.Accept(evt).WithEffects(effect.Reserve(cfg.Account, amount))
}
