package rent

import (
	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// RequestGuaranty asks tenant for a deposit of rent times the guaranty
// multiplier, payable to the asset's virtual account.
func RequestGuaranty(state State, cfg Config, tenant primitive.AccountID, asset primitive.AssetKey, account primitive.AccountID, rent primitive.Balance, block primitive.BlockNumber) command.Decision {
	if _, exists := state.Guaranty[tenant]; exists {
		return command.Rejectf(apperrors.CodePaymentAlreadyInProcess, "guaranty for %s already requested", tenant)
	}
	amount, ok := primitive.MulDiv(rent, primitive.Balance(cfg.GuarantyMultiplier), 1)
	if !ok || amount == 0 {
		return command.Rejectf(apperrors.CodeAmountInvalid, "guaranty of %d x %d is not payable", rent, cfg.GuarantyMultiplier)
	}
	return request(KindGuaranty, tenant, account, asset, amount, block)
}

// PayGuaranty settles tenant's deposit for asset and starts the rent
// schedule. The first check falls one rent period after contractStart, or on
// the next block when that has already passed.
func PayGuaranty(state State, cfg Config, tenant primitive.AccountID, asset primitive.AssetKey, contractStart, block primitive.BlockNumber) command.Decision {
	o, ok := state.Guaranty[tenant]
	if !ok || o.Asset != asset {
		return command.Rejectf(apperrors.CodeNotFound, "no guaranty requested from %s for asset %s", tenant, asset)
	}
	if o.State != PaymentRequested {
		return command.Rejectf(apperrors.CodePaymentAlreadyInProcess, "guaranty from %s is %s", tenant, o.State)
	}
	first := contractStart + cfg.RentCheck
	if first <= block {
		first = block + 1
	}
	return pay(o, block, first)
}

// RequestRent asks tenant for the next period's rent.
func RequestRent(state State, tenant primitive.AccountID, asset primitive.AssetKey, account primitive.AccountID, amount primitive.Balance, block primitive.BlockNumber) command.Decision {
	if o, ok := state.Rent[tenant]; ok && o.State == PaymentRequested {
		return command.Rejectf(apperrors.CodePaymentAlreadyInProcess, "rent from %s is still requested", tenant)
	}
	if amount == 0 {
		return command.Rejectf(apperrors.CodeAmountInvalid, "rent must be positive")
	}
	return request(KindRent, tenant, account, asset, amount, block)
}

// PayRent settles tenant's requested rent into the virtual account.
func PayRent(state State, tenant primitive.AccountID, block primitive.BlockNumber) command.Decision {
	o, ok := state.Rent[tenant]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no rent requested from %s", tenant)
	}
	if o.State != PaymentRequested {
		return command.Rejectf(apperrors.CodePaymentAlreadyInProcess, "rent from %s is %s", tenant, o.State)
	}
	return pay(o, block, 0)
}

// CheckRent splits the rent collected for asset among holders in proportion
// to their token balance out of supply, then asks for the next rent unless
// the current one is still outstanding. Units lost to rounding stay with the
// virtual account.
func CheckRent(state State, cfg Config, tenant primitive.AccountID, asset primitive.AssetKey, account primitive.AccountID, rent primitive.Balance, holders []Holding, supply primitive.Balance, block primitive.BlockNumber) command.Decision {
	collected := state.Pending[asset]
	payload := RentCheckedPayload{
		Tenant:    tenant,
		Asset:     asset,
		Account:   account,
		Collected: collected,
		NextCheck: block + cfg.RentCheck,
	}
	var effects []effect.Effect
	if collected > 0 {
		if supply == 0 {
			return command.Rejectf(apperrors.CodeNotAnAsset, "asset %s has no token supply", asset)
		}
		var paid primitive.Balance
		for _, h := range holders {
			share, ok := primitive.MulDiv(collected, h.Balance, supply)
			if !ok {
				return command.Rejectf(apperrors.CodeAmountInvalid, "share of %s overflows", h.Account)
			}
			if share == 0 {
				continue
			}
			payload.Shares = append(payload.Shares, Share{Account: h.Account, Amount: share})
			effects = append(effects, effect.Transfer(account, h.Account, share, port.AllowDeath))
			paid += share
		}
		payload.Remainder = collected - paid
	}

	events := []event.Event{event.MustNew(EventTypeRentChecked, entityType, string(tenant), payload)}
	if o, ok := state.Rent[tenant]; !ok || o.State != PaymentRequested {
		if rent > 0 {
			events = append(events, request(KindRent, tenant, account, asset, rent, block).Events...)
		}
	}
	return command.Accept(events...).WithEffects(effects...)
}

func request(kind Kind, tenant, account primitive.AccountID, asset primitive.AssetKey, amount primitive.Balance, block primitive.BlockNumber) command.Decision {
	return command.Accept(event.MustNew(EventTypePaymentRequested, entityType, string(tenant), PaymentPayload{
		Kind:   kind,
		Payer:  tenant,
		Payee:  account,
		Asset:  asset,
		Amount: amount,
		Block:  block,
	}))
}

func pay(o Obligation, block, nextCheck primitive.BlockNumber) command.Decision {
	evt := event.MustNew(EventTypePaymentPaid, entityType, string(o.Payer), PaymentPayload{
		Kind:      o.Kind,
		Payer:     o.Payer,
		Payee:     o.Payee,
		Asset:     o.Asset,
		Amount:    o.Amount,
		Block:     block,
		NextCheck: nextCheck,
	})
	return command.Accept(evt).WithEffects(effect.Transfer(o.Payer, o.Payee, o.Amount, port.KeepAlive))
}
