package rent

import (
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/schedule"
)

// Kind distinguishes obligations.
type Kind string

const (
	KindGuaranty Kind = "guaranty"
	KindRent     Kind = "rent"
)

// PaymentState tracks an obligation.
type PaymentState string

const (
	PaymentRequested PaymentState = "requested"
	PaymentPaid      PaymentState = "paid"
)

// Config holds the rent schedule parameters.
type Config struct {
	RentCheck          primitive.BlockNumber
	GuarantyMultiplier uint64
}

// Obligation is a payment a tenant owes to an asset's virtual account.
type Obligation struct {
	Kind      Kind
	Payer     primitive.AccountID
	Payee     primitive.AccountID
	Asset     primitive.AssetKey
	Amount    primitive.Balance
	State     PaymentState
	Requested primitive.BlockNumber
	Paid      primitive.BlockNumber
}

// Holding is an owner's token balance used to split rent.
type Holding struct {
	Account primitive.AccountID
	Balance primitive.Balance
}

// State holds the obligations of every tenant.
type State struct {
	Guaranty map[primitive.AccountID]Obligation
	Rent     map[primitive.AccountID]Obligation
	// Pending holds rent paid into an asset and not yet split.
	Pending map[primitive.AssetKey]primitive.Balance
	// Agenda holds one rent check per active tenant, keyed by tenant.
	Agenda schedule.Agenda
}

// Obligation returns the current obligation of kind for tenant.
func (s State) Obligation(kind Kind, tenant primitive.AccountID) (Obligation, bool) {
	var o Obligation
	var ok bool
	switch kind {
	case KindGuaranty:
		o, ok = s.Guaranty[tenant]
	case KindRent:
		o, ok = s.Rent[tenant]
	}
	return o, ok
}

// PendingRent returns the rent collected for asset since its last split.
func (s State) PendingRent(asset primitive.AssetKey) primitive.Balance {
	return s.Pending[asset]
}

// Clone returns a deep copy.
func (s State) Clone() State {
	clone := State{
		Guaranty: make(map[primitive.AccountID]Obligation, len(s.Guaranty)),
		Rent:     make(map[primitive.AccountID]Obligation, len(s.Rent)),
		Pending:  make(map[primitive.AssetKey]primitive.Balance, len(s.Pending)),
		Agenda:   s.Agenda.Clone(),
	}
	for k, v := range s.Guaranty {
		clone.Guaranty[k] = v
	}
	for k, v := range s.Rent {
		clone.Rent[k] = v
	}
	for k, v := range s.Pending {
		clone.Pending[k] = v
	}
	return clone
}
