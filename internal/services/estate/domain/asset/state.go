package asset

import (
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/schedule"
)

// Status is a lifecycle state.
type Status string

const (
	StatusReviewing  Status = "reviewing"
	StatusVoting     Status = "voting"
	StatusOnboarded  Status = "onboarded"
	StatusFinalising Status = "finalising"
	StatusFinalised  Status = "finalised"
	StatusPurchased  Status = "purchased"
	StatusRejected   Status = "rejected"
)

var transitions = map[Status][]Status{
	StatusReviewing:  {StatusVoting, StatusRejected},
	StatusVoting:     {StatusOnboarded, StatusRejected},
	StatusOnboarded:  {StatusFinalising},
	StatusFinalising: {StatusFinalised},
	StatusFinalised:  {StatusPurchased},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Config holds the lifecycle timing and rent parameters.
type Config struct {
	OnboardedWindow primitive.BlockNumber
	FinalisedWindow primitive.BlockNumber
	// RentBasisPoints derives the per-period rent from the purchase price.
	RentBasisPoints uint64
}

// Asset is one property moving through acquisition.
type Asset struct {
	Key            primitive.AssetKey
	Status         Status
	Seller         primitive.AccountID
	Price          primitive.Balance
	Metadata       string
	Tenants        []primitive.AccountID
	Representative primitive.AccountID
	// Waiting holds tenants who requested the asset and await a session.
	Waiting      []primitive.AccountID
	ProposalHash string
	Rent         primitive.Balance
	Since        primitive.BlockNumber
}

// State holds every submitted asset.
type State struct {
	Assets map[primitive.AssetKey]Asset
	Agenda schedule.Agenda
}

// Get returns the asset at key.
func (s State) Get(key primitive.AssetKey) (Asset, bool) {
	a, ok := s.Assets[key]
	return a, ok
}

// Clone returns a deep copy.
func (s State) Clone() State {
	clone := State{
		Assets: make(map[primitive.AssetKey]Asset, len(s.Assets)),
		Agenda: s.Agenda.Clone(),
	}
	for k, v := range s.Assets {
		v.Tenants = append([]primitive.AccountID(nil), v.Tenants...)
		v.Waiting = append([]primitive.AccountID(nil), v.Waiting...)
		clone.Assets[k] = v
	}
	return clone
}

func without(accounts []primitive.AccountID, account primitive.AccountID) []primitive.AccountID {
	out := make([]primitive.AccountID, 0, len(accounts))
	for _, candidate := range accounts {
		if candidate != account {
			out = append(out, candidate)
		}
	}
	return out
}
