// Package aggregate composes the component states into the engine state and
// folds journaled events into it.
package aggregate

import (
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/asset"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/governance"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/ownership"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/rent"
)

// State is the whole engine state.
type State struct {
	Fund       fund.State
	Ownership  ownership.State
	Proposals  proposal.State
	Assets     asset.State
	Governance governance.State
	Rent       rent.State
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	return State{
		Fund:       s.Fund.Clone(),
		Ownership:  s.Ownership.Clone(),
		Proposals:  s.Proposals.Clone(),
		Assets:     s.Assets.Clone(),
		Governance: s.Governance.Clone(),
		Rent:       s.Rent.Clone(),
	}
}
