package engine

import (
	"errors"
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/asset"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/rent"
)

// Params are the engine's tunable constants.
type Params struct {
	// FundAccount is the custody account of the housing fund.
	FundAccount     primitive.AccountID
	MinContribution primitive.Balance
	TokenSupply     primitive.Balance

	Council         []primitive.AccountID
	CouncilWindow   primitive.BlockNumber
	ReferendumDelay primitive.BlockNumber
	VotingPeriod    primitive.BlockNumber
	EnactmentDelay  primitive.BlockNumber

	OnboardedWindow primitive.BlockNumber
	FinalisedWindow primitive.BlockNumber
	RentCheck       primitive.BlockNumber

	RentBasisPoints    uint64
	GuarantyMultiplier uint64
}

// DefaultParams returns the default timing and economics. The council is
// left empty and must be configured.
func DefaultParams() Params {
	return Params{
		FundAccount:        "fund:treasury",
		MinContribution:    100,
		TokenSupply:        1000,
		CouncilWindow:      10,
		ReferendumDelay:    1,
		VotingPeriod:       20,
		EnactmentDelay:     5,
		OnboardedWindow:    5,
		FinalisedWindow:    5,
		RentCheck:          30,
		RentBasisPoints:    100,
		GuarantyMultiplier: 3,
	}
}

// Validate reports every invalid parameter.
func (p Params) Validate() error {
	var errs []error
	if p.FundAccount == "" {
		errs = append(errs, errors.New("fund account is required"))
	}
	if p.TokenSupply == 0 {
		errs = append(errs, errors.New("token supply must be positive"))
	}
	if len(p.Council) == 0 {
		errs = append(errs, errors.New("council must have at least one member"))
	}
	seen := make(map[primitive.AccountID]bool, len(p.Council))
	for _, member := range p.Council {
		if member == "" || seen[member] {
			errs = append(errs, fmt.Errorf("council member %q is blank or repeated", member))
		}
		seen[member] = true
	}
	for name, window := range map[string]primitive.BlockNumber{
		"council window":   p.CouncilWindow,
		"voting period":    p.VotingPeriod,
		"onboarded window": p.OnboardedWindow,
		"finalised window": p.FinalisedWindow,
		"rent check":       p.RentCheck,
	} {
		if window == 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	// Owners-track referenda open without a council window; a voting period
	// at least as long keeps their enactment past open + council window.
	if p.VotingPeriod < p.CouncilWindow {
		errs = append(errs, fmt.Errorf("voting period %d must not be shorter than council window %d", p.VotingPeriod, p.CouncilWindow))
	}
	if p.RentBasisPoints == 0 || p.RentBasisPoints > 10_000 {
		errs = append(errs, errors.New("rent basis points must be in (0, 10000]"))
	}
	if p.GuarantyMultiplier == 0 {
		errs = append(errs, errors.New("guaranty multiplier must be positive"))
	}
	return errors.Join(errs...)
}

func (p Params) fundConfig() fund.Config {
	return fund.Config{Account: p.FundAccount, MinContribution: p.MinContribution}
}

func (p Params) proposalConfig() proposal.Config {
	return proposal.Config{
		Council:         p.Council,
		CouncilWindow:   p.CouncilWindow,
		ReferendumDelay: p.ReferendumDelay,
		VotingPeriod:    p.VotingPeriod,
		EnactmentDelay:  p.EnactmentDelay,
	}
}

func (p Params) assetConfig() asset.Config {
	return asset.Config{
		OnboardedWindow: p.OnboardedWindow,
		FinalisedWindow: p.FinalisedWindow,
		RentBasisPoints: p.RentBasisPoints,
	}
}

func (p Params) rentConfig() rent.Config {
	return rent.Config{RentCheck: p.RentCheck, GuarantyMultiplier: p.GuarantyMultiplier}
}
