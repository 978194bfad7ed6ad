package engine

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/fund"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/schedule"
)

const (
	CommandContribute           command.Type = "fund.contribute"
	CommandWithdraw             command.Type = "fund.withdraw"
	CommandReserveContributions command.Type = "fund.reserve_contributions"
	CommandSubmitAsset          command.Type = "asset.submit"
	CommandValidateTransaction  command.Type = "asset.validate_transaction"
	CommandCouncilVote          command.Type = "proposal.council_vote"
	CommandCloseCouncil         command.Type = "proposal.close_council"
	CommandVote                 command.Type = "proposal.vote"
	CommandLaunchRepresentative command.Type = "governance.launch_representative_session"
	CommandLaunchDemotion       command.Type = "governance.launch_demotion_session"
	CommandRequestAsset         command.Type = "governance.request_asset"
	CommandLaunchTenant         command.Type = "governance.launch_tenant_session"
	CommandPayGuarantyDeposit   command.Type = "payment.pay_guaranty_deposit"
	CommandPayRent              command.Type = "payment.pay_rent"
	CommandRunTask              command.Type = "system.run_task"
)

// AmountPayload carries a currency amount.
type AmountPayload struct {
	Amount primitive.Balance `json:"amount"`
}

// ReserveContributionsPayload earmarks explicit contributions for an asset.
type ReserveContributionsPayload struct {
	Asset         primitive.AssetKey  `json:"asset"`
	Contributions []fund.Contribution `json:"contributions"`
}

// SubmitAssetPayload puts an asset up for acquisition.
type SubmitAssetPayload struct {
	Asset    primitive.AssetKey `json:"asset"`
	Price    primitive.Balance  `json:"price"`
	Metadata string             `json:"metadata,omitempty"`
}

// AssetPayload names an asset.
type AssetPayload struct {
	Asset primitive.AssetKey `json:"asset"`
}

// CouncilVotePayload is a council ballot.
type CouncilVotePayload struct {
	Hash string `json:"hash"`
	Aye  bool   `json:"aye"`
}

// HashPayload names a proposal.
type HashPayload struct {
	Hash string `json:"hash"`
}

// VotePayload is a referendum ballot.
type VotePayload struct {
	Index primitive.ReferendumIndex `json:"index"`
	Aye   bool                      `json:"aye"`
}

// RepresentativeSessionPayload proposes a representative for an asset.
type RepresentativeSessionPayload struct {
	Asset     primitive.AssetKey  `json:"asset"`
	Candidate primitive.AccountID `json:"candidate"`
}

// TenantSessionPayload proposes a tenant for an asset. Judgement, when set,
// is recorded with the identity registrar before the session opens.
type TenantSessionPayload struct {
	Asset     primitive.AssetKey   `json:"asset"`
	Tenant    primitive.AccountID  `json:"tenant"`
	Judgement *primitive.Judgement `json:"judgement,omitempty"`
}

// RunTaskPayload names a due agenda task.
type RunTaskPayload struct {
	Agenda string                `json:"agenda"`
	Key    string                `json:"key"`
	Due    primitive.BlockNumber `json:"due"`
}

// NewCommandRegistry registers every engine command.
func NewCommandRegistry() (*command.Registry, error) {
	registry := command.NewRegistry()
	defs := []command.Definition{
		{Type: CommandContribute, Origin: command.OriginAccount, ValidatePayload: validateAmount},
		{Type: CommandWithdraw, Origin: command.OriginAccount, ValidatePayload: validateAmount},
		{Type: CommandReserveContributions, Origin: command.OriginAccount},
		{Type: CommandSubmitAsset, Origin: command.OriginAccount},
		{Type: CommandValidateTransaction, Origin: command.OriginAccount},
		{Type: CommandCouncilVote, Origin: command.OriginAccount, ValidatePayload: validateHash},
		{Type: CommandCloseCouncil, Origin: command.OriginAccount, ValidatePayload: validateHash},
		{Type: CommandVote, Origin: command.OriginAccount},
		{Type: CommandLaunchRepresentative, Origin: command.OriginAccount, ValidatePayload: validateCandidate},
		{Type: CommandLaunchDemotion, Origin: command.OriginAccount},
		{Type: CommandRequestAsset, Origin: command.OriginAccount},
		{Type: CommandLaunchTenant, Origin: command.OriginAccount, ValidatePayload: validateTenant},
		{Type: CommandPayGuarantyDeposit, Origin: command.OriginAccount},
		{Type: CommandPayRent, Origin: command.OriginAccount},
		{Type: CommandRunTask, Origin: command.OriginSystem, ValidatePayload: validateTask},
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func validateAmount(raw json.RawMessage) error {
	var payload AmountPayload
	return json.Unmarshal(raw, &payload)
}

func validateHash(raw json.RawMessage) error {
	var payload HashPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Hash == "" {
		return errors.New("hash is required")
	}
	return nil
}

func validateCandidate(raw json.RawMessage) error {
	var payload RepresentativeSessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Candidate == "" {
		return errors.New("candidate is required")
	}
	return nil
}

func validateTenant(raw json.RawMessage) error {
	var payload TenantSessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Tenant == "" {
		return errors.New("tenant is required")
	}
	return nil
}

func validateTask(raw json.RawMessage) error {
	var payload RunTaskPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	switch payload.Agenda {
	case schedule.AgendaProposal, schedule.AgendaAsset, schedule.AgendaRent:
	default:
		return errors.New("unknown agenda")
	}
	if payload.Key == "" {
		return errors.New("task key is required")
	}
	return nil
}
