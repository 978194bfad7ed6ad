package proposal

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

const (
	EventTypeSubmitted         event.Type = "proposal.submitted"
	EventTypeCouncilVoted      event.Type = "proposal.council_voted"
	EventTypeCouncilClosed     event.Type = "proposal.council_closed"
	EventTypeReferendumStarted event.Type = "proposal.referendum_started"
	EventTypeVoted             event.Type = "proposal.voted"
	EventTypeApproved          event.Type = "proposal.approved"
	EventTypeRejected          event.Type = "proposal.rejected"
	EventTypeEnacted           event.Type = "proposal.enacted"

	entityType = "proposal"
)

// SubmittedPayload records a new proposal.
type SubmittedPayload struct {
	Hash       string                `json:"hash"`
	Origin     primitive.AccountID   `json:"origin"`
	Action     Action                `json:"action"`
	Track      Track                 `json:"track"`
	Block      primitive.BlockNumber `json:"block"`
	CouncilEnd primitive.BlockNumber `json:"council_end,omitempty"`
}

// CouncilVotedPayload records a council member's ballot.
type CouncilVotedPayload struct {
	Hash   string              `json:"hash"`
	Member primitive.AccountID `json:"member"`
	Aye    bool                `json:"aye"`
}

// CouncilClosedPayload records the council tally.
type CouncilClosedPayload struct {
	Hash     string `json:"hash"`
	Ayes     int    `json:"ayes"`
	Nays     int    `json:"nays"`
	Approved bool   `json:"approved"`
}

// ReferendumStartedPayload records a referendum opening.
type ReferendumStartedPayload struct {
	Hash   string                    `json:"hash"`
	Index  primitive.ReferendumIndex `json:"index"`
	Origin primitive.AccountID       `json:"origin"`
	Action Action                    `json:"action"`
	Track  Track                     `json:"track"`
	Start  primitive.BlockNumber     `json:"start"`
	End    primitive.BlockNumber     `json:"end"`
}

// VotedPayload records a weighted referendum ballot.
type VotedPayload struct {
	Index  primitive.ReferendumIndex `json:"index"`
	Voter  primitive.AccountID       `json:"voter"`
	Aye    bool                      `json:"aye"`
	Weight primitive.Balance         `json:"weight"`
}

// ApprovedPayload records a passed referendum and when it enacts.
type ApprovedPayload struct {
	Hash    string                    `json:"hash"`
	Index   primitive.ReferendumIndex `json:"index"`
	Action  Action                    `json:"action"`
	Ayes    primitive.Balance         `json:"ayes"`
	Nays    primitive.Balance         `json:"nays"`
	EnactAt primitive.BlockNumber     `json:"enact_at"`
}

// RejectedPayload records a proposal failing council or referendum.
type RejectedPayload struct {
	Hash          string                    `json:"hash"`
	Action        Action                    `json:"action"`
	Index         primitive.ReferendumIndex `json:"index,omitempty"`
	HasReferendum bool                      `json:"has_referendum"`
	Ayes          primitive.Balance         `json:"ayes"`
	Nays          primitive.Balance         `json:"nays"`
}

// EnactedPayload records an approved action taking effect.
type EnactedPayload struct {
	Hash   string                    `json:"hash"`
	Index  primitive.ReferendumIndex `json:"index"`
	Action Action                    `json:"action"`
}

// RegisterEvents registers proposal events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, def := range []event.Definition{
		{Type: EventTypeSubmitted, ValidatePayload: validateSubmitted},
		{Type: EventTypeCouncilVoted},
		{Type: EventTypeCouncilClosed},
		{Type: EventTypeReferendumStarted, ValidatePayload: validateStarted},
		{Type: EventTypeVoted, ValidatePayload: validateVoted},
		{Type: EventTypeApproved, Exposed: true},
		{Type: EventTypeRejected, Exposed: true},
		{Type: EventTypeEnacted},
	} {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateSubmitted(raw json.RawMessage) error {
	var payload SubmittedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Hash == "" {
		return errors.New("hash is required")
	}
	if !payload.Action.Kind.Valid() {
		return errors.New("unknown action kind")
	}
	if payload.Track != TrackCouncil && payload.Track != TrackOwners {
		return errors.New("unknown track")
	}
	return nil
}

func validateStarted(raw json.RawMessage) error {
	var payload ReferendumStartedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.End <= payload.Start {
		return errors.New("referendum must end after it starts")
	}
	return nil
}

func validateVoted(raw json.RawMessage) error {
	var payload VotedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Weight == 0 {
		return errors.New("weight must be positive")
	}
	return nil
}
