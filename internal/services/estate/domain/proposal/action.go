package proposal

import (
	"encoding/hex"
	"encoding/json"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"golang.org/x/crypto/blake2b"
)

// ActionKind tags the call carried by a proposal.
type ActionKind string

const (
	ActionAcquireAsset          ActionKind = "acquire_asset"
	ActionApproveRepresentative ActionKind = "approve_representative"
	ActionDemoteRepresentative  ActionKind = "demote_representative"
	ActionApproveTenant         ActionKind = "approve_tenant"
)

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionAcquireAsset, ActionApproveRepresentative, ActionDemoteRepresentative, ActionApproveTenant:
		return true
	}
	return false
}

// Action is the call enacted when a proposal passes.
type Action struct {
	Kind      ActionKind          `json:"kind"`
	Asset     primitive.AssetKey  `json:"asset"`
	Candidate primitive.AccountID `json:"candidate,omitempty"`
}

// Hash returns the hex blake2b-256 digest of the action's encoding.
func (a Action) Hash() string {
	encoded, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	sum := blake2b.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// Track selects who screens and who votes on a proposal.
type Track string

const (
	// TrackCouncil proposals pass a council vote, then an investor referendum
	// weighted by fund balance.
	TrackCouncil Track = "council"
	// TrackOwners proposals go straight to a referendum among the asset's
	// owners weighted by token balance.
	TrackOwners Track = "owners"
)

// Outcome is the result of a referendum.
type Outcome string

const (
	OutcomePending  Outcome = "pending"
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)
