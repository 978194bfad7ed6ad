package proposal

import (
	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Submit opens a proposal for action on track.
func Submit(state State, cfg Config, origin primitive.AccountID, action Action, track Track, block primitive.BlockNumber) command.Decision {
	if !action.Kind.Valid() {
		return command.Rejectf(apperrors.CodeAmountInvalid, "unknown action kind %q", action.Kind)
	}
	hash := action.Hash()
	if state.IsOpen(hash) {
		return command.Rejectf(apperrors.CodeDuplicatePreimage, "proposal %s is already open", hash)
	}
	submitted := SubmittedPayload{
		Hash:   hash,
		Origin: origin,
		Action: action,
		Track:  track,
		Block:  block,
	}
	switch track {
	case TrackCouncil:
		submitted.CouncilEnd = block + cfg.CouncilWindow
		return command.Accept(event.MustNew(EventTypeSubmitted, entityType, hash, submitted))
	case TrackOwners:
		return command.Accept(
			event.MustNew(EventTypeSubmitted, entityType, hash, submitted),
			startReferendum(state, cfg, hash, origin, action, track, block),
		)
	default:
		return command.Rejectf(apperrors.CodeAmountInvalid, "unknown track %q", track)
	}
}

// CouncilVote records a council member's ballot on the proposal with hash.
func CouncilVote(state State, cfg Config, member primitive.AccountID, hash string, aye bool, block primitive.BlockNumber) command.Decision {
	if !cfg.IsCouncilMember(member) {
		return command.Rejectf(apperrors.CodeUnauthorized, "%s is not a council member", member)
	}
	p, ok := state.Council[hash]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no proposal %s in council", hash)
	}
	if block >= p.CouncilEnd {
		return command.Rejectf(apperrors.CodeVotingClosed, "council vote on %s closed at block %d", hash, p.CouncilEnd)
	}
	return command.Accept(event.MustNew(EventTypeCouncilVoted, entityType, hash, CouncilVotedPayload{
		Hash:   hash,
		Member: member,
		Aye:    aye,
	}))
}

// CloseCouncil tallies the council vote on hash. Before the window ends it
// only closes once every member has voted. A majority of the whole council
// opens a referendum; anything less rejects the proposal.
func CloseCouncil(state State, cfg Config, hash string, block primitive.BlockNumber) command.Decision {
	p, ok := state.Council[hash]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no proposal %s in council", hash)
	}
	if block < p.CouncilEnd && len(p.CouncilVotes) < len(cfg.Council) {
		return command.Rejectf(apperrors.CodeVotingStillOpen, "council vote on %s open until block %d", hash, p.CouncilEnd)
	}
	var ayes, nays int
	for _, aye := range p.CouncilVotes {
		if aye {
			ayes++
		} else {
			nays++
		}
	}
	approved := ayes > len(cfg.Council)/2
	closed := event.MustNew(EventTypeCouncilClosed, entityType, hash, CouncilClosedPayload{
		Hash:     hash,
		Ayes:     ayes,
		Nays:     nays,
		Approved: approved,
	})
	if !approved {
		return command.Accept(closed, event.MustNew(EventTypeRejected, entityType, hash, RejectedPayload{
			Hash:   hash,
			Action: p.Action,
			Ayes:   primitive.Balance(ayes),
			Nays:   primitive.Balance(nays),
		}))
	}
	start := block
	if p.CouncilEnd > start {
		start = p.CouncilEnd
	}
	return command.Accept(closed, startReferendum(state, cfg, hash, p.Origin, p.Action, p.Track, start+cfg.ReferendumDelay))
}

func startReferendum(state State, cfg Config, hash string, origin primitive.AccountID, action Action, track Track, start primitive.BlockNumber) event.Event {
	return event.MustNew(EventTypeReferendumStarted, entityType, hash, ReferendumStartedPayload{
		Hash:   hash,
		Index:  state.NextIndex,
		Origin: origin,
		Action: action,
		Track:  track,
		Start:  start,
		End:    start + cfg.VotingPeriod,
	})
}

// Vote records a weighted ballot on referendum index. A second ballot from
// the same voter replaces the first.
func Vote(state State, voter primitive.AccountID, index primitive.ReferendumIndex, aye bool, weight primitive.Balance, block primitive.BlockNumber) command.Decision {
	p, ok := state.Referenda[index]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no referendum %d", index)
	}
	if !p.Voting(block) {
		return command.Rejectf(apperrors.CodeVotingClosed, "referendum %d accepts votes in [%d, %d)", index, p.Start, p.End)
	}
	if weight == 0 {
		return command.Rejectf(apperrors.CodeNoVotingWeight, "%s has no voting weight", voter)
	}
	return command.Accept(event.MustNew(EventTypeVoted, entityType, p.Hash, VotedPayload{
		Index:  index,
		Voter:  voter,
		Aye:    aye,
		Weight: weight,
	}))
}

// CloseReferendum tallies referendum index once its voting period is over.
// Ayes must outweigh nays; an approved action is queued for enactment.
func CloseReferendum(state State, cfg Config, index primitive.ReferendumIndex, block primitive.BlockNumber) command.Decision {
	p, ok := state.Referenda[index]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no referendum %d", index)
	}
	if p.Outcome != OutcomePending {
		return command.Rejectf(apperrors.CodeVotingClosed, "referendum %d already %s", index, p.Outcome)
	}
	if block < p.End {
		return command.Rejectf(apperrors.CodeVotingStillOpen, "referendum %d open until block %d", index, p.End)
	}
	if p.Ayes > p.Nays {
		return command.Accept(event.MustNew(EventTypeApproved, entityType, p.Hash, ApprovedPayload{
			Hash:    p.Hash,
			Index:   index,
			Action:  p.Action,
			Ayes:    p.Ayes,
			Nays:    p.Nays,
			EnactAt: p.End + cfg.EnactmentDelay,
		}))
	}
	return command.Accept(event.MustNew(EventTypeRejected, entityType, p.Hash, RejectedPayload{
		Hash:          p.Hash,
		Action:        p.Action,
		Index:         index,
		HasReferendum: true,
		Ayes:          p.Ayes,
		Nays:          p.Nays,
	}))
}

// Enact marks approved referendum index as enacted. The caller runs the
// action itself.
func Enact(state State, index primitive.ReferendumIndex, block primitive.BlockNumber) command.Decision {
	p, ok := state.Referenda[index]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no referendum %d", index)
	}
	if p.Outcome != OutcomeApproved || p.Enacted {
		return command.Rejectf(apperrors.CodeInvalidStatusTransition, "referendum %d is %s, enacted=%t", index, p.Outcome, p.Enacted)
	}
	if block < p.EnactAt {
		return command.Rejectf(apperrors.CodeVotingStillOpen, "referendum %d enacts at block %d", index, p.EnactAt)
	}
	return command.Accept(event.MustNew(EventTypeEnacted, entityType, p.Hash, EnactedPayload{
		Hash:   p.Hash,
		Index:  index,
		Action: p.Action,
	}))
}

// Abandon closes approved referendum index whose action could not be
// enacted, recording it as rejected.
func Abandon(state State, index primitive.ReferendumIndex) command.Decision {
	p, ok := state.Referenda[index]
	if !ok {
		return command.Rejectf(apperrors.CodeNotFound, "no referendum %d", index)
	}
	if p.Outcome != OutcomeApproved || p.Enacted {
		return command.Rejectf(apperrors.CodeInvalidStatusTransition, "referendum %d is %s, enacted=%t", index, p.Outcome, p.Enacted)
	}
	return command.Accept(event.MustNew(EventTypeRejected, entityType, p.Hash, RejectedPayload{
		Hash:          p.Hash,
		Action:        p.Action,
		Index:         index,
		HasReferendum: true,
		Ayes:          p.Ayes,
		Nays:          p.Nays,
	}))
}
