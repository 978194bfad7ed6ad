package proposal

import (
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// FoldHandledTypes returns the event types handled by the proposal fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeSubmitted,
		EventTypeCouncilVoted,
		EventTypeCouncilClosed,
		EventTypeReferendumStarted,
		EventTypeVoted,
		EventTypeApproved,
		EventTypeRejected,
		EventTypeEnacted,
	}
}

// Fold applies an event to proposal state.
func Fold(state State, evt event.Event) (State, error) {
	if state.Council == nil {
		state.Council = make(map[string]Proposal)
	}
	if state.Referenda == nil {
		state.Referenda = make(map[primitive.ReferendumIndex]Proposal)
	}
	if state.Active == nil {
		state.Active = make(map[string]primitive.ReferendumIndex)
	}

	switch evt.Type {
	case EventTypeSubmitted:
		var payload SubmittedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		// Owner proposals are carried by the referendum_started event that
		// follows.
		if payload.Track == TrackCouncil {
			state.Council[payload.Hash] = Proposal{
				Hash:         payload.Hash,
				Origin:       payload.Origin,
				Action:       payload.Action,
				Track:        payload.Track,
				Submitted:    payload.Block,
				CouncilEnd:   payload.CouncilEnd,
				CouncilVotes: make(map[primitive.AccountID]bool),
				Outcome:      OutcomePending,
			}
			state.Agenda.Schedule(CouncilTaskKey(payload.Hash), payload.CouncilEnd)
		}
	case EventTypeCouncilVoted:
		var payload CouncilVotedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		p, ok := state.Council[payload.Hash]
		if !ok {
			return state, fmt.Errorf("council vote on unknown proposal %s", payload.Hash)
		}
		if p.CouncilVotes == nil {
			p.CouncilVotes = make(map[primitive.AccountID]bool)
		}
		p.CouncilVotes[payload.Member] = payload.Aye
		state.Council[payload.Hash] = p
	case EventTypeCouncilClosed:
		var payload CouncilClosedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		state.Agenda.Remove(CouncilTaskKey(payload.Hash))
		if !payload.Approved {
			delete(state.Council, payload.Hash)
		}
	case EventTypeReferendumStarted:
		var payload ReferendumStartedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		p, ok := state.Council[payload.Hash]
		if !ok {
			p = Proposal{Hash: payload.Hash, Origin: payload.Origin, Action: payload.Action, Track: payload.Track, Submitted: evt.Block}
		}
		delete(state.Council, payload.Hash)
		p.Referendum = payload.Index
		p.HasReferendum = true
		p.Start = payload.Start
		p.End = payload.End
		p.Votes = make(map[primitive.AccountID]Ballot)
		p.Outcome = OutcomePending
		state.Referenda[payload.Index] = p
		state.Active[payload.Hash] = payload.Index
		if payload.Index >= state.NextIndex {
			state.NextIndex = payload.Index + 1
		}
		state.Agenda.Schedule(CloseTaskKey(payload.Index), payload.End)
	case EventTypeVoted:
		var payload VotedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		p, ok := state.Referenda[payload.Index]
		if !ok {
			return state, fmt.Errorf("vote on unknown referendum %d", payload.Index)
		}
		if p.Votes == nil {
			p.Votes = make(map[primitive.AccountID]Ballot)
		}
		if previous, ok := p.Votes[payload.Voter]; ok {
			if previous.Aye {
				p.Ayes -= previous.Weight
			} else {
				p.Nays -= previous.Weight
			}
		}
		p.Votes[payload.Voter] = Ballot{Aye: payload.Aye, Weight: payload.Weight}
		if payload.Aye {
			p.Ayes += payload.Weight
		} else {
			p.Nays += payload.Weight
		}
		state.Referenda[payload.Index] = p
	case EventTypeApproved:
		var payload ApprovedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		p := state.Referenda[payload.Index]
		p.Outcome = OutcomeApproved
		p.EnactAt = payload.EnactAt
		state.Referenda[payload.Index] = p
		state.Agenda.Remove(CloseTaskKey(payload.Index))
		state.Agenda.Schedule(EnactTaskKey(payload.Index), payload.EnactAt)
	case EventTypeRejected:
		var payload RejectedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		delete(state.Council, payload.Hash)
		if payload.HasReferendum {
			p := state.Referenda[payload.Index]
			p.Outcome = OutcomeRejected
			state.Referenda[payload.Index] = p
			delete(state.Active, payload.Hash)
			state.Agenda.Remove(CloseTaskKey(payload.Index))
			state.Agenda.Remove(EnactTaskKey(payload.Index))
		}
	case EventTypeEnacted:
		var payload EnactedPayload
		if err := evt.Decode(&payload); err != nil {
			return state, err
		}
		p := state.Referenda[payload.Index]
		p.Enacted = true
		state.Referenda[payload.Index] = p
		delete(state.Active, payload.Hash)
		state.Agenda.Remove(EnactTaskKey(payload.Index))
	default:
		return state, fmt.Errorf("proposal fold: unhandled event type %s", evt.Type)
	}
	return state, nil
}
