package proposal

import (
	"strconv"
	"strings"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/schedule"
)

// Config holds the voting parameters.
type Config struct {
	Council         []primitive.AccountID
	CouncilWindow   primitive.BlockNumber
	ReferendumDelay primitive.BlockNumber
	VotingPeriod    primitive.BlockNumber
	EnactmentDelay  primitive.BlockNumber
}

// IsCouncilMember reports whether account sits on the council.
func (c Config) IsCouncilMember(account primitive.AccountID) bool {
	return primitive.ContainsAccount(c.Council, account)
}

// Ballot is one weighted referendum ballot.
type Ballot struct {
	Aye    bool              `json:"aye"`
	Weight primitive.Balance `json:"weight"`
}

// Proposal is an action moving through council screening and referendum.
type Proposal struct {
	Hash      string
	Origin    primitive.AccountID
	Action    Action
	Track     Track
	Submitted primitive.BlockNumber

	CouncilEnd   primitive.BlockNumber
	CouncilVotes map[primitive.AccountID]bool

	Referendum    primitive.ReferendumIndex
	HasReferendum bool
	Start         primitive.BlockNumber
	End           primitive.BlockNumber
	Votes         map[primitive.AccountID]Ballot
	Ayes          primitive.Balance
	Nays          primitive.Balance

	Outcome Outcome
	EnactAt primitive.BlockNumber
	Enacted bool
}

// Voting reports whether the referendum accepts ballots at block.
func (p Proposal) Voting(block primitive.BlockNumber) bool {
	return p.HasReferendum && p.Outcome == OutcomePending && block >= p.Start && block < p.End
}

func (p Proposal) clone() Proposal {
	if p.CouncilVotes != nil {
		votes := make(map[primitive.AccountID]bool, len(p.CouncilVotes))
		for k, v := range p.CouncilVotes {
			votes[k] = v
		}
		p.CouncilVotes = votes
	}
	if p.Votes != nil {
		votes := make(map[primitive.AccountID]Ballot, len(p.Votes))
		for k, v := range p.Votes {
			votes[k] = v
		}
		p.Votes = votes
	}
	return p
}

// State is the voting bridge.
type State struct {
	// Council holds proposals in council screening by hash.
	Council map[string]Proposal
	// Referenda holds every referendum ever opened.
	Referenda map[primitive.ReferendumIndex]Proposal
	// Active maps the hash of an open referendum to its index. A referendum
	// stays active until it is rejected or enacted.
	Active    map[string]primitive.ReferendumIndex
	NextIndex primitive.ReferendumIndex
	Agenda    schedule.Agenda
}

// IsOpen reports whether a proposal with hash is still open.
func (s State) IsOpen(hash string) bool {
	if _, ok := s.Council[hash]; ok {
		return true
	}
	_, ok := s.Active[hash]
	return ok
}

// Lookup returns a copy of the open proposal with hash.
func (s State) Lookup(hash string) (Proposal, bool) {
	if p, ok := s.Council[hash]; ok {
		return p.clone(), true
	}
	if index, ok := s.Active[hash]; ok {
		p, ok := s.Referenda[index]
		return p.clone(), ok
	}
	return Proposal{}, false
}

// Referendum returns a copy of the referendum at index.
func (s State) Referendum(index primitive.ReferendumIndex) (Proposal, bool) {
	p, ok := s.Referenda[index]
	return p.clone(), ok
}

// Outcome returns the outcome of the referendum at index.
func (s State) Outcome(index primitive.ReferendumIndex) (Outcome, bool) {
	p, ok := s.Referenda[index]
	if !ok {
		return "", false
	}
	return p.Outcome, true
}

// Clone returns a deep copy.
func (s State) Clone() State {
	clone := State{
		Council:   make(map[string]Proposal, len(s.Council)),
		Referenda: make(map[primitive.ReferendumIndex]Proposal, len(s.Referenda)),
		Active:    make(map[string]primitive.ReferendumIndex, len(s.Active)),
		NextIndex: s.NextIndex,
		Agenda:    s.Agenda.Clone(),
	}
	for k, v := range s.Council {
		clone.Council[k] = v.clone()
	}
	for k, v := range s.Referenda {
		clone.Referenda[k] = v.clone()
	}
	for k, v := range s.Active {
		clone.Active[k] = v
	}
	return clone
}

// TaskKind names what a proposal agenda task does when due.
type TaskKind string

const (
	TaskCloseCouncil    TaskKind = "council"
	TaskCloseReferendum TaskKind = "close"
	TaskEnact           TaskKind = "enact"
)

// CouncilTaskKey is the agenda key closing the council vote on hash.
func CouncilTaskKey(hash string) string { return string(TaskCloseCouncil) + ":" + hash }

// CloseTaskKey is the agenda key closing referendum index.
func CloseTaskKey(index primitive.ReferendumIndex) string {
	return string(TaskCloseReferendum) + ":" + strconv.FormatUint(uint64(index), 10)
}

// EnactTaskKey is the agenda key enacting referendum index.
func EnactTaskKey(index primitive.ReferendumIndex) string {
	return string(TaskEnact) + ":" + strconv.FormatUint(uint64(index), 10)
}

// ParseTaskKey splits an agenda key into its kind and target. The target is
// a proposal hash for council tasks and a referendum index otherwise.
func ParseTaskKey(key string) (TaskKind, string, bool) {
	kind, target, ok := strings.Cut(key, ":")
	if !ok || target == "" {
		return "", "", false
	}
	switch TaskKind(kind) {
	case TaskCloseCouncil, TaskCloseReferendum, TaskEnact:
		return TaskKind(kind), target, true
	}
	return "", "", false
}

// ParseIndex parses a referendum index task target.
func ParseIndex(target string) (primitive.ReferendumIndex, bool) {
	n, err := strconv.ParseUint(target, 10, 32)
	if err != nil {
		return 0, false
	}
	return primitive.ReferendumIndex(n), true
}
