package estatefakes

import (
	"fmt"
	"sync"

	"github.com/louisbranch/fairsquares/internal/services/estate/adapters/memory"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Recorder keeps the calls made to a fake and errors to inject.
type Recorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

// Calls returns a snapshot of recorded calls, oldest first.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// FailOn makes every call whose record equals call return err until cleared
// with a nil err.
func (r *Recorder) FailOn(call string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail == nil {
		r.fail = make(map[string]error)
	}
	if err == nil {
		delete(r.fail, call)
		return
	}
	r.fail[call] = err
}

func (r *Recorder) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.fail[call]
}

// Currency records mutating calls on top of an in-memory balance book.
type Currency struct {
	Recorder
	*memory.Currency
}

// NewCurrency creates a recording currency with existential deposit 1.
func NewCurrency() *Currency {
	return &Currency{Currency: memory.NewCurrency(1)}
}

// Transfer records "transfer from to amount" and delegates.
func (c *Currency) Transfer(from, to primitive.AccountID, amount primitive.Balance, existence port.Existence) error {
	if err := c.record("transfer %s %s %d", from, to, amount); err != nil {
		return err
	}
	return c.Currency.Transfer(from, to, amount, existence)
}

// Reserve records "reserve account amount" and delegates.
func (c *Currency) Reserve(account primitive.AccountID, amount primitive.Balance) error {
	if err := c.record("reserve %s %d", account, amount); err != nil {
		return err
	}
	return c.Currency.Reserve(account, amount)
}

// Unreserve records "unreserve account amount" and delegates.
func (c *Currency) Unreserve(account primitive.AccountID, amount primitive.Balance) error {
	if err := c.record("unreserve %s %d", account, amount); err != nil {
		return err
	}
	return c.Currency.Unreserve(account, amount)
}

// Roles records approvals on top of an in-memory role book.
type Roles struct {
	Recorder
	*memory.Roles
}

// NewRoles creates a recording role book.
func NewRoles() *Roles {
	return &Roles{Roles: memory.NewRoles()}
}

// Approve records "approve account role" and delegates.
func (r *Roles) Approve(account primitive.AccountID, role primitive.Role) error {
	if err := r.record("approve %s %s", account, role); err != nil {
		return err
	}
	return r.Roles.Approve(account, role)
}

// Assets records NFT transfers on top of an in-memory registry.
type Assets struct {
	Recorder
	*memory.Assets
}

// NewAssets creates a recording NFT registry.
func NewAssets() *Assets {
	return &Assets{Assets: memory.NewAssets()}
}

// Transfer records "transfer asset to" and delegates.
func (a *Assets) Transfer(asset primitive.AssetKey, to primitive.AccountID) error {
	if err := a.record("transfer %s %s", asset, to); err != nil {
		return err
	}
	return a.Assets.Transfer(asset, to)
}

// Identity records judgements on top of an in-memory registrar.
type Identity struct {
	Recorder
	*memory.Identity
}

// NewIdentity creates a recording registrar.
func NewIdentity() *Identity {
	return &Identity{Identity: memory.NewIdentity()}
}

// ProvideJudgement records "judge account judgement" and delegates.
func (i *Identity) ProvideJudgement(account primitive.AccountID, judgement primitive.Judgement) error {
	if err := i.record("judge %s %s", account, judgement); err != nil {
		return err
	}
	return i.Identity.ProvideJudgement(account, judgement)
}

// Collaborators bundles one fake of each collaborator.
type Collaborators struct {
	Roles    *Roles
	Assets   *Assets
	Identity *Identity
	Currency *Currency
}

// NewCollaborators creates a fresh set of recording collaborators.
func NewCollaborators() Collaborators {
	return Collaborators{
		Roles:    NewRoles(),
		Assets:   NewAssets(),
		Identity: NewIdentity(),
		Currency: NewCurrency(),
	}
}
