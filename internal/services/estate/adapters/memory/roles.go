package memory

import (
	"sync"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

type roleState int

const (
	rolePending roleState = iota + 1
	roleApproved
)

// Roles keeps role requests and approvals per account.
type Roles struct {
	mu    sync.Mutex
	roles map[primitive.AccountID]map[primitive.Role]roleState
}

// NewRoles creates an empty role book.
func NewRoles() *Roles {
	return &Roles{roles: make(map[primitive.AccountID]map[primitive.Role]roleState)}
}

// HasRole reports whether account holds an approved role.
func (r *Roles) HasRole(account primitive.AccountID, role primitive.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[account][role] == roleApproved
}

// IsPending reports whether account is waiting for role approval.
func (r *Roles) IsPending(account primitive.AccountID, role primitive.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[account][role] == rolePending
}

// RegisterPending puts account on the waiting list for role.
func (r *Roles) RegisterPending(account primitive.AccountID, role primitive.Role) error {
	if !role.Valid() {
		return apperrors.New(apperrors.CodeUnauthorized, "unknown role")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[account][role]; ok {
		return apperrors.New(apperrors.CodeAlreadyWaiting, "role already requested")
	}
	r.set(account, role, rolePending)
	return nil
}

// Approve grants a pending role. Approving a held role is a no-op.
func (r *Roles) Approve(account primitive.AccountID, role primitive.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.roles[account][role] {
	case roleApproved:
		return nil
	case rolePending:
		r.set(account, role, roleApproved)
		return nil
	}
	return apperrors.New(apperrors.CodeNotInWaitingList, "role was not requested")
}

// Grant approves role for account without a prior request.
func (r *Roles) Grant(account primitive.AccountID, role primitive.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(account, role, roleApproved)
}

func (r *Roles) set(account primitive.AccountID, role primitive.Role, state roleState) {
	if r.roles[account] == nil {
		r.roles[account] = make(map[primitive.Role]roleState)
	}
	r.roles[account][role] = state
}
