package governance

import "github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"

// SessionKind is what a governance session decides.
type SessionKind string

const (
	SessionRepresentative SessionKind = "representative"
	SessionDemotion       SessionKind = "demotion"
	SessionTenant         SessionKind = "tenant"
)

// Link ties a referendum to the asset and candidate it decides on.
type Link struct {
	Index     primitive.ReferendumIndex `json:"index"`
	Kind      SessionKind               `json:"kind"`
	Caller    primitive.AccountID       `json:"caller"`
	Candidate primitive.AccountID       `json:"candidate"`
	Account   primitive.AccountID       `json:"account"`
	Asset     primitive.AssetKey        `json:"asset"`
	Started   primitive.BlockNumber     `json:"started"`
	Approved  bool                      `json:"approved,omitempty"`
}

// Representative is an account managing assets on behalf of their owners.
type Representative struct {
	Account primitive.AccountID
	// AssetAccounts lists the virtual accounts the representative manages.
	// Re-election appends the same account again.
	AssetAccounts []primitive.AccountID
	Active        bool
	Since         primitive.BlockNumber
}

// Tenant is an account housed in an asset.
type Tenant struct {
	Account       primitive.AccountID
	Asset         primitive.AssetKey
	AssetAccount  primitive.AccountID
	ContractStart primitive.BlockNumber
	Rent          primitive.Balance
	// Active is set once the guaranty deposit is paid.
	Active bool
}

// State is the governance registry.
type State struct {
	// Links holds open sessions by referendum index.
	Links map[primitive.ReferendumIndex]Link
	// Archive holds concluded sessions. Indexes are never reused.
	Archive         map[primitive.ReferendumIndex]Link
	Representatives map[primitive.AccountID]Representative
	Tenants         map[primitive.AccountID]Tenant
}

// Link returns the open or archived session for index.
func (s State) Link(index primitive.ReferendumIndex) (Link, bool) {
	if link, ok := s.Links[index]; ok {
		return link, true
	}
	link, ok := s.Archive[index]
	return link, ok
}

// OpenSession returns an open session of kind on asset.
func (s State) OpenSession(asset primitive.AssetKey, kinds ...SessionKind) (Link, bool) {
	for _, link := range s.Links {
		if link.Asset != asset {
			continue
		}
		for _, kind := range kinds {
			if link.Kind == kind {
				return link, true
			}
		}
	}
	return Link{}, false
}

// Representative returns the registration of account.
func (s State) Representative(account primitive.AccountID) (Representative, bool) {
	r, ok := s.Representatives[account]
	return r, ok
}

// Tenant returns the registration of account.
func (s State) Tenant(account primitive.AccountID) (Tenant, bool) {
	t, ok := s.Tenants[account]
	return t, ok
}

// Clone returns a deep copy.
func (s State) Clone() State {
	clone := State{
		Links:           make(map[primitive.ReferendumIndex]Link, len(s.Links)),
		Archive:         make(map[primitive.ReferendumIndex]Link, len(s.Archive)),
		Representatives: make(map[primitive.AccountID]Representative, len(s.Representatives)),
		Tenants:         make(map[primitive.AccountID]Tenant, len(s.Tenants)),
	}
	for k, v := range s.Links {
		clone.Links[k] = v
	}
	for k, v := range s.Archive {
		clone.Archive[k] = v
	}
	for k, v := range s.Representatives {
		v.AssetAccounts = append([]primitive.AccountID(nil), v.AssetAccounts...)
		clone.Representatives[k] = v
	}
	for k, v := range s.Tenants {
		clone.Tenants[k] = v
	}
	return clone
}
