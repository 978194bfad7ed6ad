package fund

import "github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"

// Config holds the fund ledger parameters.
type Config struct {
	// Account is the pooled custody account holding contributions.
	Account primitive.AccountID
	// MinContribution is the smallest accepted contribution.
	MinContribution primitive.Balance
}

// Contribution is the part of one contributor's balance drawn into a
// reservation.
type Contribution struct {
	Account primitive.AccountID `json:"account"`
	Amount  primitive.Balance   `json:"amount"`
}

// Reservation earmarks pooled funds for one asset acquisition.
type Reservation struct {
	Asset         primitive.AssetKey
	Amount        primitive.Balance
	Contributions []Contribution
	Block         primitive.BlockNumber
	Consumed      bool
}

// State is the fund ledger.
type State struct {
	// Balances holds each contributor's recorded balance, reserved part included.
	Balances map[primitive.AccountID]primitive.Balance
	// Reserved holds the part of each balance earmarked by open reservations.
	Reserved     map[primitive.AccountID]primitive.Balance
	Reservations map[primitive.AssetKey]Reservation
}

// BalanceOf returns the recorded balance of account.
func (s State) BalanceOf(account primitive.AccountID) primitive.Balance {
	return s.Balances[account]
}

// Available returns the unreserved balance of account.
func (s State) Available(account primitive.AccountID) primitive.Balance {
	return s.Balances[account] - s.Reserved[account]
}

// TotalAvailable returns the unreserved balance of the whole pool.
func (s State) TotalAvailable() primitive.Balance {
	var total primitive.Balance
	for account := range s.Balances {
		total += s.Available(account)
	}
	return total
}

// Reservation returns the reservation for asset.
func (s State) Reservation(asset primitive.AssetKey) (Reservation, bool) {
	r, ok := s.Reservations[asset]
	return r, ok
}

// Contributors returns every account with a recorded balance in ascending order.
func (s State) Contributors() []primitive.AccountID {
	accounts := make([]primitive.AccountID, 0, len(s.Balances))
	for account := range s.Balances {
		accounts = append(accounts, account)
	}
	primitive.SortAccounts(accounts)
	return accounts
}

// Clone returns a deep copy.
func (s State) Clone() State {
	clone := State{
		Balances:     make(map[primitive.AccountID]primitive.Balance, len(s.Balances)),
		Reserved:     make(map[primitive.AccountID]primitive.Balance, len(s.Reserved)),
		Reservations: make(map[primitive.AssetKey]Reservation, len(s.Reservations)),
	}
	for k, v := range s.Balances {
		clone.Balances[k] = v
	}
	for k, v := range s.Reserved {
		clone.Reserved[k] = v
	}
	for k, v := range s.Reservations {
		v.Contributions = append([]Contribution(nil), v.Contributions...)
		clone.Reservations[k] = v
	}
	return clone
}
