package memory

import (
	"sync"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Currency is a fungible balance book with free and reserved balances and an
// existential deposit.
type Currency struct {
	mu                 sync.Mutex
	existentialDeposit primitive.Balance
	free               map[primitive.AccountID]primitive.Balance
	reserved           map[primitive.AccountID]primitive.Balance
}

// NewCurrency creates an empty balance book. Accounts whose total balance
// falls below existentialDeposit are reaped.
func NewCurrency(existentialDeposit primitive.Balance) *Currency {
	return &Currency{
		existentialDeposit: existentialDeposit,
		free:               make(map[primitive.AccountID]primitive.Balance),
		reserved:           make(map[primitive.AccountID]primitive.Balance),
	}
}

// FreeBalance returns the spendable balance of account.
func (c *Currency) FreeBalance(account primitive.AccountID) primitive.Balance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.free[account]
}

// ReservedBalance returns the reserved balance of account.
func (c *Currency) ReservedBalance(account primitive.AccountID) primitive.Balance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reserved[account]
}

// Transfer moves amount of free balance from one account to another.
func (c *Currency) Transfer(from, to primitive.AccountID, amount primitive.Balance, existence port.Existence) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if from == to || amount == 0 {
		return nil
	}
	balance := c.free[from]
	if balance < amount {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds, "transfer exceeds free balance", map[string]string{
			"Account": string(from),
		})
	}
	remaining := balance - amount
	total := remaining + c.reserved[from]
	if total < c.existentialDeposit && existence == port.KeepAlive {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds, "transfer would reap a keep-alive account", map[string]string{
			"Account": string(from),
		})
	}
	if c.free[to]+amount < c.free[to] {
		return apperrors.New(apperrors.CodeAmountInvalid, "transfer overflows receiver balance")
	}

	c.setFree(from, remaining)
	if total < c.existentialDeposit {
		c.reap(from)
	}
	c.free[to] += amount
	return nil
}

// Reserve moves amount of free balance into the reserved balance.
func (c *Currency) Reserve(account primitive.AccountID, amount primitive.Balance) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.free[account] < amount {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds, "reserve exceeds free balance", map[string]string{
			"Account": string(account),
		})
	}
	c.setFree(account, c.free[account]-amount)
	if amount > 0 {
		c.reserved[account] += amount
	}
	return nil
}

// Unreserve moves amount of reserved balance back to the free balance.
func (c *Currency) Unreserve(account primitive.AccountID, amount primitive.Balance) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reserved[account] < amount {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds, "unreserve exceeds reserved balance", map[string]string{
			"Account": string(account),
		})
	}
	if left := c.reserved[account] - amount; left > 0 {
		c.reserved[account] = left
	} else {
		delete(c.reserved, account)
	}
	if amount > 0 {
		c.free[account] += amount
	}
	return nil
}

// MakeFreeBalanceBe sets the free balance of account.
func (c *Currency) MakeFreeBalanceBe(account primitive.AccountID, amount primitive.Balance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setFree(account, amount)
}

// TotalIssuance returns the sum of every free and reserved balance.
func (c *Currency) TotalIssuance() primitive.Balance {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total primitive.Balance
	for _, amount := range c.free {
		total += amount
	}
	for _, amount := range c.reserved {
		total += amount
	}
	return total
}

func (c *Currency) setFree(account primitive.AccountID, amount primitive.Balance) {
	if amount == 0 {
		delete(c.free, account)
		return
	}
	c.free[account] = amount
}

// reap drops the dust of an account below the existential deposit.
func (c *Currency) reap(account primitive.AccountID) {
	delete(c.free, account)
	delete(c.reserved, account)
}
