package ownership

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"golang.org/x/crypto/blake2b"
)

const virtualAccountDomain = "fairsquares/virtual"

// VirtualAccount is the custodial identity collectively owning one asset.
type VirtualAccount struct {
	Asset   primitive.AssetKey
	Account primitive.AccountID
	// Owners holds every account with a nonzero token share, ascending.
	Owners  []primitive.AccountID
	TokenID primitive.TokenID
	// Issued is the token supply minted for the asset; zero until issuance.
	Issued      primitive.Balance
	Distributed bool
}

// State is the ownership registry.
type State struct {
	Accounts  map[primitive.AssetKey]VirtualAccount
	ByAccount map[primitive.AccountID]primitive.AssetKey
	Balances  map[primitive.TokenID]map[primitive.AccountID]primitive.Balance
	NextToken primitive.TokenID
}

// DeriveAccount returns the deterministic virtual account id for asset.
func DeriveAccount(asset primitive.AssetKey) primitive.AccountID {
	buf := make([]byte, 0, len(virtualAccountDomain)+8)
	buf = append(buf, virtualAccountDomain...)
	buf = binary.BigEndian.AppendUint32(buf, asset.Collection)
	buf = binary.BigEndian.AppendUint32(buf, asset.Item)
	sum := blake2b.Sum256(buf)
	return primitive.AccountID("va-" + hex.EncodeToString(sum[:])[:40])
}

// VirtualAccount returns the virtual account for asset.
func (s State) VirtualAccount(asset primitive.AssetKey) (VirtualAccount, bool) {
	va, ok := s.Accounts[asset]
	return va, ok
}

// AssetOfAccount returns the asset whose virtual account is account.
func (s State) AssetOfAccount(account primitive.AccountID) (primitive.AssetKey, bool) {
	asset, ok := s.ByAccount[account]
	return asset, ok
}

// BalanceOf returns the token balance of account.
func (s State) BalanceOf(token primitive.TokenID, account primitive.AccountID) primitive.Balance {
	return s.Balances[token][account]
}

// IsOwner reports whether account holds a share of asset.
func (s State) IsOwner(asset primitive.AssetKey, account primitive.AccountID) bool {
	va, ok := s.Accounts[asset]
	return ok && primitive.ContainsAccount(va.Owners, account)
}

// OwnerBalance returns account's token balance for asset.
func (s State) OwnerBalance(asset primitive.AssetKey, account primitive.AccountID) primitive.Balance {
	va, ok := s.Accounts[asset]
	if !ok || va.Issued == 0 {
		return 0
	}
	return s.Balances[va.TokenID][account]
}

// Clone returns a deep copy.
func (s State) Clone() State {
	clone := State{
		Accounts:  make(map[primitive.AssetKey]VirtualAccount, len(s.Accounts)),
		ByAccount: make(map[primitive.AccountID]primitive.AssetKey, len(s.ByAccount)),
		Balances:  make(map[primitive.TokenID]map[primitive.AccountID]primitive.Balance, len(s.Balances)),
		NextToken: s.NextToken,
	}
	for k, v := range s.Accounts {
		v.Owners = append([]primitive.AccountID(nil), v.Owners...)
		clone.Accounts[k] = v
	}
	for k, v := range s.ByAccount {
		clone.ByAccount[k] = v
	}
	for token, holders := range s.Balances {
		copied := make(map[primitive.AccountID]primitive.Balance, len(holders))
		for k, v := range holders {
			copied[k] = v
		}
		clone.Balances[token] = copied
	}
	return clone
}
