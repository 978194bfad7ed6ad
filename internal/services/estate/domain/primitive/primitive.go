package primitive

import (
	"fmt"
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// AccountID identifies an on-ledger account: a person, the fund treasury, or
// an asset's virtual account.
type AccountID string

// String returns the account identifier.
func (a AccountID) String() string { return string(a) }

// Balance is an amount of currency or ownership token units.
type Balance uint64

// BlockNumber is the height of the block being executed.
type BlockNumber uint64

// ReferendumIndex identifies a referendum. Indexes are never reused.
type ReferendumIndex uint32

// TokenID identifies the fractional-ownership token minted for one asset.
type TokenID uint32

// AssetKey identifies a real-estate asset by its NFT collection and item.
type AssetKey struct {
	Collection uint32 `json:"collection"`
	Item       uint32 `json:"item"`
}

// String renders the key as "collection:item".
func (k AssetKey) String() string {
	return strconv.FormatUint(uint64(k.Collection), 10) + ":" + strconv.FormatUint(uint64(k.Item), 10)
}

// Less orders keys by collection then item.
func (k AssetKey) Less(other AssetKey) bool {
	if k.Collection != other.Collection {
		return k.Collection < other.Collection
	}
	return k.Item < other.Item
}

// ParseAssetKey parses the "collection:item" form produced by String.
func ParseAssetKey(raw string) (AssetKey, error) {
	collection, item, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return AssetKey{}, fmt.Errorf("asset key %q: want collection:item", raw)
	}
	c, err := strconv.ParseUint(collection, 10, 32)
	if err != nil {
		return AssetKey{}, fmt.Errorf("asset key %q collection: %w", raw, err)
	}
	i, err := strconv.ParseUint(item, 10, 32)
	if err != nil {
		return AssetKey{}, fmt.Errorf("asset key %q item: %w", raw, err)
	}
	return AssetKey{Collection: uint32(c), Item: uint32(i)}, nil
}

// Role is a capability granted by the roles collaborator.
type Role string

const (
	RoleInvestor       Role = "investor"
	RoleSeller         Role = "seller"
	RoleNotary         Role = "notary"
	RoleRepresentative Role = "representative"
	RoleTenant         Role = "tenant"
	RoleServicer       Role = "servicer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleInvestor, RoleSeller, RoleNotary, RoleRepresentative, RoleTenant, RoleServicer:
		return true
	}
	return false
}

// Judgement is an identity registrar's verdict on an account.
type Judgement string

const (
	JudgementUnknown    Judgement = "unknown"
	JudgementFeePaid    Judgement = "fee_paid"
	JudgementReasonable Judgement = "reasonable"
	JudgementKnownGood  Judgement = "known_good"
	JudgementOutOfDate  Judgement = "out_of_date"
	JudgementLowQuality Judgement = "low_quality"
	JudgementErroneous  Judgement = "erroneous"
)

// Valid reports whether j is a known judgement.
func (j Judgement) Valid() bool {
	switch j {
	case JudgementUnknown, JudgementFeePaid, JudgementReasonable, JudgementKnownGood,
		JudgementOutOfDate, JudgementLowQuality, JudgementErroneous:
		return true
	}
	return false
}

// Trusted reports whether the judgement is good enough to house a tenant.
func (j Judgement) Trusted() bool {
	return j == JudgementReasonable || j == JudgementKnownGood
}

// MulDiv returns floor(a*b/c) computed with a 128-bit intermediate product.
// ok is false when c is zero or the quotient does not fit in a Balance.
func MulDiv(a, b, c Balance) (Balance, bool) {
	if c == 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi >= uint64(c) {
		return 0, false
	}
	q, _ := bits.Div64(hi, lo, uint64(c))
	return Balance(q), true
}

// SortAccounts sorts accounts in ascending order in place.
func SortAccounts(accounts []AccountID) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })
}

// ContainsAccount reports whether accounts holds account.
func ContainsAccount(accounts []AccountID, account AccountID) bool {
	for _, candidate := range accounts {
		if candidate == account {
			return true
		}
	}
	return false
}
