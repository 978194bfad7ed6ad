// Package memory provides in-process implementations of the estate
// collaborators: currency, roles, the NFT anchor and identity. The app
// runtime uses them as the embedded ledger; tests use them as the baseline
// for fakes.
package memory

import "github.com/louisbranch/fairsquares/internal/services/estate/domain/port"

var (
	_ port.Currency = (*Currency)(nil)
	_ port.Roles    = (*Roles)(nil)
	_ port.Assets   = (*Assets)(nil)
	_ port.Identity = (*Identity)(nil)
)
