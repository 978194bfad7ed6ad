package memory

import (
	"sync"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Assets is an NFT registry mapping asset keys to their owners.
type Assets struct {
	mu     sync.Mutex
	owners map[primitive.AssetKey]primitive.AccountID
	meta   map[primitive.AssetKey]string
}

// NewAssets creates an empty NFT registry.
func NewAssets() *Assets {
	return &Assets{
		owners: make(map[primitive.AssetKey]primitive.AccountID),
		meta:   make(map[primitive.AssetKey]string),
	}
}

// Mint creates the NFT for asset owned by owner.
func (a *Assets) Mint(asset primitive.AssetKey, owner primitive.AccountID, metadata string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.owners[asset]; exists {
		return apperrors.New(apperrors.CodeAssetAlreadyOwned, "asset item already minted")
	}
	a.owners[asset] = owner
	a.meta[asset] = metadata
	return nil
}

// OwnerOf returns the current owner of asset.
func (a *Assets) OwnerOf(asset primitive.AssetKey) (primitive.AccountID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	owner, ok := a.owners[asset]
	return owner, ok
}

// Metadata returns the metadata recorded at mint.
func (a *Assets) Metadata(asset primitive.AssetKey) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	meta, ok := a.meta[asset]
	return meta, ok
}

// Transfer hands asset to a new owner.
func (a *Assets) Transfer(asset primitive.AssetKey, to primitive.AccountID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.owners[asset]; !exists {
		return apperrors.New(apperrors.CodeNotAnAsset, "asset item does not exist")
	}
	a.owners[asset] = to
	return nil
}
