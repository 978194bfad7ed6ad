// Package governance links owner referenda to the asset they govern and
// keeps the representative and tenant registries those referenda update.
package governance
