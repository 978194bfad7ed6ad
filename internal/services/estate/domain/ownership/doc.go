// Package ownership tracks the virtual account of every purchased asset and
// the fungible tokens representing fractional ownership of it.
package ownership
