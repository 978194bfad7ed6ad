// Package fund implements the fund ledger: pooled contributor balances and
// the reservations that pay for asset acquisitions.
//
// Contributor records are kept per account until a reservation consumes
// them, since ownership shares are later computed from them.
package fund
