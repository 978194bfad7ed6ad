// Package event defines the immutable event envelope recorded in the estate
// journal, the registry that vets events before append, and the content and
// chain hashes that make the journal tamper-evident.
package event
