// Package command defines the command envelope every estate action enters
// through, the registry that validates it, and the Decision type deciders
// return.
package command
