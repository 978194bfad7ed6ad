// Package primitive defines the identifiers and numeric types shared by every
// estate component.
package primitive
