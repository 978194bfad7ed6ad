// Package asset implements the acquisition state machine of a real-estate
// asset, from seller submission to purchase, and the occupancy records of a
// purchased asset.
package asset
