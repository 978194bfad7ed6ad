// Package rent schedules guaranty deposits and recurring rent for housed
// tenants and splits collected rent among the owners of an asset.
package rent
