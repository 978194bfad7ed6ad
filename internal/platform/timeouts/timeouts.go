// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing a gRPC peer.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single estate gRPC request.
const GRPCRequest = 5 * time.Second

// Shutdown limits how long the estate server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// NotifyFlush caps how long the event publisher waits for buffered messages
// to reach the broker on close.
const NotifyFlush = 2 * time.Second
