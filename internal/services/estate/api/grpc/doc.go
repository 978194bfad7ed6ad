// Package grpc groups the estate gRPC transport: request metadata handling
// and the EstateService that fronts the engine.
package grpc
