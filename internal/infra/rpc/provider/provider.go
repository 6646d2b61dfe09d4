// Package provider implements RPC provider interfaces.
//
// This package contains:
//   - Provider interface: core abstraction for remote endpoints
//   - HTTPProvider: JSON-RPC (1.0 and 2.0) and REST over HTTP
//   - ProviderMonitor: health and rate tracking
package provider

import (
	"context"
	"encoding/json"
	"time"
)

// Operation represents a remote call to execute.
// It abstracts the call style so retry and failover logic stays uniform.
type Operation struct {
	// Name is the JSON-RPC method, or the URL path for REST calls
	Name string

	// Params for JSON-RPC calls ([]any or an object), or the body for REST calls
	Params any

	// IsREST indicates a REST call instead of JSON-RPC
	IsREST bool

	// RESTMethod is the HTTP method for REST calls; defaults to GET
	RESTMethod string

	// JSONRPCVersion is "1.0" or "2.0" (default)
	JSONRPCVersion string
}

// NewJSONRPCOperation creates a JSON-RPC 2.0 operation.
func NewJSONRPCOperation(method string, params any) Operation {
	return Operation{Name: method, Params: params}
}

// NewJSONRPC10Operation creates a JSON-RPC 1.0 operation with positional params.
func NewJSONRPC10Operation(method string, params ...any) Operation {
	var p any = params
	if len(params) == 0 {
		p = nil
	}
	return Operation{
		Name:           method,
		Params:         p,
		JSONRPCVersion: "1.0",
	}
}

// NewRESTOperation creates a REST operation.
func NewRESTOperation(method, path string, body any) Operation {
	return Operation{
		Name:       path,
		Params:     body,
		IsREST:     true,
		RESTMethod: method,
	}
}

// Provider defines the interface for any remote endpoint.
type Provider interface {
	// GetName returns provider identifier (e.g., "mempool", "blockstream")
	GetName() string

	// GetHealth returns current health metrics
	GetHealth() HealthStatus

	// IsAvailable checks if the provider is healthy enough to use
	IsAvailable() bool

	// Execute performs the operation and returns the raw result
	Execute(ctx context.Context, op Operation) (json.RawMessage, error)

	// Close cleans up resources
	Close() error
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
	MonitorStats  *MonitorStats `json:"monitor_stats,omitempty"`
}
