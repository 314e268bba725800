// Package api provides the HTTP REST API and WebSocket server for escposd.
//
// It exposes printer registry management, the print operations, job history,
// and a real-time event stream to dashboards and automation clients.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
