// Package ws implements the WebSocket hub for centerpulse.
//
// Hub manages a set of connected clients and broadcasts the current
// dashboard view to all of them on a configurable interval (default 5s
// in production). The poll loop also calls Hub.Broadcast after each
// successful ingest so clients pick up fresh data without waiting for
// the next tick.
//
// New(store, defaults, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker — blocks until ctx is
// cancelled, then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the
// current view immediately on connect, then streams updates.
//
// Message format sent to clients:
//
//	{
//	  "event": "dashboard",
//	  "data":  { /* same schema as GET /api/v1/dashboard */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. WebSocket endpoint is mounted at /ws/dashboard by the server.
package ws
