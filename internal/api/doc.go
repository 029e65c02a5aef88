// Package api is the HTTP handler for all /api/v1/* endpoints and the
// /metrics exposition. It reads the record store, runs the derivation
// pipeline per request, and returns flat JSON views for the dashboard.
package api
