// Package relay owns the forward-proxy server runtime.
//
// Ownership boundary:
// - TCP accept loop and per-connection handling policy
// - request parse / fetch dispatch / response framing state machine
// - optional admin HTTP sidecar (health, readiness, metrics)
package relay
