// Package client talks to the journal HTTP API.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface): Login, Me, Logout and the
//     entry CRUD calls.
//  2. HTTPClient, a JSON-over-HTTP implementation that maps failures onto
//     sentinel errors and *APIError.
//  3. Transport, an http.RoundTripper applied to every API request. It
//     attaches the session cookies, records cookies the server sets, reports
//     401 responses to a registered hook and optionally rate-limits requests.
//
// # Error Handling
//
// Conditions callers branch on are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable when the server cannot be reached and
// ErrUnauthorized for 401 responses. Every other non-2xx response is an
// *APIError carrying the status and the server's message, if any.
//
// Concurrency & Contexts
//
// HTTPClient and Transport are safe for concurrent use. All calls accept a
// context.Context and honor cancellation.
package client
