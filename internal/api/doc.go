// Package api provides HTTP client functionality for communicating with a
// hushbox server. It handles request/response serialization and automatic
// retry logic with exponential backoff for transient failures.
//
// The API is deliberately unauthenticated: secrets are protected by the
// unguessability of their IDs and by client-side encryption, not by
// accounts. Nothing in this package ever sees an encryption key; keys
// travel in URL fragments, which HTTP clients never send.
//
// The request and response types in this package are the wire contract.
// The server implementation in package server binds its handlers to the
// same types, so client and server cannot drift apart silently.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit, type-safe setup.
//   - [New]: Functional options pattern for flexible configuration.
//
// Both require the server base URL.
//
// # Retry Behavior
//
// The client automatically retries failed requests with exponential backoff.
// By default, requests are retried up to 3 times for these HTTP status codes:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// 4xx responses other than 408 and 429 are never retried: a gone secret
// stays gone and a rejected PIN will not become correct on its own.
// Configure retry behavior using [Config.MaxRetries], [Config.RetryDelay],
// and [Config.RetryOn].
//
// # Error Handling
//
// The package defines sentinel errors for common API error conditions:
//
//   - [ErrSecretGone]: Secret does not exist, expired, or was consumed (404).
//   - [ErrPinRequired]: Secret is PIN-protected and no PIN was sent (401).
//   - [ErrPinMismatch]: Supplied PIN digest was rejected (401).
//   - [ErrPayloadTooLarge]: Creation payload exceeds server limits (413).
//   - [ErrRateLimited]: Rate limit exceeded (429).
//
// Use errors.Is to check for specific error types:
//
//	if errors.Is(err, api.ErrSecretGone) {
//	    // Handle missing secret
//	}
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
