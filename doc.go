// Package matchpoint provides a Go client SDK for the Matchpoint
// collaboration-matching API.
//
// The SDK wraps the REST backend with a resilient HTTP client (bounded
// retries with exponential backoff, structured error taxonomy,
// cooperative cancellation at every suspension point), durable session
// token storage, and a realtime message delivery layer over WebSocket
// with a polling fallback.
//
// Basic usage:
//
//	client, err := matchpoint.New("https://api.matchpoint.example")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	user, err := client.Login(ctx, "ada@example.com", "hunter2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := client.Discover(ctx, 0, 20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, profile := range page.Profiles {
//	    fmt.Println(profile.DisplayName)
//	}
//
// # Errors
//
// Every failure is returned as an error; nothing panics across the SDK
// boundary. HTTP failures carry their status code structurally on
// [APIError] and map to sentinel errors via errors.Is:
//
//	if errors.Is(err, matchpoint.ErrUnauthorized) {
//	    // session expired, log in again
//	}
//
// A cancellation (caller context cancelled before, during, or between
// attempts) matches [ErrRequestCancelled] and is never retried.
//
// # Retries
//
// Requests that fail with 408, 429, or 5xx status codes, or with
// transient transport errors, are retried up to the configured limit
// with exponential backoff. Configure with [WithRetries],
// [WithRetryDelay], [WithRetryOn], and [WithFlatBackoff], or supply a
// whole policy via [WithRetryPolicy]. Invalid values are clamped to
// defaults, never an error.
//
// # Sessions
//
// The session token is written to the configured [TokenStore] on login,
// attached as a bearer credential to every subsequent request, and
// erased on logout or when the backend reports it invalid. Use
// [WithTokenFile] to persist sessions across processes; tokens stored
// under the legacy key by older releases are migrated on construction.
package matchpoint
