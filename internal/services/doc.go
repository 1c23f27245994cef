// Package services implements the TunePeep backend API client.
//
// # Service Interface
//
// [Service] is the typed surface the rest of the client programs against:
// catalog reads, authentication, and the admin mutations. [CatalogService]
// implements it against a live backend.
//
// # Request Dispatch
//
// Protected endpoints all pass through [Dispatcher], the single chokepoint
// that attaches the session credential and uniformly reacts to the
// backend's unauthorized signal: an HTTP 401 clears the session state
// (idempotently) and surfaces [shared.ErrUnauthorized] to the caller.
// Redirecting is not the dispatcher's job: the guard layer decides that on
// the next evaluation. Every other failure class (network, validation,
// server error) propagates to the caller and never touches session state.
//
// # Credential Handling
//
// The credential is an [oauth2.Token]: the access token rides in the
// Authorization header, and [RefreshSource] implements [oauth2.TokenSource]
// by minting fresh access tokens through POST /refresh when the current one
// expires. [FileTokenStore] persists the token between runs; the in-memory
// session state never touches the file.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrUnauthorized] : the backend's 401 signal
//   - [shared.ErrForbidden] : local refusal of an admin mutation
//   - [shared.ErrNoRefreshToken] : no stored credential to verify
//   - [shared.ErrAPIRequest] : any other non-2xx response
package services
