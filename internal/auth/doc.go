// Package auth holds the client-side session state machine.
//
// [State] is the single owned holder of the current session: who is signed
// in, their role, and whether the startup check is still pending. Exactly
// four writers exist: the startup [Verifier], the sign-in flow, the
// sign-out flow, and the dispatcher's 401 interception. Everything else
// reads a [Snapshot] and must not cache it beyond a single render or step.
//
// The loading flag is true from construction until the verifier's first
// resolution and transitions to false exactly once; route decisions made
// while it is true render a pending indicator instead of redirecting.
//
// Subscribers registered with [State.Subscribe] run synchronously inside
// every transition, so authorization decisions re-evaluate without an
// eventual-consistency window.
package auth
