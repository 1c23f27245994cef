// Package server provides HTTP routing, middleware, and a local stub backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally with method filtering.
//
// # Stub Backend
//
// [StubServer] is a self-contained TunePeep backend speaking the real wire
// protocol: credential login issuing bearer tokens, refresh token rotation,
// a 401 middleware on protected routes, and admin-only mutations. The `dev
// serve` command runs it on localhost so the client can be exercised
// without a deployed backend, and the end-to-end tests drive the full
// client stack against it.
package server
