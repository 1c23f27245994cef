// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the TunePeep catalog:
//  1. [LoadingView] : Spinner while the startup session check is unresolved
//  2. [CatalogView] : Browse the public catalog
//  3. [DetailView] : Full entry with rating and review (requires a session)
//  4. [LoginView] : Credential form
//  5. [ReviewView] : Edit the admin review (ADMIN only)
//  6. [DeniedView] : Landing for signed-in accounts without the required role
//
// Navigation is gated by the guard package: every protected transition asks
// for a decision against the current session snapshot. When a transition is
// refused for want of a session, the intended destination is kept and
// resumed after a successful sign-in. A signed-in account lacking the ADMIN
// role lands on [DeniedView] instead of the login form.
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
