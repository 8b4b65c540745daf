// Package cli provides the interactive car rental command-line client.
//
// It wires configuration, durable storage, the session store, the auth
// service and the currency preference, and runs an interactive REPL on top.
// At start the stored session is revalidated once against the user service;
// a session the service rejects, or one that cannot be checked, is dropped.
//
// Key features:
//   - Register / Login / Logout
//   - whoami (cached profile) and validate (server check)
//   - currency selection, persisted across runs
//   - available cars for a period, priced in the selected currency
//   - the logged-in user's bookings
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and StartSessionWatcher for details.
package cli
