// Package cli provides the interactive BitNet terminal client.
//
// It wires configuration, the local SQLite store, the HTTP API client and the
// contact ledger into a REPL. Account and company commands go to the server;
// scanning and the contact commands work on the local ledger and need no
// connection.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
