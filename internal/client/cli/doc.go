// Package cli provides the MyJournal terminal client.
//
// It wires configuration, the local session store, the API client and the
// page controllers, and drives them either from an interactive REPL or from
// one-shot cobra commands. Typical flow: check the stored session against the
// server, start the watcher that follows logins and logouts made by other
// clients, open the start page and execute user commands.
//
// Key features:
//   - Login / Logout / WhoAmI
//   - List, show, create, edit and delete journal entries
//   - Session shared with every client using the same local database
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, NewRootCommand, and runREPL for details.
package cli
