// Package pages holds the state and actions of each client page,
// independent of how they are drawn.
//
// A page controller owns its view state (lists, busy flags, open editors),
// validates forms before any request is made and reports outcomes through a
// Notifier. Controllers are safe for concurrent use: the session watcher and
// the user's commands run on different goroutines.
package pages
