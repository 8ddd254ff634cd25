// Package common contains shared constants and sentinel errors used across
// MyJournal client components.
package common

// KeyPrefix namespaces every key the client writes to its local store.
const KeyPrefix = "myjournal:"

const (
	// SessionUserKey holds the JSON-serialized signed-in user. Absent means
	// logged out.
	SessionUserKey = KeyPrefix + "user"

	// SessionCookiesKey holds the API session cookies so a later run can
	// resume the server-side session.
	SessionCookiesKey = KeyPrefix + "cookies"
)
