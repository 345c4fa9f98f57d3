// Package session owns the client's session record: persisting it through a
// kv.Store under a single well-known key, deciding whether it is still
// valid, and optionally watching it for expiry.
//
// Store is the only writer of the key. Load never fails: a missing,
// unreadable or malformed record is reported as no session at all.
package session
