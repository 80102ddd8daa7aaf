// Package session holds the client-side session: the access and refresh
// tokens, the selected store, and the identity decoded from the access token.
//
// A Store is the only shared mutable state of the client. It persists the
// three credential fields through a Storage and notifies subscribers after
// every change. Token structure is never validated here.
package session
