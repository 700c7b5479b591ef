// Package auth holds the session credential used to authorize API calls.
// There is exactly one read path for the credential: every consumer goes
// through a Store handed to it at construction time.
package auth

// Session is the authenticated identity and its bearer token.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Store persists the current session. Get returns nil when no session is
// held (anonymous). Clear of an empty store is a no-op.
type Store interface {
	Get() (*Session, error)
	Set(session *Session) error
	Clear() error
}
