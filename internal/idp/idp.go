package idp

import (
	"context"
	"time"
)

// Config carries everything needed to reach the identity provider.
type Config struct {
	// ClientID is the user pool app client id.
	ClientID string
	// Region is the AWS region hosting the user pool.
	Region string
	// Identity optionally maps the user pool onto an identity pool so that a
	// signed-in user can be decorated with federated AWS credentials.
	Identity *IdentityMapping
	// CachePath locates the collaborator-owned session cache. Empty disables
	// persistence, which also disables silent restore across processes.
	CachePath string
}

// IdentityMapping links a user pool to an identity pool.
type IdentityMapping struct {
	UserPoolID     string
	IdentityPoolID string
	AccountID      string
}

// ClientState is the adapter-owned session state. The controller treats it as
// an opaque value: it is handed back on every adapter call and replaced with
// whatever the adapter returns, never inspected or mutated.
type ClientState interface{}

// Event is an adapter-internal event. Each adapter implementation defines its
// own concrete event types; the controller forwards them blindly into
// [Adapter.ApplyEvent].
type Event interface{}

// Status is the authentication phase of the current user as last reported by
// the adapter. It is a closed sum: exactly [LoggedOut], [Failed], [LoggedIn]
// or [Challenged].
type Status interface{ isStatus() }

// LoggedOut means no session is established; credentials may be entered.
type LoggedOut struct{}

// Failed means the provider rejected the last interactive sign-in.
type Failed struct{}

// LoggedIn carries the verified subject and the scopes granted to it.
type LoggedIn struct {
	Subject string
	Scopes  []string
}

// Challenged means the provider demands additional user action before it will
// grant a session.
type Challenged struct {
	Kind ChallengeKind
}

func (LoggedOut) isStatus()  {}
func (Failed) isStatus()     {}
func (LoggedIn) isStatus()   {}
func (Challenged) isStatus() {}

// ChallengeKind enumerates the provider challenges the client understands.
type ChallengeKind int

const (
	// ChallengeNewPassword is issued for accounts whose password must be
	// replaced before a session is granted.
	ChallengeNewPassword ChallengeKind = iota
)

// Request describes one effectful provider operation. Requests are issued by
// the session controller (or forwarded by the adapter's own fold) and executed
// by the runtime via [Adapter.Execute]; they never run inside a transition.
type Request interface{ isRequest() }

// LoginRequest starts an interactive sign-in with the given credentials.
type LoginRequest struct {
	Username string
	Password string
}

// LogoutRequest revokes the current session with the provider and drops any
// locally held tokens.
type LogoutRequest struct{}

// RefreshRequest attempts to silently re-establish a session from a held
// refresh token.
type RefreshRequest struct{}

// ResetRequest returns the adapter to the unauthenticated state without
// contacting the provider.
type ResetRequest struct{}

// NewPasswordRequest answers an outstanding new-password challenge.
type NewPasswordRequest struct {
	Password string
}

func (LoginRequest) isRequest()       {}
func (LogoutRequest) isRequest()      {}
func (RefreshRequest) isRequest()     {}
func (ResetRequest) isRequest()       {}
func (NewPasswordRequest) isRequest() {}

// Credentials are federated AWS credentials tied to a signed-in user. They are
// display decoration only; nothing in this client signs requests with them.
type Credentials struct {
	AccessKeyID  string
	SecretKey    string
	SessionToken string
	Expiration   time.Time
}

// TokenSet holds the token triple issued by the provider.
type TokenSet struct {
	ID        string
	Access    string
	Refresh   string
	ExpiresAt time.Time
}

// Adapter is the identity-provider collaborator consumed by the session
// controller.
type Adapter interface {
	// Initialize validates the configuration and returns the starting client
	// state, including any session restored from the adapter's own cache.
	Initialize(ctx context.Context, cfg Config) (ClientState, error)

	// ApplyEvent folds an adapter event into the client state. It returns the
	// next state, an optional follow-up request for the runtime to execute,
	// and the session status the event surfaces; a nil status leaves the
	// controller's status untouched. ApplyEvent performs no I/O.
	ApplyEvent(ev Event, state ClientState) (ClientState, Request, Status)

	// Execute runs one request against the provider and returns the event
	// carrying its outcome. Failures are events, never errors; a nil event
	// means the request produced nothing to fold.
	Execute(ctx context.Context, req Request, state ClientState) Event

	// ReadFederatedCredentials synchronously reads the federated credentials
	// held for the current session, or nil when there are none. It has no
	// side effects.
	ReadFederatedCredentials(state ClientState) *Credentials
}
