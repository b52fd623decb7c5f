package session

import "github.com/mossriver/poolside/internal/idp"

// State is the top-level application state, a closed sum of exactly three
// variants: [Errored], [Restoring] and [Initialized].
type State interface{ isState() }

// Errored is the terminal state entered when initialization fails. Every
// event leaves it unchanged.
type Errored struct {
	Message string
}

// Restoring wraps the session model during a pre-ready phase. The current
// initialization path never produces it, but transitions treat it exactly
// like [Initialized], preserving the outer variant.
type Restoring struct {
	Model Model
}

// Initialized wraps the session model in the normal operating state.
type Initialized struct {
	Model Model
}

func (Errored) isState()     {}
func (Restoring) isState()   {}
func (Initialized) isState() {}

// Model is the session state owned by whichever [State] variant holds it.
// It is replaced wholesale on every transition, never mutated in place.
type Model struct {
	// Client is the adapter-owned state, passed back on every adapter call
	// and replaced with the adapter's returned next value. Never inspected.
	Client idp.ClientState

	// Status changes only by folding adapter events; no user-intent event
	// assigns it directly.
	Status idp.Status

	// Transient form fields. Cleared unconditionally on logout and on
	// retry-after-failure, never persisted.
	Username       string
	Password       string
	PasswordVerify string
}

// ModelOf returns the inner session model when the state carries one.
func ModelOf(st State) (Model, bool) {
	switch s := st.(type) {
	case Restoring:
		return s.Model, true
	case Initialized:
		return s.Model, true
	}
	return Model{}, false
}

// Mode selects which of the four mutually exclusive screens a consumer must
// render for a given status.
type Mode int

const (
	// ModeLoginForm collects username and password.
	ModeLoginForm Mode = iota
	// ModeNotAuthorized shows the rejected sign-in with fields disabled and
	// retry available.
	ModeNotAuthorized
	// ModePanel shows the authenticated subject and its scopes.
	ModePanel
	// ModeNewPasswordForm collects a replacement password for an outstanding
	// challenge.
	ModeNewPasswordForm
)

// ModeFor maps a session status to its display mode. The mapping is total
// over the status sum; a nil status renders as the login form.
func ModeFor(status idp.Status) Mode {
	switch status.(type) {
	case idp.LoggedOut:
		return ModeLoginForm
	case idp.Failed:
		return ModeNotAuthorized
	case idp.LoggedIn:
		return ModePanel
	case idp.Challenged:
		return ModeNewPasswordForm
	default:
		return ModeLoginForm
	}
}
