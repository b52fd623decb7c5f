package session

import (
	"time"

	"github.com/mossriver/poolside/internal/idp"
)

// Event is the closed set of inputs the controller accepts: user intent from
// the presentation layer, the startup timer, and adapter outcomes.
type Event interface{ isEvent() }

// InitialTimeout fires once, [RestoreDelay] after initialization, giving a
// cached refresh token a chance to silently re-establish a session before the
// user is asked to act.
type InitialTimeout struct{}

// LogIn submits the current username and password.
type LogIn struct{}

// LogOut ends the session and clears the form fields.
type LogOut struct{}

// Refresh requests a silent session refresh.
type Refresh struct{}

// TryAgain recovers from a rejected sign-in: clears the form fields and
// resets the adapter to unauthenticated.
type TryAgain struct{}

// RespondWithNewPassword answers an outstanding new-password challenge with
// the current password field. An empty password is silently ignored.
type RespondWithNewPassword struct{}

// UpdateUsername replaces the username field.
type UpdateUsername struct{ Value string }

// UpdatePassword replaces the password field.
type UpdatePassword struct{ Value string }

// UpdatePasswordVerification replaces the password confirmation field.
type UpdatePasswordVerification struct{ Value string }

// AdapterEvent wraps an identity-provider event for the controller to fold.
type AdapterEvent struct{ Event idp.Event }

func (InitialTimeout) isEvent()             {}
func (LogIn) isEvent()                      {}
func (LogOut) isEvent()                     {}
func (Refresh) isEvent()                    {}
func (TryAgain) isEvent()                   {}
func (RespondWithNewPassword) isEvent()     {}
func (UpdateUsername) isEvent()             {}
func (UpdatePassword) isEvent()             {}
func (UpdatePasswordVerification) isEvent() {}
func (AdapterEvent) isEvent()               {}

// RestoreDelay is how long after startup the silent-restore timer fires.
const RestoreDelay = time.Second

// Effect describes a side-effecting operation requested by a transition and
// executed by the surrounding runtime.
type Effect interface{ isEffect() }

// ScheduleRestore arms a one-shot timer that must deliver [InitialTimeout]
// after the given duration. It is never cancelled and fires exactly once.
type ScheduleRestore struct{ After time.Duration }

// Invoke asks the runtime to execute one adapter request; its outcome
// re-enters the controller as an [AdapterEvent].
type Invoke struct{ Request idp.Request }

func (ScheduleRestore) isEffect() {}
func (Invoke) isEffect()          {}
