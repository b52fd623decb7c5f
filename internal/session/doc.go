// Package session implements the authentication session state machine.
//
// The whole package is value-to-value: [Controller.Transition] maps an
// ([Event], [State]) pair to a next state plus zero or more [Effect] requests,
// and performs no I/O of its own. The surrounding runtime (the Bubble Tea
// program in internal/ui, or the synchronous driver in cmd) executes the
// effects and feeds their outcomes back in as ordinary events, so transitions
// always run to completion one at a time.
//
// Effects issued by different transitions carry no ordering guarantee relative
// to each other: a logout issued right after a refresh may see its result
// delivered first. Requests are not fenced or cancelled; a stale result is
// folded like any other event.
package session
