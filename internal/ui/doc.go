// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The view is a pure function of the session controller's state: each
// [session.Mode] maps to one screen (login form, not-authorized, authenticated
// panel, new-password form) and the terminal [session.Errored] state renders
// its message. Key presses and field edits become session events, session
// effects become [tea.Cmd]s, and adapter outcomes re-enter the update loop as
// messages, so the controller never blocks the render loop.
//
// Keyboard navigation uses tab/shift+tab between fields, enter to submit, and
// single-key actions (r, o, q) on the non-form screens, with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
