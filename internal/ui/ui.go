package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mossriver/poolside/internal/idp"
	"github.com/mossriver/poolside/internal/session"
	"github.com/mossriver/poolside/internal/shared"
)

// focusField identifies which text input currently receives key events.
type focusField int

const (
	focusUsername focusField = iota
	focusPassword
	focusConfirm
)

// sessionMsg wraps a session event for delivery through the bubbletea loop.
type sessionMsg struct {
	event session.Event
}

// Model renders the session controller's state and feeds user intent back
// into it.
type Model struct {
	ctx     context.Context
	ctrl    *session.Controller
	adapter idp.Adapter
	state   session.State
	pending []session.Effect

	username textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focus    focusField

	keys   keyMap
	help   help.Model
	width  int
	height int
	logger *log.Logger
}

// NewModel initializes the session controller and wires it to a fresh TUI
// model. Initialization effects are held until Init runs.
func NewModel(ctx context.Context, adapter idp.Adapter, cfg idp.Config, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	ctrl := session.NewController(adapter)
	state, effects := ctrl.Initialize(ctx, cfg)

	username := newField("username", false)
	username.Focus()

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		adapter:  adapter,
		state:    state,
		pending:  effects,
		username: username,
		password: newField("password", true),
		confirm:  newField("confirm password", true),
		keys:     newKeyMap(),
		help:     help.New(),
		logger:   logger,
	}
	return m
}

func newField(placeholder string, masked bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 32
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

// Init releases the effects requested by initialization, including the
// one-shot silent-restore timer.
func (m *Model) Init() tea.Cmd {
	effects := m.pending
	m.pending = nil
	return m.execute(effects)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionMsg:
		return m, m.apply(msg.event)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if _, ok := m.state.(session.Errored); ok {
		switch msg.String() {
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil
	}

	model, _ := session.ModelOf(m.state)
	switch session.ModeFor(model.Status) {
	case session.ModeLoginForm:
		return m.handleLoginKeys(msg)
	case session.ModeNotAuthorized:
		return m.handleNotAuthorizedKeys(msg)
	case session.ModePanel:
		return m.handlePanelKeys(msg)
	case session.ModeNewPasswordForm:
		return m.handleNewPasswordKeys(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.setFocus(cycle(m.focus, focusUsername, focusPassword, 1))
		return m, nil
	case "shift+tab", "up":
		m.setFocus(cycle(m.focus, focusUsername, focusPassword, -1))
		return m, nil
	case "enter":
		return m, m.apply(session.LogIn{})
	}
	return m, m.updateFocused(msg)
}

func (m *Model) handleNotAuthorizedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		return m, m.apply(session.TryAgain{})
	}
	return m, nil
}

func (m *Model) handlePanelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		return m, m.apply(session.Refresh{})
	case "o":
		return m, m.apply(session.LogOut{})
	}
	return m, nil
}

func (m *Model) handleNewPasswordKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.setFocus(cycle(m.focus, focusPassword, focusConfirm, 1))
		return m, nil
	case "shift+tab", "up":
		m.setFocus(cycle(m.focus, focusPassword, focusConfirm, -1))
		return m, nil
	case "enter":
		model, _ := session.ModelOf(m.state)
		if model.Password != model.PasswordVerify {
			// Mismatch is surfaced in the view; no event is emitted.
			return m, nil
		}
		return m, m.apply(session.RespondWithNewPassword{})
	}
	return m, m.updateFocused(msg)
}

// updateFocused forwards a key to the focused input and mirrors the new value
// into the session model via the matching field-update event.
func (m *Model) updateFocused(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusUsername:
		m.username, cmd = m.username.Update(msg)
		return tea.Batch(cmd, m.apply(session.UpdateUsername{Value: m.username.Value()}))
	case focusPassword:
		m.password, cmd = m.password.Update(msg)
		return tea.Batch(cmd, m.apply(session.UpdatePassword{Value: m.password.Value()}))
	case focusConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
		return tea.Batch(cmd, m.apply(session.UpdatePasswordVerification{Value: m.confirm.Value()}))
	}
	return nil
}

// apply folds one event through the controller and schedules any effects it
// requested.
func (m *Model) apply(ev session.Event) tea.Cmd {
	before, _ := session.ModelOf(m.state)
	state, effects := m.ctrl.Transition(ev, m.state)
	m.state = state
	m.syncInputs(before)
	return m.execute(effects)
}

// syncInputs keeps the text inputs consistent with the session model after a
// transition: cleared fields reset their inputs, and a screen change moves
// focus to that screen's first field.
func (m *Model) syncInputs(before session.Model) {
	after, ok := session.ModelOf(m.state)
	if !ok {
		return
	}

	if m.username.Value() != after.Username {
		m.username.SetValue(after.Username)
	}
	if m.password.Value() != after.Password {
		m.password.SetValue(after.Password)
	}
	if m.confirm.Value() != after.PasswordVerify {
		m.confirm.SetValue(after.PasswordVerify)
	}

	beforeMode := session.ModeFor(before.Status)
	afterMode := session.ModeFor(after.Status)
	if beforeMode != afterMode {
		if afterMode == session.ModeNewPasswordForm {
			m.setFocus(focusPassword)
		} else {
			m.setFocus(focusUsername)
		}
	}
}

func (m *Model) setFocus(f focusField) {
	m.focus = f
	m.username.Blur()
	m.password.Blur()
	m.confirm.Blur()
	switch f {
	case focusUsername:
		m.username.Focus()
	case focusPassword:
		m.password.Focus()
	case focusConfirm:
		m.confirm.Focus()
	}
}

// cycle moves focus by delta within [first, last], wrapping around.
func cycle(current, first, last focusField, delta int) focusField {
	span := int(last-first) + 1
	next := (int(current-first) + delta + span) % span
	return first + focusField(next)
}

// execute converts session effects into bubbletea commands. The restore timer
// becomes a one-shot tick; adapter requests run off the event loop and return
// as adapter events.
func (m *Model) execute(effects []session.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(effects))
	for _, effect := range effects {
		switch effect := effect.(type) {
		case session.ScheduleRestore:
			cmds = append(cmds, tea.Tick(effect.After, func(time.Time) tea.Msg {
				return sessionMsg{event: session.InitialTimeout{}}
			}))
		case session.Invoke:
			req := effect.Request
			client := m.client()
			cmds = append(cmds, func() tea.Msg {
				ev := m.adapter.Execute(m.ctx, req, client)
				if ev == nil {
					return nil
				}
				return sessionMsg{event: session.AdapterEvent{Event: ev}}
			})
		}
	}
	return tea.Batch(cmds...)
}

// client snapshots the adapter state the effect should be executed against.
func (m *Model) client() idp.ClientState {
	model, ok := session.ModelOf(m.state)
	if !ok {
		return nil
	}
	return model.Client
}
