package session

import (
	"context"

	"github.com/mossriver/poolside/internal/idp"
)

// Controller owns the transition logic for the session state machine. It
// holds only the adapter; all session state lives in the [State] values it is
// handed.
type Controller struct {
	adapter idp.Adapter
}

// NewController creates a controller over the given identity-provider adapter.
func NewController(adapter idp.Adapter) *Controller {
	return &Controller{adapter: adapter}
}

// Initialize builds the starting application state. On success the model
// starts logged out with empty fields and a single [ScheduleRestore] effect;
// on failure the state is terminal [Errored] and no effects are issued.
func (c *Controller) Initialize(ctx context.Context, cfg idp.Config) (State, []Effect) {
	client, err := c.adapter.Initialize(ctx, cfg)
	if err != nil {
		return Errored{Message: err.Error()}, nil
	}

	model := Model{Client: client, Status: idp.LoggedOut{}}
	return Initialized{Model: model}, []Effect{ScheduleRestore{After: RestoreDelay}}
}

// Transition folds one event into the state. It is pure: all I/O is expressed
// as returned effects. The outer variant (Restoring vs Initialized) is always
// preserved; Errored absorbs every event.
func (c *Controller) Transition(ev Event, st State) (State, []Effect) {
	switch s := st.(type) {
	case Errored:
		return s, nil
	case Restoring:
		model, effects := c.step(ev, s.Model)
		return Restoring{Model: model}, effects
	case Initialized:
		model, effects := c.step(ev, s.Model)
		return Initialized{Model: model}, effects
	}
	return st, nil
}

// step folds an event into the inner model.
func (c *Controller) step(ev Event, m Model) (Model, []Effect) {
	switch ev := ev.(type) {
	case InitialTimeout, Refresh:
		return m, invoke(idp.RefreshRequest{})

	case LogIn:
		return m, invoke(idp.LoginRequest{Username: m.Username, Password: m.Password})

	case RespondWithNewPassword:
		if m.Password == "" {
			return m, nil
		}
		return m, invoke(idp.NewPasswordRequest{Password: m.Password})

	case TryAgain:
		return clearFields(m), invoke(idp.ResetRequest{})

	case LogOut:
		return clearFields(m), invoke(idp.LogoutRequest{})

	case UpdateUsername:
		m.Username = ev.Value
		return m, nil

	case UpdatePassword:
		m.Password = ev.Value
		return m, nil

	case UpdatePasswordVerification:
		m.PasswordVerify = ev.Value
		return m, nil

	case AdapterEvent:
		client, req, status := c.adapter.ApplyEvent(ev.Event, m.Client)
		m.Client = client
		if status != nil {
			m.Status = status
		}
		if req != nil {
			return m, invoke(req)
		}
		return m, nil
	}

	return m, nil
}

// FederatedCredentials reads the optional credential decoration for the
// authenticated panel. It is synchronous, has no effects, and returns nil for
// any status other than logged in.
func (c *Controller) FederatedCredentials(m Model) *idp.Credentials {
	if _, ok := m.Status.(idp.LoggedIn); !ok {
		return nil
	}
	return c.adapter.ReadFederatedCredentials(m.Client)
}

func clearFields(m Model) Model {
	m.Username = ""
	m.Password = ""
	m.PasswordVerify = ""
	return m
}

func invoke(req idp.Request) []Effect {
	return []Effect{Invoke{Request: req}}
}
