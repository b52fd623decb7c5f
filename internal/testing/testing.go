// package testing contains shared testing utilities
package testing

import (
	"context"

	"github.com/mossriver/poolside/internal/idp"
)

// StatusEvent is a scripted adapter event that [MockAdapter] folds directly
// into the status it carries.
type StatusEvent struct {
	Status idp.Status
}

// ForwardEvent is a scripted adapter event whose fold forwards a follow-up
// request, exercising the lift path of the adapter contract.
type ForwardEvent struct {
	Status  idp.Status
	Request idp.Request
}

// MockState is the opaque client state threaded by [MockAdapter]. Generation
// counts how many folds the state has been through, letting tests observe
// that the controller substitutes the returned value.
type MockState struct {
	Generation int
}

// MockAdapter is a test double for [idp.Adapter]. The zero value initializes
// successfully, records every executed request, and folds [StatusEvent] and
// [ForwardEvent] values.
type MockAdapter struct {
	InitErr error

	// Scripted Execute outcomes, keyed by request order. A nil entry (or a
	// missing script) yields no event.
	Script []idp.Event

	Executed []idp.Request
	Applied  []idp.Event
	Creds    *idp.Credentials
	Reads    int
}

var _ idp.Adapter = (*MockAdapter)(nil)

func (m *MockAdapter) Initialize(ctx context.Context, cfg idp.Config) (idp.ClientState, error) {
	if m.InitErr != nil {
		return nil, m.InitErr
	}
	return MockState{}, nil
}

func (m *MockAdapter) ApplyEvent(ev idp.Event, state idp.ClientState) (idp.ClientState, idp.Request, idp.Status) {
	m.Applied = append(m.Applied, ev)

	next := MockState{}
	if s, ok := state.(MockState); ok {
		next = MockState{Generation: s.Generation + 1}
	}

	switch ev := ev.(type) {
	case StatusEvent:
		return next, nil, ev.Status
	case ForwardEvent:
		return next, ev.Request, ev.Status
	}
	return next, nil, nil
}

func (m *MockAdapter) Execute(ctx context.Context, req idp.Request, state idp.ClientState) idp.Event {
	m.Executed = append(m.Executed, req)
	if len(m.Script) == 0 {
		return nil
	}
	ev := m.Script[0]
	m.Script = m.Script[1:]
	return ev
}

func (m *MockAdapter) ReadFederatedCredentials(state idp.ClientState) *idp.Credentials {
	m.Reads++
	return m.Creds
}
