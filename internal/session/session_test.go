package session

import (
	"testing"

	"github.com/mossriver/poolside/internal/idp"
)

func TestModeFor(t *testing.T) {
	tests := []struct {
		name   string
		status idp.Status
		want   Mode
	}{
		{"logged out", idp.LoggedOut{}, ModeLoginForm},
		{"failed", idp.Failed{}, ModeNotAuthorized},
		{"logged in", idp.LoggedIn{Subject: "alice-id"}, ModePanel},
		{"challenged", idp.Challenged{Kind: idp.ChallengeNewPassword}, ModeNewPasswordForm},
		{"nil status", nil, ModeLoginForm},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ModeFor(tc.status); got != tc.want {
				t.Errorf("ModeFor(%T) = %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}

func TestModelOf(t *testing.T) {
	model := Model{Username: "alice"}

	tests := []struct {
		name string
		st   State
		ok   bool
	}{
		{"initialized", Initialized{Model: model}, true},
		{"restoring", Restoring{Model: model}, true},
		{"errored", Errored{Message: "boom"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ModelOf(tc.st)
			if ok != tc.ok {
				t.Fatalf("ModelOf(%T) ok = %v, want %v", tc.st, ok, tc.ok)
			}
			if ok && got.Username != "alice" {
				t.Errorf("expected the inner model, got %#v", got)
			}
		})
	}
}
