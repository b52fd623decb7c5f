package idp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mossriver/poolside/internal/shared"
)

// signAccessToken forges an unsigned-trust access token the way Cognito shapes
// them, so claim extraction can be exercised offline.
func signAccessToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestInitializeValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing client id", Config{Region: "us-west-2"}},
		{"missing region", Config{ClientID: "client"}},
		{"incomplete identity mapping", Config{
			ClientID: "client",
			Region:   "us-west-2",
			Identity: &IdentityMapping{UserPoolID: "us-west-2_abc"},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter := NewCognitoAdapter(nil)
			_, err := adapter.Initialize(ctx, tc.cfg)
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestApplyEvent(t *testing.T) {
	adapter := NewCognitoAdapter(nil)

	t.Run("signed in surfaces the token claims", func(t *testing.T) {
		access := signAccessToken(t, jwt.MapClaims{
			"sub":      "alice-id",
			"scope":    "openid profile",
			"username": "alice",
		})
		creds := &Credentials{AccessKeyID: "AKIA123"}
		ev := SignedIn{
			Tokens:      TokenSet{Access: access, Refresh: "refresh-1"},
			Credentials: creds,
		}

		// Start from a challenged state to confirm the continuation is dropped.
		prior := cognitoState{challenge: &challengeContinuation{session: "s1", username: "alice"}}
		next, req, status := adapter.ApplyEvent(ev, prior)
		if req != nil {
			t.Errorf("expected no follow-up request, got %#v", req)
		}

		grant, ok := status.(LoggedIn)
		if !ok {
			t.Fatalf("expected LoggedIn, got %T", status)
		}
		if grant.Subject != "alice-id" {
			t.Errorf("expected subject alice-id, got %s", grant.Subject)
		}
		if len(grant.Scopes) != 2 || grant.Scopes[0] != "openid" || grant.Scopes[1] != "profile" {
			t.Errorf("unexpected scopes: %v", grant.Scopes)
		}

		cs := next.(cognitoState)
		if cs.challenge != nil {
			t.Error("expected the challenge continuation to be cleared")
		}
		if cs.tokens == nil || cs.tokens.Refresh != "refresh-1" {
			t.Errorf("expected tokens retained, got %#v", cs.tokens)
		}
		if cs.creds != creds {
			t.Error("expected credentials attached to the state")
		}
	})

	t.Run("challenge raised stores the continuation", func(t *testing.T) {
		ev := ChallengeRaised{Kind: ChallengeNewPassword, Session: "sess-42", Username: "alice"}
		next, _, status := adapter.ApplyEvent(ev, cognitoState{})

		challenged, ok := status.(Challenged)
		if !ok {
			t.Fatalf("expected Challenged, got %T", status)
		}
		if challenged.Kind != ChallengeNewPassword {
			t.Errorf("unexpected challenge kind: %v", challenged.Kind)
		}

		cs := next.(cognitoState)
		if cs.challenge == nil || cs.challenge.session != "sess-42" || cs.challenge.username != "alice" {
			t.Errorf("expected stored continuation, got %#v", cs.challenge)
		}
	})

	t.Run("rejection drops tokens and fails", func(t *testing.T) {
		prior := cognitoState{tokens: &TokenSet{Refresh: "old"}, creds: &Credentials{}}
		next, _, status := adapter.ApplyEvent(SignInRejected{Reason: "nope"}, prior)

		if _, ok := status.(Failed); !ok {
			t.Fatalf("expected Failed, got %T", status)
		}
		cs := next.(cognitoState)
		if cs.tokens != nil || cs.creds != nil {
			t.Errorf("expected tokens and credentials dropped, got %#v", cs)
		}
	})

	t.Run("restore failure lands logged out", func(t *testing.T) {
		prior := cognitoState{tokens: &TokenSet{Refresh: "stale"}}
		next, _, status := adapter.ApplyEvent(RestoreFailed{Reason: "expired"}, prior)

		if _, ok := status.(LoggedOut); !ok {
			t.Fatalf("expected LoggedOut, got %T", status)
		}
		if next.(cognitoState).tokens != nil {
			t.Error("expected stale tokens dropped")
		}
	})

	t.Run("sign out zeroes the state", func(t *testing.T) {
		prior := cognitoState{
			tokens:    &TokenSet{Refresh: "r"},
			challenge: &challengeContinuation{session: "s"},
			creds:     &Credentials{},
		}
		for _, ev := range []Event{SignedOut{}, ResetDone{}} {
			next, _, status := adapter.ApplyEvent(ev, prior)
			if _, ok := status.(LoggedOut); !ok {
				t.Fatalf("%T: expected LoggedOut, got %T", ev, status)
			}
			cs := next.(cognitoState)
			if cs.tokens != nil || cs.challenge != nil || cs.creds != nil {
				t.Errorf("%T: expected zero state, got %#v", ev, cs)
			}
		}
	})

	t.Run("unknown event changes nothing", func(t *testing.T) {
		prior := cognitoState{tokens: &TokenSet{Refresh: "keep"}}
		next, req, status := adapter.ApplyEvent(struct{}{}, prior)
		if status != nil || req != nil {
			t.Errorf("expected no status or request, got %T / %#v", status, req)
		}
		if next.(cognitoState).tokens.Refresh != "keep" {
			t.Error("expected state unchanged")
		}
	})
}

func TestReadFederatedCredentials(t *testing.T) {
	adapter := NewCognitoAdapter(nil)
	creds := &Credentials{AccessKeyID: "AKIA123", Expiration: time.Now().Add(time.Hour)}

	tests := []struct {
		name  string
		state ClientState
		want  bool
	}{
		{"no session", cognitoState{}, false},
		{"session without credentials", cognitoState{tokens: &TokenSet{Access: "a"}}, false},
		{"credentials without session", cognitoState{creds: creds}, false},
		{"full session", cognitoState{tokens: &TokenSet{Access: "a"}, creds: creds}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := adapter.ReadFederatedCredentials(tc.state)
			if tc.want && (got == nil || got.AccessKeyID != "AKIA123") {
				t.Errorf("expected credentials, got %#v", got)
			}
			if !tc.want && got != nil {
				t.Errorf("expected nil, got %#v", got)
			}
		})
	}

	t.Run("returns a copy", func(t *testing.T) {
		state := cognitoState{tokens: &TokenSet{Access: "a"}, creds: creds}
		got := adapter.ReadFederatedCredentials(state)
		got.AccessKeyID = "mutated"
		if creds.AccessKeyID != "AKIA123" {
			t.Error("read leaked a pointer into adapter state")
		}
	})
}

func TestAccessClaims(t *testing.T) {
	t.Run("well formed token", func(t *testing.T) {
		token := signAccessToken(t, jwt.MapClaims{
			"sub":      "alice-id",
			"scope":    "openid",
			"username": "alice",
		})
		subject, scopes, username := accessClaims(token)
		if subject != "alice-id" || username != "alice" {
			t.Errorf("unexpected claims: %s / %s", subject, username)
		}
		if len(scopes) != 1 || scopes[0] != "openid" {
			t.Errorf("unexpected scopes: %v", scopes)
		}
	})

	t.Run("missing optional claims", func(t *testing.T) {
		token := signAccessToken(t, jwt.MapClaims{"sub": "alice-id"})
		subject, scopes, username := accessClaims(token)
		if subject != "alice-id" || scopes != nil || username != "" {
			t.Errorf("unexpected claims: %s / %v / %s", subject, scopes, username)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
			subject, scopes, username := accessClaims(token)
			if subject != "" || scopes != nil || username != "" {
				t.Errorf("token %q yielded claims: %s / %v / %s", token, subject, scopes, username)
			}
		}
	})
}
