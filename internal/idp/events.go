package idp

// Events produced by [CognitoAdapter.Execute]. They are plain values so that
// folding them stays free of I/O and the session tests can inject them
// directly.

// SignedIn reports a successful interactive or silent sign-in.
type SignedIn struct {
	Tokens TokenSet
	// Credentials are attached when an identity-pool mapping is configured;
	// they are fetched during Execute so later reads stay synchronous.
	Credentials *Credentials
}

// SignInRejected reports that the provider declined an interactive sign-in or
// challenge response.
type SignInRejected struct {
	Reason string
}

// ChallengeRaised reports that the provider demands further action before
// granting a session. Session is the provider's continuation handle and must
// be echoed back when the challenge is answered.
type ChallengeRaised struct {
	Kind     ChallengeKind
	Session  string
	Username string
}

// RestoreFailed reports that a silent refresh could not establish a session.
// Unlike [SignInRejected] it folds back to the logged-out status: a missing or
// expired refresh token just means the user signs in normally.
type RestoreFailed struct {
	Reason string
}

// SignedOut reports that the session was revoked and local tokens dropped.
type SignedOut struct{}

// ResetDone reports that local state was cleared without contacting the
// provider.
type ResetDone struct{}
