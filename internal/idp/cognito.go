package idp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mossriver/poolside/internal/shared"
	"golang.org/x/time/rate"
)

var _ Adapter = (*CognitoAdapter)(nil)

// cognitoState is the concrete [ClientState] threaded through the controller.
// Copies share the token pointers; the fold replaces pointers and never writes
// through them, so each copy behaves as an independent value.
type cognitoState struct {
	tokens    *TokenSet
	challenge *challengeContinuation
	creds     *Credentials
}

// challengeContinuation holds what RespondToAuthChallenge needs to answer an
// outstanding NEW_PASSWORD_REQUIRED challenge.
type challengeContinuation struct {
	session  string
	username string
}

// CognitoAdapter implements [Adapter] against an AWS Cognito user pool using
// the native auth flows (USER_PASSWORD_AUTH, REFRESH_TOKEN_AUTH).
type CognitoAdapter struct {
	cfg      Config
	provider *cognitoidentityprovider.Client
	identity *cognitoidentity.Client
	cache    *SessionCache
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewCognitoAdapter creates an unconfigured adapter. Initialize must be called
// before any request is executed.
func NewCognitoAdapter(logger *log.Logger) *CognitoAdapter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CognitoAdapter{
		// Cognito throttles auth calls aggressively; stay under it client-side.
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:  logger,
	}
}

// SetLogger replaces the adapter's logger, e.g. to move logging to a file
// while a TUI owns the terminal.
func (a *CognitoAdapter) SetLogger(logger *log.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Initialize validates cfg, builds the AWS clients and loads any cached
// session. The returned state carries at most a refresh token; establishing a
// session from it is the silent-restore request's job.
func (a *CognitoAdapter) Initialize(ctx context.Context, cfg Config) (ClientState, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: client id is required", shared.ErrInvalidConfig)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", shared.ErrInvalidConfig)
	}
	if cfg.Identity != nil {
		if cfg.Identity.UserPoolID == "" || cfg.Identity.IdentityPoolID == "" || cfg.Identity.AccountID == "" {
			return nil, fmt.Errorf("%w: identity mapping requires user pool, identity pool and account ids", shared.ErrInvalidConfig)
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		// Cognito native flows are unsigned; no caller credentials needed.
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	a.cfg = cfg
	a.provider = cognitoidentityprovider.NewFromConfig(awsCfg)
	if cfg.Identity != nil {
		a.identity = cognitoidentity.NewFromConfig(awsCfg)
	}

	state := cognitoState{}
	if cfg.CachePath != "" {
		cache, err := OpenSessionCache(cfg.CachePath)
		if err != nil {
			a.logger.Warnf("session cache unavailable, continuing without persistence: %v", err)
		} else {
			a.cache = cache
			if saved, err := cache.Load(); err != nil {
				a.logger.Warnf("failed to read cached session: %v", err)
			} else if saved != nil {
				state.tokens = &TokenSet{Refresh: saved.RefreshToken}
				a.logger.Debugf("restored cached session for %s", saved.Username)
			}
		}
	}

	return state, nil
}

// Execute runs one request against Cognito. Every outcome, including failure,
// comes back as an event for the controller to fold.
func (a *CognitoAdapter) Execute(ctx context.Context, req Request, state ClientState) Event {
	cs := stateOf(state)

	switch req := req.(type) {
	case LoginRequest:
		if err := a.limiter.Wait(ctx); err != nil {
			return SignInRejected{Reason: err.Error()}
		}
		out, err := a.provider.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
			AuthFlow: types.AuthFlowTypeUserPasswordAuth,
			ClientId: aws.String(a.cfg.ClientID),
			AuthParameters: map[string]string{
				"USERNAME": req.Username,
				"PASSWORD": req.Password,
			},
		})
		if err != nil {
			a.logger.Warnf("sign-in rejected for %s: %v", req.Username, err)
			return SignInRejected{Reason: err.Error()}
		}
		if out.ChallengeName == types.ChallengeNameTypeNewPasswordRequired {
			return ChallengeRaised{
				Kind:     ChallengeNewPassword,
				Session:  aws.ToString(out.Session),
				Username: req.Username,
			}
		}
		if out.ChallengeName != "" {
			return SignInRejected{Reason: fmt.Sprintf("unsupported challenge: %s", out.ChallengeName)}
		}
		return a.signedIn(ctx, out.AuthenticationResult, "")

	case RefreshRequest:
		refresh := cs.refreshToken()
		if refresh == "" {
			return RestoreFailed{Reason: shared.ErrNoSavedSession.Error()}
		}
		if err := a.limiter.Wait(ctx); err != nil {
			return RestoreFailed{Reason: err.Error()}
		}
		out, err := a.provider.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
			AuthFlow: types.AuthFlowTypeRefreshTokenAuth,
			ClientId: aws.String(a.cfg.ClientID),
			AuthParameters: map[string]string{
				"REFRESH_TOKEN": refresh,
			},
		})
		if err != nil {
			a.logger.Infof("silent restore declined: %v", err)
			return RestoreFailed{Reason: err.Error()}
		}
		// The refresh flow does not rotate the refresh token; keep the old one.
		return a.signedIn(ctx, out.AuthenticationResult, refresh)

	case NewPasswordRequest:
		if cs.challenge == nil {
			return SignInRejected{Reason: shared.ErrChallengeOutstanding.Error()}
		}
		if err := a.limiter.Wait(ctx); err != nil {
			return SignInRejected{Reason: err.Error()}
		}
		out, err := a.provider.RespondToAuthChallenge(ctx, &cognitoidentityprovider.RespondToAuthChallengeInput{
			ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
			ClientId:      aws.String(a.cfg.ClientID),
			Session:       aws.String(cs.challenge.session),
			ChallengeResponses: map[string]string{
				"USERNAME":     cs.challenge.username,
				"NEW_PASSWORD": req.Password,
			},
		})
		if err != nil {
			a.logger.Warnf("challenge response rejected: %v", err)
			return SignInRejected{Reason: err.Error()}
		}
		if out.ChallengeName == types.ChallengeNameTypeNewPasswordRequired {
			return ChallengeRaised{
				Kind:     ChallengeNewPassword,
				Session:  aws.ToString(out.Session),
				Username: cs.challenge.username,
			}
		}
		return a.signedIn(ctx, out.AuthenticationResult, "")

	case LogoutRequest:
		if access := cs.accessToken(); access != "" {
			_, err := a.provider.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
				AccessToken: aws.String(access),
			})
			if err != nil {
				// Local sign-out proceeds regardless.
				a.logger.Warnf("global sign-out failed: %v", err)
			}
		}
		a.dropCache()
		return SignedOut{}

	case ResetRequest:
		a.dropCache()
		return ResetDone{}
	}

	return nil
}

// ApplyEvent folds an adapter event into the client state. It performs no I/O.
func (a *CognitoAdapter) ApplyEvent(ev Event, state ClientState) (ClientState, Request, Status) {
	cs := stateOf(state)

	switch ev := ev.(type) {
	case SignedIn:
		tokens := ev.Tokens
		cs.tokens = &tokens
		cs.challenge = nil
		cs.creds = ev.Credentials
		subject, scopes, _ := accessClaims(tokens.Access)
		return cs, nil, LoggedIn{Subject: subject, Scopes: scopes}

	case ChallengeRaised:
		cs.challenge = &challengeContinuation{session: ev.Session, username: ev.Username}
		return cs, nil, Challenged{Kind: ev.Kind}

	case SignInRejected:
		cs.tokens = nil
		cs.creds = nil
		return cs, nil, Failed{}

	case RestoreFailed:
		cs.tokens = nil
		cs.creds = nil
		return cs, nil, LoggedOut{}

	case SignedOut, ResetDone:
		return cognitoState{}, nil, LoggedOut{}
	}

	return cs, nil, nil
}

// ReadFederatedCredentials returns the federated credentials held for the
// current session, if any.
func (a *CognitoAdapter) ReadFederatedCredentials(state ClientState) *Credentials {
	cs := stateOf(state)
	if cs.tokens == nil || cs.creds == nil {
		return nil
	}
	creds := *cs.creds
	return &creds
}

// signedIn turns an authentication result into a [SignedIn] event, persisting
// the refresh token and fetching federated credentials while we are already
// off the event loop.
func (a *CognitoAdapter) signedIn(ctx context.Context, result *types.AuthenticationResultType, fallbackRefresh string) Event {
	if result == nil {
		return SignInRejected{Reason: "provider returned no credentials"}
	}

	tokens := TokenSet{
		ID:        aws.ToString(result.IdToken),
		Access:    aws.ToString(result.AccessToken),
		Refresh:   aws.ToString(result.RefreshToken),
		ExpiresAt: time.Now().Add(time.Duration(result.ExpiresIn) * time.Second),
	}
	if tokens.Refresh == "" {
		tokens.Refresh = fallbackRefresh
	}

	if a.cache != nil && tokens.Refresh != "" {
		_, _, username := accessClaims(tokens.Access)
		if err := a.cache.Store(username, tokens.Refresh); err != nil {
			a.logger.Warnf("failed to persist session: %v", err)
		}
	}

	ev := SignedIn{Tokens: tokens}
	if a.identity != nil {
		ev.Credentials = a.fetchFederated(ctx, tokens.ID)
	}
	return ev
}

// fetchFederated exchanges an id token for identity-pool credentials. Failures
// only cost the display decoration, so they are logged and swallowed.
func (a *CognitoAdapter) fetchFederated(ctx context.Context, idToken string) *Credentials {
	mapping := a.cfg.Identity
	logins := map[string]string{
		fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", a.cfg.Region, mapping.UserPoolID): idToken,
	}

	id, err := a.identity.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(mapping.IdentityPoolID),
		AccountId:      aws.String(mapping.AccountID),
		Logins:         logins,
	})
	if err != nil {
		a.logger.Warnf("failed to resolve federated identity: %v", err)
		return nil
	}

	out, err := a.identity.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: id.IdentityId,
		Logins:     logins,
	})
	if err != nil || out.Credentials == nil {
		a.logger.Warnf("failed to fetch federated credentials: %v", err)
		return nil
	}

	creds := Credentials{
		AccessKeyID:  aws.ToString(out.Credentials.AccessKeyId),
		SecretKey:    aws.ToString(out.Credentials.SecretKey),
		SessionToken: aws.ToString(out.Credentials.SessionToken),
	}
	if out.Credentials.Expiration != nil {
		creds.Expiration = *out.Credentials.Expiration
	}
	return &creds
}

func (a *CognitoAdapter) dropCache() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Clear(); err != nil {
		a.logger.Warnf("failed to clear session cache: %v", err)
	}
}

func stateOf(s ClientState) cognitoState {
	if cs, ok := s.(cognitoState); ok {
		return cs
	}
	return cognitoState{}
}

func (s cognitoState) refreshToken() string {
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Refresh
}

func (s cognitoState) accessToken() string {
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Access
}

// accessClaims extracts display claims from an access token without verifying
// it; the provider already verified the token before issuing it to us.
func accessClaims(token string) (subject string, scopes []string, username string) {
	if token == "" {
		return "", nil, ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", nil, ""
	}

	subject, _ = claims.GetSubject()
	if scope, ok := claims["scope"].(string); ok {
		scopes = strings.Fields(scope)
	}
	if name, ok := claims["username"].(string); ok {
		username = name
	}
	return subject, scopes, username
}
