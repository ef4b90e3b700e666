// Package auth implements the SoundCloud OAuth2 authorization-code flow with
// PKCE. The relay holds the verifier server-side, keyed by the state token,
// so the browser only ever round-trips the opaque state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/justestif/go-soundmood/internal/config"
	"github.com/justestif/go-soundmood/internal/pkce"
	"github.com/justestif/go-soundmood/internal/soundcloud"
)

const (
	// ScopeNonExpiring asks SoundCloud for a token that doesn't expire.
	ScopeNonExpiring = "non-expiring"

	exchangeTimeout = 15 * time.Second
	profileTimeout  = 10 * time.Second
)

// ErrStateNotFound is returned when the callback state has no pending
// challenge: unknown, expired, or already consumed. The client must restart
// the authorization flow; retrying with the same state can never succeed.
var ErrStateNotFound = errors.New("state already used or expired")

// ExchangeError is a token-exchange failure with a stable user-facing message
// and the upstream detail kept separately for logs and diagnostics.
type ExchangeError struct {
	Message string // user-facing
	Code    string // upstream OAuth error code, if any
	Detail  string // upstream description
}

func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s: %s)", e.Message, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Detail)
}

// ProfileFetcher fetches the authenticated user's profile. Satisfied by
// *soundcloud.Client; tests substitute a stub.
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*soundcloud.User, error)
}

// TokenResult is the combined outcome of a successful exchange.
type TokenResult struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token,omitempty"`
	ExpiresIn    int64            `json:"expires_in,omitempty"`
	User         *soundcloud.User `json:"user"`
}

// Authenticator builds authorization URLs and exchanges callback codes for
// tokens. The challenge store is injected so it can be shared or swapped
// without touching call sites.
type Authenticator struct {
	oauth    *oauth2.Config
	store    *pkce.Store
	profiles ProfileFetcher
	now      func() time.Time
}

// New creates an Authenticator from validated configuration.
func New(cfg *config.Config, store *pkce.Store, profiles ProfileFetcher) *Authenticator {
	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{ScopeNonExpiring},
			Endpoint: oauth2.Endpoint{
				AuthURL:  soundcloud.AuthBaseURL,
				TokenURL: soundcloud.TokenURL,
			},
		},
		store:    store,
		profiles: profiles,
		now:      time.Now,
	}
}

// SetTokenURL overrides the token endpoint. Tests point it at a local server.
func (a *Authenticator) SetTokenURL(u string) {
	a.oauth.Endpoint.TokenURL = u
}

// AuthURL generates a fresh PKCE pair, registers it under a new state token,
// and returns the SoundCloud authorization URL plus the state the client must
// round-trip on callback. Expired challenges are evicted opportunistically.
func (a *Authenticator) AuthURL() (authURL, state string, err error) {
	verifier, err := pkce.NewVerifier()
	if err != nil {
		return "", "", err
	}
	challenge := pkce.DeriveChallenge(verifier)
	state = pkce.NewState()

	a.store.Put(state, verifier, challenge)
	a.store.EvictExpired(a.now())

	authURL = a.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	return authURL, state, nil
}

// Exchange consumes the pending challenge for state, trades the authorization
// code (plus verifier) for tokens, and fetches the user profile with the new
// access token. The challenge is consumed before the upstream call, so a
// failed exchange still burns the state: callers restart the flow rather than
// retry the same code/state pair.
func (a *Authenticator) Exchange(ctx context.Context, code, state string) (*TokenResult, error) {
	challenge, ok := a.store.Consume(state)
	if !ok {
		return nil, ErrStateNotFound
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := a.oauth.Exchange(exchangeCtx, code, oauth2.VerifierOption(challenge.Verifier))
	if err != nil {
		return nil, mapExchangeError(err)
	}

	profileCtx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	user, err := a.profiles.Me(profileCtx, token.AccessToken)
	if err != nil {
		return nil, &ExchangeError{
			Message: "Failed to fetch user profile",
			Detail:  err.Error(),
		}
	}

	return &TokenResult{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    expiresIn(token, a.now()),
		User:         user,
	}, nil
}

// expiresIn normalizes token expiry to seconds-from-now. Non-expiring tokens
// report zero.
func expiresIn(token *oauth2.Token, now time.Time) int64 {
	if token.ExpiresIn > 0 {
		return token.ExpiresIn
	}
	if token.Expiry.IsZero() {
		return 0
	}
	return int64(token.Expiry.Sub(now).Seconds())
}

// mapExchangeError translates upstream token-endpoint failures into stable
// user-facing messages, keeping the raw OAuth error code in the details.
func mapExchangeError(err error) *ExchangeError {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		switch retrieve.ErrorCode {
		case "invalid_grant":
			return &ExchangeError{
				Message: "Authorization code expired. Please try again.",
				Code:    retrieve.ErrorCode,
				Detail:  retrieve.ErrorDescription,
			}
		case "invalid_client":
			return &ExchangeError{
				Message: "Invalid client credentials",
				Code:    retrieve.ErrorCode,
				Detail:  retrieve.ErrorDescription,
			}
		default:
			return &ExchangeError{
				Message: "Token exchange failed",
				Code:    retrieve.ErrorCode,
				Detail:  retrieve.ErrorDescription,
			}
		}
	}
	return &ExchangeError{
		Message: "Token exchange failed",
		Detail:  err.Error(),
	}
}
