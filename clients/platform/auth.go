package platform

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jdgroup-ug/storefront/models"
)

// AuthEventKind mirrors the platform SDK's session-change notifications.
type AuthEventKind string

const (
	SignedIn       AuthEventKind = "SIGNED_IN"
	SignedOut      AuthEventKind = "SIGNED_OUT"
	TokenRefreshed AuthEventKind = "TOKEN_REFRESHED"
	UserUpdated    AuthEventKind = "USER_UPDATED"
)

// AuthEvent is delivered to the auth state container whenever the session
// changes. The TokenRefreshed payload is advisory only: the container
// fetches the refreshed session itself rather than trusting it.
type AuthEvent struct {
	Kind    AuthEventKind
	Session *models.Session
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user"`
}

func (r *sessionResponse) toSession() *models.Session {
	s := &models.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		User:         r.User,
	}
	if r.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	} else if exp, ok := tokenExpiry(r.AccessToken); ok {
		s.ExpiresAt = exp
	}
	return s
}

// tokenExpiry reads the exp claim out of the access token. The token is
// signed by the platform; this side has no verification key and only needs
// the expiry, so the claims are decoded without verification.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new user with email and password. The platform may
// return a session immediately or require email confirmation first, in
// which case the session tokens are empty.
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	body, err := marshalBody(credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var resp sessionResponse
	if err := c.doRetry(ctx, http.MethodPost, authPath+"/signup", nil, nil, "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toSession(), nil
}

// SignInWithPassword performs the password grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	body, err := marshalBody(credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	query := url.Values{"grant_type": {"password"}}
	var resp sessionResponse
	if err := c.doRetry(ctx, http.MethodPost, authPath+"/token", query, nil, "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toSession(), nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	body, err := marshalBody(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}
	query := url.Values{"grant_type": {"refresh_token"}}
	var resp sessionResponse
	if err := c.doRetry(ctx, http.MethodPost, authPath+"/token", query, nil, "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toSession(), nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.doRetry(ctx, http.MethodPost, authPath+"/logout", nil, nil, accessToken, nil, nil)
}

// GetUser fetches the user record behind the access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	var user models.User
	if err := c.doRetry(ctx, http.MethodGet, authPath+"/user", nil, nil, accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// OAuthURL builds the third-party identity provider authorize URL. The
// redirect flow itself happens in the browser.
func (c *Client) OAuthURL(provider, redirectTo string) string {
	query := url.Values{"provider": {provider}}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	return c.baseURL + authPath + "/authorize?" + query.Encode()
}
