package oauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GoogleClient handles the Google OAuth 2.0 authorization-code flow.
type GoogleClient struct {
	clientID     string
	clientSecret string
	redirectURI  string

	authEndpoint     string
	tokenEndpoint    string
	userinfoEndpoint string

	httpClient *http.Client
}

// NewGoogleClient creates a new Google OAuth client.
func NewGoogleClient(clientID, clientSecret, redirectURI string) *GoogleClient {
	return &GoogleClient{
		clientID:         clientID,
		clientSecret:     clientSecret,
		redirectURI:      redirectURI,
		authEndpoint:     "https://accounts.google.com/o/oauth2/v2/auth",
		tokenEndpoint:    "https://oauth2.googleapis.com/token",
		userinfoEndpoint: "https://www.googleapis.com/oauth2/v3/userinfo",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithEndpoints overrides the Google endpoints. Used in tests.
func (c *GoogleClient) WithEndpoints(auth, token, userinfo string) *GoogleClient {
	c.authEndpoint = auth
	c.tokenEndpoint = token
	c.userinfoEndpoint = userinfo
	return c
}

// IsConfigured returns true if Google OAuth credentials are set.
func (c *GoogleClient) IsConfigured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// GeneratePKCE generates a code_verifier and code_challenge for PKCE.
func GeneratePKCE() (verifier, challenge string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	verifier = base64.RawURLEncoding.EncodeToString(b)

	// challenge = base64url(sha256(verifier))
	h := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(h[:])

	return verifier, challenge, nil
}

// AuthURL returns the Google OAuth authorization URL.
func (c *GoogleClient) AuthURL(state, codeChallenge string) string {
	params := url.Values{
		"client_id":             {c.clientID},
		"redirect_uri":          {c.redirectURI},
		"response_type":         {"code"},
		"scope":                 {"openid email profile"},
		"state":                 {state},
		"code_challenge":        {codeChallenge},
		"code_challenge_method": {"S256"},
	}
	return c.authEndpoint + "?" + params.Encode()
}

// TokenResponse from Google's token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// ExchangeCode exchanges the authorization code for tokens.
func (c *GoogleClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (*TokenResponse, error) {
	data := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"code":          {code},
		"code_verifier": {codeVerifier},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {c.redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.tokenEndpoint,
		strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed: %s", string(body))
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	return &token, nil
}

// UserInfo from Google's userinfo endpoint.
type UserInfo struct {
	Sub           string `json:"sub"`            // Unique Google user ID
	Email         string `json:"email"`          // User's email
	EmailVerified bool   `json:"email_verified"` // Whether email is verified
	Name          string `json:"name"`           // Full display name
	GivenName     string `json:"given_name"`     // First name
	FamilyName    string `json:"family_name"`    // Last name
	Picture       string `json:"picture"`        // Profile picture URL
}

// GetUserInfo fetches the user's profile from Google.
func (c *GoogleClient) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.userinfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %s", string(body))
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo: %w", err)
	}

	if info.Sub == "" {
		return nil, errors.New("invalid userinfo: missing sub")
	}

	return &info, nil
}
