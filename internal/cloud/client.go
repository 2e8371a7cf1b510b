package cloud

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // vendor protocol hashes the password with MD5
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nerrad567/topband-bridge/internal/infrastructure/config"
)

// Vendor API paths, relative to the user and device base URLs.
const (
	pathLogin      = "/tsmart-user-api/appLogin/v2/login"
	pathRefresh    = "/tsmart-user-api/appLogin/v2/refreshAccessToken"
	pathSelfInfo   = "/tsmart-user-api/account/v2/getSelfInfo"
	pathFamilyList = "/tsmart-user-api/family/list"
	pathDeviceList = "/tsmart-device-api/family/v2/device/list"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// TokenPair is the vendor JWT pair.
type TokenPair struct {
	Token        string
	RefreshToken string
}

// TokenStore persists the token pair across restarts.
type TokenStore interface {
	Load(ctx context.Context) (TokenPair, error)
	Save(ctx context.Context, pair TokenPair) error
}

// apiResponse is the vendor response envelope. Data stays raw until the
// caller knows its shape.
type apiResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the Topband cloud HTTP APIs.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The token pair is
//     guarded by its own lock; HTTP calls never hold it.
type Client struct {
	cfg        config.CloudConfig
	httpClient *http.Client
	store      TokenStore
	logger     Logger

	mu     sync.RWMutex
	tokens TokenPair
}

// NewClient creates a cloud client from config.
//
// If a token store is provided, a previously saved pair is loaded so
// the first EnsureAuthenticated can skip the login round-trip. A load
// failure is logged, not fatal: login still works without it.
func NewClient(cfg config.CloudConfig, store TokenStore, logger Logger) *Client {
	if logger == nil {
		logger = noopLogger{}
	}

	transport := http.DefaultTransport
	if !cfg.ValidateSSL {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit debug opt-in via config
		}
	}

	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.Timeout) * time.Second,
			Transport: transport,
		},
		store:  store,
		logger: logger,
	}

	if store != nil {
		if pair, err := store.Load(context.Background()); err != nil {
			logger.Warn("loading stored tokens failed", "error", err)
		} else if pair.Token != "" {
			c.tokens = pair
			logger.Debug("restored token pair from store")
		}
	}

	return c
}

// Token returns the current access token. The transport uses it as the
// MQTT broker credential.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.Token
}

// Login authenticates with email and password and stores the returned
// token pair. The password is MD5-hashed before it is sent, matching
// the vendor app.
func (c *Client) Login(ctx context.Context) error {
	sum := md5.Sum([]byte(c.cfg.Password)) //nolint:gosec // vendor protocol
	body := map[string]string{
		"userName":  c.cfg.Email,
		"password":  hex.EncodeToString(sum[:]),
		"companyId": c.cfg.CompanyID,
	}

	data, err := c.do(ctx, http.MethodPost, c.cfg.UserBaseURL+pathLogin, body, "")
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := c.storeTokens(ctx, data); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.logger.Info("cloud login succeeded")
	return nil
}

// Refresh exchanges the refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.RLock()
	refresh := c.tokens.RefreshToken
	c.mu.RUnlock()
	if refresh == "" {
		return ErrNoToken
	}

	data, err := c.do(ctx, http.MethodGet, c.cfg.UserBaseURL+pathRefresh, nil, refresh)
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}

	if err := c.storeTokens(ctx, data); err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}
	c.logger.Debug("cloud token refreshed")
	return nil
}

// storeTokens decodes a token response, swaps the pair in, and persists
// it.
func (c *Client) storeTokens(ctx context.Context, data json.RawMessage) error {
	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decoding token response: %w", err)
	}
	if resp.Token == "" {
		return fmt.Errorf("%w: response carried no token", ErrAPIStatus)
	}

	pair := TokenPair{Token: resp.Token, RefreshToken: resp.RefreshToken}

	c.mu.Lock()
	c.tokens = pair
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(ctx, pair); err != nil {
			// Persistence is an optimization; the session works without it.
			c.logger.Warn("saving token pair failed", "error", err)
		}
	}
	return nil
}

// EnsureAuthenticated makes sure a usable access token is held.
//
// A missing token triggers a login. A token expiring within the
// configured refresh margin triggers a refresh, falling back to a full
// login if the refresh is rejected.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	c.mu.RLock()
	tok := c.tokens
	c.mu.RUnlock()

	if tok.Token == "" {
		return c.Login(ctx)
	}

	margin := time.Duration(c.cfg.RefreshMargin) * time.Minute
	if !expiresWithin(tok.Token, margin) {
		return nil
	}

	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("token refresh failed, attempting full login", "error", err)
		return c.Login(ctx)
	}
	return nil
}

// expiresWithin reports whether the JWT's exp claim falls inside the
// margin. The signature is not verified: the bridge consumes the token,
// it does not trust claims for authorization. A token that cannot be
// parsed is treated as expiring.
func expiresWithin(token string, margin time.Duration) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < margin
}

// SelfInfo returns the raw account profile.
func (c *Client) SelfInfo(ctx context.Context) (map[string]any, error) {
	data, err := c.authenticated(ctx, http.MethodPost, c.cfg.UserBaseURL+pathSelfInfo, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("getting self info: %w", err)
	}

	var info map[string]any
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding self info: %w", err)
	}
	return info, nil
}

// authenticated performs a call with the current access token attached.
func (c *Client) authenticated(ctx context.Context, method, url string, body any) (json.RawMessage, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	return c.do(ctx, method, url, body, token)
}

// do performs one HTTP exchange against the vendor envelope.
//
// auth, when non-empty, is sent as the "authorization" header (the
// vendor uses the raw token, no Bearer scheme). HTTP 401/403 map to
// sentinel errors; any other non-2xx is a request failure; a 2xx with a
// non-zero envelope status is an API error carrying the vendor message.
func (c *Client) do(ctx context.Context, method, url string, body any, auth string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("authorization", auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: unexpected HTTP status %d", ErrRequestFailed, resp.StatusCode)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if envelope.Status != 0 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrAPIStatus, envelope.Status, envelope.Message)
	}

	return envelope.Data, nil
}
