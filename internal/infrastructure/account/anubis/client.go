package anubis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	basecache "github.com/riskibarqy/tournament-votes/internal/platform/cache"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
	"github.com/riskibarqy/tournament-votes/internal/platform/resilience"
	"github.com/riskibarqy/tournament-votes/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const defaultPrincipalCacheTTL = 30 * time.Second

var errAnubisTransient = crerr.New("anubis transient failure")

type BreakerConfig = resilience.BreakerConfig

// Client verifies bearer tokens against the account service introspection
// endpoint and turns the result into a voter principal.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	logger        *logging.Logger
	breaker       *resilience.Breaker
	principals    *basecache.Store
}

type Option func(*Client)

// WithPrincipalCacheTTL changes how long a verified token is trusted without
// another introspection call. Zero or negative disables caching.
func WithPrincipalCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.principals = nil
			return
		}
		c.principals = basecache.NewStore(ttl)
	}
}

func NewClient(
	httpClient    *http.Client,
	baseURL, introspectPath, adminKey string,
	breakerCfg BreakerConfig,
	logger        *logging.Logger,
	opts ...Option,
) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	// Only transport failures and 5xx/429 count against the account service.
	breakerCfg.Trips = isCircuitFailure
	c := &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		adminKey:      strings.TrimSpace(adminKey),
		logger:        logger,
		breaker:       resilience.NewBreaker(breakerCfg),
		principals:    basecache.NewStore(defaultPrincipalCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	if c.principals == nil {
		return c.introspect(ctx, token)
	}
	return basecache.Load(ctx, c.principals, "principal:"+hashToken(token), func(ctx context.Context) (user.Principal, error) {
		return c.introspect(ctx, token)
	})
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	var principal user.Principal
	err := c.breaker.Do(func() error {
		var callErr error
		principal, callErr = c.doIntrospect(ctx, token)
		return callErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State().String())
		return user.Principal{}, fmt.Errorf("%w: account service is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return principal, err
}

func (c *Client) doIntrospect(ctx context.Context, token string) (user.Principal, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(introspectRequest{Token: token}); err != nil {
		return user.Principal{}, crerr.Wrap(err, "encode introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(buf.B))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, crerr.Wrapf(errAnubisTransient, "send introspect request: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, crerr.Wrapf(errAnubisTransient, "read introspect response: %v", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		c.logger.ErrorContext(ctx, "anubis rejected admin key", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: account service rejected credentials", usecase.ErrDependencyUnavailable)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, crerr.Wrapf(errAnubisTransient, "introspect status=%d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, crerr.Newf("anubis introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := jsoniter.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "decode introspect response")
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return decoded.principal()
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active    bool     `json:"active"`
	UserID    string   `json:"user_id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Roles     []string `json:"roles"`
	Provider  string   `json:"provider"`
	Subject   string   `json:"provider_subject"`
	Login     string   `json:"login"`
	StudentID string   `json:"student_id"`
}

// principal normalizes the provider claims. Tokens without a provider tag
// carry only the account id and email.
func (r introspectResponse) principal() (user.Principal, error) {
	if strings.TrimSpace(r.Provider) == "" {
		p := user.NewPrincipal(r.UserID, nil, r.Roles)
		p.Email = strings.ToLower(strings.TrimSpace(r.Email))
		p.Name = strings.TrimSpace(r.Name)
		return p, nil
	}

	identity, err := user.ParseIdentity(user.IdentityClaims{
		Provider:  r.Provider,
		Subject:   r.Subject,
		Login:     r.Login,
		StudentID: r.StudentID,
		Email:     r.Email,
		Name:      r.Name,
	})
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	return user.NewPrincipal(r.UserID, identity, r.Roles), nil
}
