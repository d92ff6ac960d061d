package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/pkg/logger"
	"storefront-client/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Options configures the REST client.
type Options struct {
	BaseURL string
	// SessionToken is an optional bearer token. The cookie jar carries
	// cookie-based sessions either way.
	SessionToken string
	Timeout      time.Duration
	// Outbound rate limit. Zero RPS disables limiting.
	RPS   float64
	Burst int
}

// Client talks to the storefront backend. It implements
// domain.CartGateway and domain.FavoritesGateway.
type Client struct {
	base          *url.URL
	http          *http.Client
	limiter       *rate.Limiter
	token         string
	sessionExpiry time.Time
}

func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}

	c := &Client{
		base: base,
		http: &http.Client{
			Jar:     jar,
			Timeout: opts.Timeout,
		},
		token: opts.SessionToken,
	}

	if opts.RPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	if c.token != "" {
		exp, err := utils.SessionExpiry(c.token)
		if err != nil {
			return nil, fmt.Errorf("bad session token: %w", err)
		}
		c.sessionExpiry = exp
	}

	return c, nil
}

// errorBody is the shape servers use for non-2xx payloads. Field order
// is also the preference order for the user-facing message.
type errorBody struct {
	Message string `json:"message"`
	Title   string `json:"title"`
	Error   string `json:"error"`
}

func (b errorBody) best() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Title != "":
		return b.Title
	default:
		return b.Error
	}
}

// do performs one JSON round trip. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if !c.sessionExpiry.IsZero() && time.Now().After(c.sessionExpiry) {
		return domain.ErrSessionExpired
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(rel).String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String()[:8])
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.GatewayCall(method, path, 0, time.Since(start), err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.GatewayCall(method, path, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.normalizeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// normalizeError turns a non-2xx response into a *domain.GatewayError,
// keeping the server-provided message when one exists. Conflicts are
// distinguishable so callers can map duplicate adds to a specific
// user-facing message.
func (c *Client) normalizeError(resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &eb)

	msg := eb.best()
	ge := &domain.GatewayError{
		Status:  resp.StatusCode,
		Message: msg,
	}
	if resp.StatusCode == http.StatusConflict || strings.Contains(strings.ToLower(msg), "already exists") {
		ge.Err = domain.ErrConflict
	}
	return ge
}
