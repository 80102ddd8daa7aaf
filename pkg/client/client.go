package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoppro/shoppro/pkg/domain"
	"github.com/shoppro/shoppro/pkg/session"
)

// DefaultTimeout bounds every request, including token refreshes.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// Client is the storefront API client. Every request goes through one
// middleware chain: refresh-and-retry, then credentials, then logging, then
// the HTTP transport.
type Client struct {
	baseURL          string
	store            SessionStore
	httpClient       *http.Client
	log              zerolog.Logger
	onSessionExpired func()
	doer             Doer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the transport timeout on the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithSessionExpired sets the callback run after a failed token refresh
// cleared the session. Applications use it to navigate to sign-in.
func WithSessionExpired(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// New creates a new API client. A nil store gets an in-memory session.
func New(baseURL string, store SessionStore, opts ...Option) *Client {
	if store == nil {
		store = session.NewMemoryStore()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.doer = Chain(c.httpClient,
		WithRefresh(RefreshConfig{
			Store:            c.store,
			Refresher:        RefresherFunc(c.Refresh),
			OnSessionExpired: c.onSessionExpired,
			Logger:           c.log,
		}),
		WithCredentials(c.store),
		WithLogging(c.log),
	)
	return c
}

// Session returns the store the client reads credentials from.
func (c *Client) Session() SessionStore {
	return c.store
}

// --- Auth ---

// Register creates an account in the selected store and returns its tokens.
func (c *Client) Register(ctx context.Context, email, password string) (*domain.AuthTokens, error) {
	var tokens domain.AuthTokens
	if err := c.post(ctx, "/auth/register", domain.Credentials{Email: email, Password: password}, &tokens); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &tokens, nil
}

// Login authenticates against the selected store and returns its tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthTokens, error) {
	var tokens domain.AuthTokens
	if err := c.post(ctx, "/auth/login", domain.Credentials{Email: email, Password: password}, &tokens); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tokens, nil
}

// Logout revokes the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for new tokens. It bypasses the
// middleware chain: the body is the raw token as text/plain and no
// credentials are attached.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.AuthTokens, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", strings.NewReader(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("client.Refresh: create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	var tokens domain.AuthTokens
	if err := c.send(c.httpClient, req, &tokens); err != nil {
		return nil, fmt.Errorf("client.Refresh: %w", err)
	}
	return &tokens, nil
}

// --- Tenants ---

// ListTenants returns every store.
func (c *Client) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := c.get(ctx, "/tenants/getAll", &tenants); err != nil {
		return nil, fmt.Errorf("client.ListTenants: %w", err)
	}
	return tenants, nil
}

// CreateTenant creates a store. The server derives the slug from the name.
func (c *Client) CreateTenant(ctx context.Context, name string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := c.post(ctx, "/tenants/create", map[string]string{"name": name}, &tenant); err != nil {
		return nil, fmt.Errorf("client.CreateTenant: %w", err)
	}
	return &tenant, nil
}

// --- Products ---

// ListProducts fetches one page of products matching f.
func (c *Client) ListProducts(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	var page domain.ProductPage
	if err := c.get(ctx, "/products?"+productQuery(f).Encode(), &page); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return &page, nil
}

// CreateProduct adds a product to the selected store's catalog.
func (c *Client) CreateProduct(ctx context.Context, p domain.CreateProductRequest) (*domain.Product, error) {
	var created domain.Product
	if err := c.post(ctx, "/products", p, &created); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &created, nil
}

func productQuery(f domain.ProductFilter) url.Values {
	params := url.Values{}
	if f.SKU != "" {
		params.Set("sku", f.SKU)
	}
	if f.Name != "" {
		params.Set("name", f.Name)
	}
	if f.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.InStock {
		params.Set("inStock", "true")
	}
	if f.SortBy != "" {
		params.Set("sortBy", string(f.SortBy))
	}
	if f.Direction != "" {
		params.Set("direction", string(f.Direction))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	params.Set("offset", strconv.Itoa(f.Offset))
	return params
}

// --- Cart ---

// GetCart returns the caller's active cart.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.get(ctx, "/cart", &cart); err != nil {
		return nil, fmt.Errorf("client.GetCart: %w", err)
	}
	return &cart, nil
}

// AddToCart adds quantity units of sku to the cart and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, sku string, quantity int) (*domain.Cart, error) {
	params := url.Values{}
	params.Set("sku", sku)
	params.Set("quantity", strconv.Itoa(quantity))

	var cart domain.Cart
	if err := c.post(ctx, "/cart/add?"+params.Encode(), nil, &cart); err != nil {
		return nil, fmt.Errorf("client.AddToCart: %w", err)
	}
	return &cart, nil
}

// --- Orders ---

// PlaceOrder turns the active cart into an order. The server deduplicates
// submissions that share idempotencyKey.
func (c *Client) PlaceOrder(ctx context.Context, idempotencyKey string) (*domain.Order, error) {
	if idempotencyKey == "" {
		return nil, errors.New("client.PlaceOrder: idempotency key is required")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("client.PlaceOrder: %w", err)
	}
	req.Header.Set(HeaderIdempotencyKey, idempotencyKey)

	var order domain.Order
	if err := c.send(c.doer, req, &order); err != nil {
		return nil, fmt.Errorf("client.PlaceOrder: %w", err)
	}
	return &order, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.send(c.doer, req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) send(d Doer, req *http.Request, out any) error {
	resp, err := d.Do(req)
	if err != nil {
		var transportErr *TransportError
		if errors.Is(err, ErrSessionExpired) || errors.As(err, &transportErr) {
			return err
		}
		return &TransportError{Op: "do request", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return newHTTPError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
