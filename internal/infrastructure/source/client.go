package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/productfilter/backend/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "ProductFilter/1.0"

	// maxBodyBytes caps the upstream payload size; larger payloads are rejected
	maxBodyBytes = 10 << 20
)

// Config holds the settings for the upstream catalog source
type Config struct {
	URL          string
	PrimaryKey   string
	SecondaryKey string
	Timeout      time.Duration
	RateLimit    float64 // requests per second, <= 0 disables limiting
	RateBurst    int
}

// Client fetches and validates the product catalog from the upstream source
type Client struct {
	httpClient  *http.Client
	url         string
	expected    domain.Credential
	rateLimiter *rate.Limiter
	schema      *jsonschema.Schema
	maxBody     int64
	logger      *zap.Logger
}

// NewClient creates a new upstream catalog client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	schema, err := compileCatalogSchema()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url: cfg.URL,
		expected: domain.Credential{
			Primary:   cfg.PrimaryKey,
			Secondary: cfg.SecondaryKey,
		},
		rateLimiter: rate.NewLimiter(limit, burst),
		schema:      schema,
		maxBody:     maxBodyBytes,
		logger:      logger,
	}, nil
}

// Fetch retrieves the catalog once. A credential mismatch does not fail the
// call; it is reported through FetchResult.CredentialsValid.
func (c *Client) Fetch(ctx context.Context) (*domain.FetchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrFetchFailed, err)
	}

	body, err := c.get(ctx)
	if errors.Is(err, domain.ErrDecodeFailed) {
		c.logger.Error("Source payload exceeds size limit", zap.Int64("payload_limit_bytes", c.maxBody), zap.Error(err))
		return nil, err
	}
	if err != nil {
		c.logger.Error("Error fetching products from source", zap.String("url", c.url), zap.Error(err))
		return nil, err
	}

	catalog, err := DecodeCatalog(c.schema, body)
	if err != nil {
		c.logger.Error("Source payload does not match catalog schema",
			zap.Int("payload_bytes", len(body)),
			zap.String("payload_kind", payloadKind(body)),
			zap.Error(err),
		)
		c.logger.Debug("Raw source payload", zap.ByteString("body", body))
		return nil, err
	}

	valid := VerifyCredential(catalog.APIKeys, c.expected)

	if len(catalog.Products) == 0 {
		c.logger.Info("Source returned no products")
	} else {
		c.logger.Info("Retrieved products from source", zap.Int("count", len(catalog.Products)))
	}

	return &domain.FetchResult{
		Catalog:          *catalog,
		CredentialsValid: valid,
	}, nil
}

// get executes the GET request and returns the body of a successful response
func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	// one extra byte tells a payload at the limit from one over it
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrDecodeFailed, c.maxBody)
	}

	return body, nil
}
