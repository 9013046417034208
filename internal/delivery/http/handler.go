package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/productfilter/backend/internal/domain"
)

const (
	serviceName    = "productfilter-backend"
	serviceVersion = "1.0.0"

	errSourceUnavailable = "product source unavailable"
	errInternal          = "An error occurred while processing your request"
)

// ProductFilterer runs the filter pipeline for one request
type ProductFilterer interface {
	GetFilteredProducts(ctx context.Context, criteria domain.FilterCriteria, highlight string) (*domain.FilteredResponse, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products ProductFilterer
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. products may be nil, in which case
// the filter endpoint reports that it is not configured.
func NewHandler(products ProductFilterer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{products: products, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// FilterProducts handles GET /products/filter
func (h *Handler) FilterProducts(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Product filtering is not configured",
		})
		return
	}

	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	highlight := queryValue(c, "highlight")

	logger := h.logger.With(zap.String("request_id", RequestIDFrom(c)))
	logger.Info("Processing filter request",
		zap.Stringp("min_price", decimalString(criteria.MinPrice)),
		zap.Stringp("max_price", decimalString(criteria.MaxPrice)),
		zap.Strings("sizes", criteria.SizeTokens),
		zap.String("size_match", string(criteria.SizeMatch)),
		zap.String("highlight", highlight),
	)

	result, err := h.products.GetFilteredProducts(c.Request.Context(), criteria, highlight)
	if err != nil {
		logger.Error("Error processing filter request", zap.Error(err))
		if errors.Is(err, domain.ErrFetchFailed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errSourceUnavailable})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseCriteria builds FilterCriteria from the query string
func parseCriteria(c *gin.Context) (domain.FilterCriteria, error) {
	var criteria domain.FilterCriteria

	minPrice, err := parseDecimal(queryValue(c, "minPrice"))
	if err != nil {
		return criteria, fmt.Errorf("invalid minPrice: %w", err)
	}
	maxPrice, err := parseDecimal(queryValue(c, "maxPrice"))
	if err != nil {
		return criteria, fmt.Errorf("invalid maxPrice: %w", err)
	}
	mode, err := domain.ParseSizeMatchMode(queryValue(c, "sizeMatch"))
	if err != nil {
		return criteria, fmt.Errorf("invalid sizeMatch: must be %q or %q", domain.SizeMatchAll, domain.SizeMatchAny)
	}

	criteria.MinPrice = minPrice
	criteria.MaxPrice = maxPrice
	criteria.SizeTokens = domain.ParseSizeTokens(queryValue(c, "size"))
	criteria.SizeMatch = mode
	return criteria, nil
}

// parseDecimal returns nil for a blank value
func parseDecimal(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a decimal number", raw)
	}
	return &d, nil
}

// queryValue looks up a query parameter ignoring the case of its name.
// An exact match wins over a case-folded one.
func queryValue(c *gin.Context, name string) string {
	if v, ok := c.GetQuery(name); ok {
		return v
	}
	for key, values := range c.Request.URL.Query() {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
