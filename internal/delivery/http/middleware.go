package http

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/productfilter/backend/config"
)

const (
	// RequestIDHeader carries the request ID in and out of the service
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// CORSPolicy describes which browser origins may call the API and how
type CORSPolicy struct {
	// Origins are exact origins or prefixes ending in "*", e.g. http://localhost:*
	Origins []string
	Methods []string
	Headers []string
	MaxAge  time.Duration
}

// CORSPolicyFrom builds the policy from server configuration
func CORSPolicyFrom(cfg config.ServerConfig) CORSPolicy {
	return CORSPolicy{
		Origins: cfg.AllowedOrigins,
		Methods: cfg.AllowedMethods,
		Headers: cfg.AllowedHeaders,
		MaxAge:  time.Duration(cfg.CORSMaxAge) * time.Second,
	}
}

// allows reports whether origin matches an exact entry or a wildcard prefix
func (p CORSPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range p.Origins {
		if prefix, ok := strings.CutSuffix(allowed, "*"); ok {
			if strings.HasPrefix(origin, prefix) {
				return true
			}
			continue
		}
		if origin == allowed {
			return true
		}
	}
	return false
}

// CORSMiddleware answers allowed origins with the policy's CORS headers and
// short-circuits every preflight with 204
func CORSMiddleware(policy CORSPolicy) gin.HandlerFunc {
	methods := strings.Join(policy.Methods, ", ")
	allowHeaders := append([]string{}, policy.Headers...)
	if !slices.Contains(allowHeaders, RequestIDHeader) {
		allowHeaders = append(allowHeaders, RequestIDHeader)
	}
	headers := strings.Join(allowHeaders, ", ")
	maxAge := strconv.Itoa(int(policy.MaxAge.Seconds()))

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); policy.allows(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			if policy.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware propagates X-Request-ID, generating one when absent
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the request ID stored by RequestIDMiddleware
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// LoggerMiddleware logs one structured line per request
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("Request completed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request completed", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// RecoveryMiddleware recovers from panics and answers with a generic 500
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Recovered from panic",
			zap.String("request_id", RequestIDFrom(c)),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternal})
	})
}
