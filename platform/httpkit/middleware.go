// Package httpkit provides HTTP infrastructure: the outbound backend API client
// and the inbound gin middleware.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"kitportal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextTokenKey is the gin context key for the raw bearer token.
	ContextTokenKey = "token"
	// ContextSubjectKey is the gin context key for the token subject.
	ContextSubjectKey = "subject"

	errMissingToken = "missing token"
	errInvalidToken = "invalid token"
	errExpiredToken = "token expired"
)

// RequestID assigns a request id and stores it on the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		log.HTTPRequest(c.Request.Method, path, c.Writer.Status(), float64(latency.Milliseconds()), c.ClientIP())
	}
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// AuthRequired extracts the bearer token and decodes its subject and expiry.
// The signature is not verified here: the token is only forwarded, and the
// backend services that issued it remain authoritative.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, errMissingToken)
			return
		}

		subject, err := DecodeSubject(rawToken, time.Now())
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(ContextTokenKey, rawToken)
		c.Set(ContextSubjectKey, subject)
		ctx := context.WithValue(c.Request.Context(), logger.SubjectKey, subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// DecodeSubject reads the sub claim of an unverified JWT and rejects tokens
// whose exp claim is before now.
func DecodeSubject(rawToken string, now time.Time) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return "", errors.New(errInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return "", errors.New(errInvalidToken)
	}
	if exp != nil && exp.Before(now) {
		return "", errors.New(errExpiredToken)
	}

	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return "", errors.New(errInvalidToken)
	}
	return subject, nil
}

// Token returns the bearer token stored by AuthRequired.
func Token(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}

// Subject returns the token subject stored by AuthRequired.
func Subject(c *gin.Context) string {
	return c.GetString(ContextSubjectKey)
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}
