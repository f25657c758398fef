package security

import (
	"errors"
	"net/http"
	"net/url"
	"quest/src/errs"
	"quest/src/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const TokenKey = "token"

func ValidateToken(tokenStr string) (*AccessToken, error) {
	if len(tokenStr) == 0 {
		return nil, errs.UserError("Authorization header is required", http.StatusForbidden)
	}

	tokenStr, found := strings.CutPrefix(tokenStr, "Bearer ")
	if !found {
		return nil, errs.UserError("Invalid authorization header format. It must begin with 'Bearer'", http.StatusForbidden)
	}

	token, err := DecodeAccessToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.UserError("Access token is expired! Please log in again.", http.StatusForbidden)
		} else if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, errs.UserError("Access token has an invalid signature! Please log in again.", http.StatusForbidden)
		}
		return nil, errs.UserError(err.Error(), http.StatusForbidden)
	}

	return token, nil
}

// header wins over the session cookie set by the admin login form
func RequestToken(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		return header
	}
	if cookie, err := c.Cookie(utils.Config.Admin.CookieName); err == nil && cookie != "" {
		return "Bearer " + cookie
	}
	return ""
}

// WantsHTML reports whether the client prefers an HTML page over JSON
func WantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEHTML
}

// LoginURL builds the admin login path that brings the user back to next afterwards.
func LoginURL(next string) string {
	login := utils.AdminPath("/login/")
	if next == "" {
		return login
	}
	return login + "?" + url.Values{"next": {next}}.Encode()
}

// AdminViewMiddleware lets only authenticated admins through. Browsers without
// a valid session are sent to the login form, API clients get a 403.
func AdminViewMiddleware(c *gin.Context) {
	token, err := ValidateToken(RequestToken(c))
	if err != nil {
		if WantsHTML(c) {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Error(err)
		c.Abort()
		return
	}

	if !token.IsAdmin {
		c.Error(errs.NoAccess)
		c.Abort()
		return
	}

	c.Set(TokenKey, token)
	c.Next()
}

func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func getClientId(c *gin.Context) string {
	clientID := c.RemoteIP()

	// prefer the token subject so admins behind one NAT don't share a bucket
	token, err := ValidateToken(RequestToken(c))
	if err == nil {
		clientID = token.Subject
	}

	return clientID
}

func RateLimitMiddleware(maxRequests int64, resetAfter time.Duration) gin.HandlerFunc {
	logger := zap.L()
	logger.Info("Creating a rate limit middleware",
		zap.Int64("max_requests", maxRequests),
		zap.Duration("reset_after", resetAfter),
	)

	return func(c *gin.Context) {
		if utils.Config.DisableRateLimits {
			c.Next()
			return
		}

		clientID := getClientId(c)

		count, err := utils.IncrementRateLimit(c.Request.Context(), clientID, resetAfter)
		if err != nil {
			logger.Error("Failed to increment rate limit for client",
				zap.String("client_id", clientID),
				zap.Error(err),
			)
		}

		if count > maxRequests {
			c.Error(errs.TooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}

func PathRateLimitMiddleware(maxRequests int64, resetAfter time.Duration) gin.HandlerFunc {
	logger := zap.L()

	return func(c *gin.Context) {
		if utils.Config.DisableRateLimits {
			c.Next()
			return
		}

		clientID := getClientId(c)
		path := c.Request.URL.Path

		count, err := utils.IncrementPathRateLimit(c.Request.Context(), path, clientID, resetAfter)
		if err != nil {
			logger.Error("Failed to increment path rate limit for client",
				zap.String("path", path),
				zap.String("client_id", clientID),
				zap.Error(err),
			)
		}

		if count > maxRequests {
			c.Error(errs.TooManyPathRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}

// middleware that automatically responds with appropriate error if maintenance is toggled in config
func MaintenanceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.Config.Maintenance {
			_, _ = c.GetRawData()

			c.Error(errs.Maintenance)
			c.Abort()
			return
		}

		c.Next()
	}
}
