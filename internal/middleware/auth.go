package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"worksync/internal/cache"
	"worksync/internal/model"
	"worksync/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID      = "userID"
	ContextUserRole    = "userRole"
	ContextUsername    = "username"
	ContextTokenID     = "tokenID"
	ContextTokenExpiry = "tokenExpiry"

	// ExpiredHeader tells the client its session is over and it should sign out.
	ExpiredHeader = "Expired"
	APIKeyHeader  = "X-API-Key"
	CookieName    = "access_token"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is what a verified access token carries.
type Claims struct {
	UserID    uint
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// APIKeyLookup resolves an X-API-Key value to its owner.
type APIKeyLookup interface {
	GetByKey(ctx context.Context, key string) (*model.APIKey, error)
}

// Auth verifies access tokens and API keys.
type Auth struct {
	secret    []byte
	blacklist cache.TokenBlacklist
	keys      APIKeyLookup
}

func NewAuth(secret []byte, blacklist cache.TokenBlacklist, keys APIKeyLookup) *Auth {
	return &Auth{secret: secret, blacklist: blacklist, keys: keys}
}

// ParseToken validates signature, expiry and revocation.
func (a *Auth) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := mc.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	role, _ := mc["role"].(string)
	if role == "" {
		return nil, fmt.Errorf("%w: role not found in token", ErrInvalidToken)
	}
	claims := &Claims{UserID: uint(id), Role: role}
	claims.Username, _ = mc["username"].(string)
	claims.TokenID, _ = mc["jti"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.TokenID != "" && a.blacklist != nil {
		revoked, err := a.blacklist.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// CheckWebsocketToken adapts ParseToken to the websocket handshake.
func (a *Auth) CheckWebsocketToken(ctx context.Context, token string) (string, error) {
	claims, err := a.ParseToken(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// Authenticate accepts, in order, an X-API-Key header, the access_token cookie or a Bearer header.
func (a *Auth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(APIKeyHeader); key != "" && a.keys != nil {
			k, err := a.keys.GetByKey(c.Request.Context(), key)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid API key"))
				return
			}
			c.Set(ContextUserID, k.UserID)
			c.Set(ContextUserRole, k.User.Role)
			c.Set(ContextUsername, k.User.Username)
			c.Next()
			return
		}

		tokenString, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}

		claims, err := a.ParseToken(c.Request.Context(), tokenString)
		switch {
		case errors.Is(err, ErrTokenExpired):
			c.Header(ExpiredHeader, "true")
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Token expired"))
			return
		case errors.Is(err, ErrTokenRevoked):
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Token revoked"))
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextTokenID, claims.TokenID)
		c.Set(ContextTokenExpiry, claims.ExpiresAt)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	if tokenString, err := c.Cookie(CookieName); err == nil && tokenString != "" {
		return tokenString, nil
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("Authorization is missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("Invalid authorization format. Expected 'Bearer <token>'")
	}
	return parts[1], nil
}

// RequireRole checks the role set by Authenticate against allowedRoles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}
		if !slices.Contains(allowedRoles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}
		c.Next()
	}
}

// SetTokenCookie stores the access token as an HttpOnly cookie
func SetTokenCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	// cross-origin front ends need SameSite=None, which browsers only accept with Secure
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearTokenCookies removes the access_token cookie
func ClearTokenCookies(c *gin.Context, secure bool) {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
