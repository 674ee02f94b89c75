package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/auth"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

// LoginPath is where unauthenticated clients are sent
const LoginPath = "/auth/login"

const principalKey = "principal"

// TokenValidator verifies access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// RevocationChecker reports logged-out tokens
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// PrincipalLoader reloads the account behind a token
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, accountID int64, tokenID string, expiresAt time.Time) (*authz.Principal, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	tokens    TokenValidator
	denylist  RevocationChecker
	principal PrincipalLoader
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokens TokenValidator, denylist RevocationChecker, principal PrincipalLoader) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:    tokens,
		denylist:  denylist,
		principal: principal,
	}
}

// Authenticate attaches the principal of a bearer token to the request.
// Requests without an Authorization header continue anonymously; a header
// that does not carry a live token is rejected.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		principal, err := m.resolve(c.Request.Context(), header)
		if err != nil {
			abortUnauthenticated(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(ctx context.Context, header string) (*authz.Principal, error) {
	tokenString, err := auth.ExtractBearerToken(header)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	claims, err := m.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := m.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		// an unreachable denylist must not lock everyone out
		logger.Warn().Err(err).Msg("Token denylist lookup failed")
	} else if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return m.principal.LoadPrincipal(ctx, claims.AccountID, claims.ID, expiresAt)
}

// RequireAuth rejects anonymous requests
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return guard(authz.RequireAuthenticated)
}

// AdminOnly allows administrators only
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return guard(authz.RequireAdmin)
}

// ClubOnly allows approved club accounts only
func (m *AuthMiddleware) ClubOnly() gin.HandlerFunc {
	return guard(authz.RequireApprovedClub)
}

// CanPost allows administrators and approved clubs
func (m *AuthMiddleware) CanPost() gin.HandlerFunc {
	return guard(authz.RequireCanPost)
}

func guard(check func(*authz.Principal) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := check(CurrentPrincipal(c)); err != nil {
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				abortUnauthenticated(c, err)
				return
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, err error) {
	code := dto.ErrorCodeUnauthorized
	message := "Authentication required"
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		code, message = dto.ErrorCodeExpiredToken, "Token has expired"
	case errors.Is(err, apperrors.ErrTokenRevoked):
		code, message = dto.ErrorCodeInvalidToken, "Token has been revoked"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		code, message = dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrUnauthenticated):
	default:
		HandleAPIError(c, err)
		c.Abort()
		return
	}

	resp := dto.NewErrorResponse(dto.NewErrorDetail(code, message)).WithRedirect(LoginPath)
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}

// CurrentPrincipal returns the principal attached by Authenticate, or nil
func CurrentPrincipal(c *gin.Context) *authz.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}

// SetPrincipal attaches p to the request
func SetPrincipal(c *gin.Context, p *authz.Principal) {
	c.Set(principalKey, p)
}
