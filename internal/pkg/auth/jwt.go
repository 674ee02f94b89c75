package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
)

// ErrInvalidFormat is returned for a malformed Authorization header
var ErrInvalidFormat = errors.New("invalid token format")

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	TokenIssuer    string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Claims defines JWT token content
type Claims struct {
	AccountID   int64              `json:"accountId"`
	AccountType models.AccountType `json:"accountType"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed access token with its identifier
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// GenerateAccessToken signs an access token for the account
func (s *JWTService) GenerateAccessToken(account *models.Account) (*IssuedToken, error) {
	if account == nil || account.ID <= 0 {
		return nil, apperrors.ErrTokenInvalid
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenExp)
	jti := uuid.New().String()

	claims := &Claims{
		AccountID:   account.ID,
		AccountType: account.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   strconv.FormatInt(account.ID, 10),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &IssuedToken{Token: signed, ID: jti, ExpiresAt: expiresAt}, nil
}

// ValidateToken validates a token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.TokenIssuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID <= 0 || claims.ID == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header. The
// scheme is matched on the raw header so a bare scheme is rejected.
func ExtractBearerToken(authHeader string) (string, error) {
	header := strings.TrimLeft(authHeader, " \t")
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		header = rest
	} else if strings.TrimSpace(header) == "Bearer" {
		return "", ErrInvalidFormat
	}

	token := strings.TrimSpace(header)
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}
