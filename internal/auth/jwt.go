package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/norvik-group/facility-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the JWT claim set carried by bearer tokens
type Claims struct {
	UserID      uint   `json:"uid"`
	RoleID      uint   `json:"rid"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// JWTValidator validates and issues HMAC-signed bearer tokens
type JWTValidator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTLDuration(),
	}
}

// ValidateToken validates a token string and returns the user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user id claim", ErrInvalidToken)
	}

	return &UserContext{
		UserID:      claims.UserID,
		RoleID:      claims.RoleID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}

// IssueToken creates a signed token for the given user context
func (v *JWTValidator) IssueToken(uc *UserContext) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      uc.UserID,
		RoleID:      uc.RoleID,
		Email:       uc.Email,
		DisplayName: uc.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   fmt.Sprintf("%d", uc.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
