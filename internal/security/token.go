package security

import (
	"errors"
	"strconv"
	"time"

	"rentshare-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

const issuer = "identity-service"

// UserClaims is what the identity service signs. MayTransact is set once
// the user has cleared KYC.
type UserClaims struct {
	UserID      int32     `json:"user_id"`
	Type        TokenType `json:"type"`
	MayTransact bool      `json:"may_transact"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the domain's view of the caller.
func (c *UserClaims) Identity() domain.Identity {
	return domain.Identity{UserID: c.UserID, MayTransact: c.MayTransact}
}

type TokenManager interface {
	GenerateAccessToken(userID int32, mayTransact bool) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiry time.Duration) TokenManager {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &tokenManager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// GenerateAccessToken is used by tests and local tooling; production tokens
// come from the identity service sharing the secret.
func (m *tokenManager) GenerateAccessToken(userID int32, mayTransact bool) (string, error) {
	claims := UserClaims{
		UserID:      userID,
		Type:        TokenTypeAccess,
		MayTransact: mayTransact,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == 0 && claims.Subject != "" {
		uid, _ := strconv.Atoi(claims.Subject)
		claims.UserID = int32(uid)
	}
	if claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Simple unique ID generator
func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
