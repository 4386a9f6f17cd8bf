// Package auth 單一帳號登入：bcrypt 驗證密碼並簽發 HS256 JWT。
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "foodsnap-api"

// Token 登入成功後回傳的憑證
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims JWT 內容，Subject 為登入 email
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator 登入驗證器
type Authenticator struct {
	email  string
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator 只有明文密碼時在啟動時先做 bcrypt
func NewAuthenticator(cfg config.AuthConfig) (*Authenticator, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		if cfg.Password == "" {
			return nil, &common.ConfigurationError{Field: "auth.password"}
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, &common.ConfigurationError{Field: "auth.password_hash", Reason: err.Error()}
	}
	if cfg.JWTSecret == "" {
		return nil, &common.ConfigurationError{Field: "auth.jwt_secret"}
	}

	return &Authenticator{
		email:  cfg.Email,
		hash:   hash,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

// Login 驗證帳號密碼，成功時簽發 token
func (a *Authenticator) Login(email, password string) (*Token, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, common.ErrEmptyCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !emailOK || passwordErr != nil {
		return nil, common.ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        common.GenerateUUID(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Validate 驗證 token 並回傳 Claims
func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, common.ErrUnauthorized.Wrap(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrUnauthorized.Wrap(errors.New("invalid token"))
	}
	return claims, nil
}
