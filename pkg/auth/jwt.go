// Package auth 提供承载令牌的签发、校验与 Gin 鉴权中间件
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 角色常量
const (
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// Claims 令牌载荷，携带商户标识与角色
type Claims struct {
	MerchantID string `json:"merchantid"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	FullName   string `json:"fullname"`
	jwt.RegisteredClaims
}

// Signer 令牌签发器
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner 创建签发器，ttl 为令牌有效期
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{secret: secret, ttl: ttl}
}

// Sign 为主体签发令牌，有效期固定，过期后自然失效，无服务端吊销
func (s *Signer) Sign(merchantID, role, email, fullname string) (string, error) {
	now := time.Now()
	claims := Claims{
		MerchantID: merchantID,
		Role:       role,
		Email:      email,
		FullName:   fullname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   merchantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// 校验失败原因
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Verify 解析并校验令牌
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
