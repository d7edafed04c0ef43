package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PrincipalKey gin context key，存放通过鉴权的主体
const PrincipalKey = "principal"

// Principal 通过鉴权的请求主体
type Principal struct {
	MerchantID string
	Role       string
	Email      string
	FullName   string
}

// PrincipalLookup 按令牌声明回查主体，令牌合法但主体已不存在时必须拒绝
type PrincipalLookup func(ctx context.Context, merchantID string) error

// Middleware 解析 Bearer 令牌并将主体写入 gin context。
// lookup 为 nil 时跳过存在性回查。
func Middleware(signer *Signer, lookup PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		claims, err := signer.Verify(parts[1])
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		if lookup != nil {
			if err := lookup(c.Request.Context(), claims.MerchantID); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
				return
			}
		}

		c.Set(PrincipalKey, Principal{
			MerchantID: claims.MerchantID,
			Role:       claims.Role,
			Email:      claims.Email,
			FullName:   claims.FullName,
		})

		c.Next()
	}
}

// PrincipalFrom 读取当前请求主体
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireRole 要求主体为指定角色
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}
		if p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": role + " access required"})
			return
		}
		c.Next()
	}
}

// RequireOwnership 要求主体拥有路径参数指向的商户资源，管理员不受限制
func RequireOwnership(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}
		if p.Role == RoleAdmin {
			c.Next()
			return
		}
		if p.MerchantID != c.Param(param) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied: You can only access your own data"})
			return
		}
		c.Next()
	}
}
