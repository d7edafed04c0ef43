package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/identity/application"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
)

// IdentityHandler 身份相关 HTTP 接口
type IdentityHandler struct {
	service *application.IdentityService
}

// NewIdentityHandler 创建身份接口处理器
func NewIdentityHandler(service *application.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// RegisterRoutes 注册路由，authMW 为鉴权中间件
func (h *IdentityHandler) RegisterRoutes(api *gin.RouterGroup, authMW gin.HandlerFunc) {
	user := api.Group("/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/login", h.Login)
		user.GET("/profile", authMW, h.GetProfile)
		user.PUT("/profile", authMW, h.UpdateProfile)
	}
}

// Signup 商户注册
func (h *IdentityHandler) Signup(c *gin.Context) {
	var req struct {
		FullName string `json:"fullname" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phonenumber" binding:"required"`
		Location string `json:"location"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Register(c.Request.Context(), application.RegisterCommand{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
		"user":    result.Merchant,
	})
}

// Login 商户登录。按照老接口约定，用户不存在与密码错误都返回 400。
func (h *IdentityHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Phone    string `json:"phonenumber"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Phone
	}
	result, err := h.service.Login(c.Request.Context(), application.LoginCommand{
		EmailOrPhone: identifier,
		Password:     req.Password,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrUnauthorized) {
			c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MessageOf(err)})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.Merchant,
	})
}

// GetProfile 查询当前登录商户的资料
func (h *IdentityHandler) GetProfile(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), principal.MerchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile 更新当前登录商户的联系资料
func (h *IdentityHandler) UpdateProfile(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}

	var req struct {
		FullName string `json:"fullname"`
		Phone    string `json:"phonenumber"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), application.UpdateProfileCommand{
		MerchantID: principal.MerchantID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Location:   req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    profile,
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
}
