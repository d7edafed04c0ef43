package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/notification/application"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
)

// NotificationHandler 商户站内通知 HTTP 接口
type NotificationHandler struct {
	service *application.NotificationService
}

// NewNotificationHandler 创建通知接口处理器
func NewNotificationHandler(service *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes 注册通知路由，商户只能看到自己的通知
func (h *NotificationHandler) RegisterRoutes(api *gin.RouterGroup, authMW gin.HandlerFunc) {
	n := api.Group("/notifications", authMW)
	{
		n.GET("", h.List)
		n.PUT("/read-all", h.MarkAllRead)
		n.PUT("/:id/read", h.MarkRead)
	}
}

// List 当前商户的通知清单
func (h *NotificationHandler) List(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}
	dto, err := h.service.List(c.Request.Context(), principal.MerchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// MarkRead 标记单条通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), principal.MerchantID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead 标记全部通知已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}
	if err := h.service.MarkAllRead(c.Request.Context(), principal.MerchantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
}
