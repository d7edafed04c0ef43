package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/upload/application"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
)

// UploadHandler 进件材料上传 HTTP 接口
type UploadHandler struct {
	service *application.UploadService
}

// NewUploadHandler 创建上传接口处理器
func NewUploadHandler(service *application.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// RegisterRoutes 注册上传路由，上传人只能操作自己的目录
func (h *UploadHandler) RegisterRoutes(api *gin.RouterGroup, authMW gin.HandlerFunc) {
	api.POST("/upload/:merchantid/:step", authMW, auth.RequireOwnership("merchantid"), h.Upload)
}

// Upload 接收 multipart 表单中的 file 字段并保存
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	url, err := h.service.Save(c.Request.Context(), c.Param("merchantid"), c.Param("step"), file)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"fileUrl": url,
	})
}
