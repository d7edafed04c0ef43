package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/reporting/application"
	"github.com/wyfcoding/merchantonboarding/internal/reporting/domain"
)

// ReportingHandler 管理端报表 HTTP 接口
type ReportingHandler struct {
	service *application.ReportingService
}

// NewReportingHandler 创建报表接口处理器
func NewReportingHandler(service *application.ReportingService) *ReportingHandler {
	return &ReportingHandler{service: service}
}

// RegisterAdminRoutes 注册管理端路由，调用方需挂好管理员中间件
func (h *ReportingHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/merchants", h.ListMerchants)
	admin.GET("/merchants/:merchantid", h.MerchantDetail)
	admin.GET("/reviews/pending", h.PendingReviews)
	admin.GET("/analytics/step-completion", h.StepCompletion)
}

// RegisterProfileRoutes 注册商户档案清单路由（管理端）
func (h *ReportingHandler) RegisterProfileRoutes(admin *gin.RouterGroup) {
	admin.GET("/profiles", h.ListMerchants)
	admin.GET("/profiles/export", h.ExportCSV)
}

// Dashboard 仪表盘统计
func (h *ReportingHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func listQuery(c *gin.Context) domain.MerchantListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return domain.MerchantListQuery{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Role:     c.Query("role"),
	}
}

// ListMerchants 分页商户清单，支持状态过滤与模糊搜索
func (h *ReportingHandler) ListMerchants(c *gin.Context) {
	result, err := h.service.ListMerchants(c.Request.Context(), listQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MerchantDetail 管理端查看单个商户及其步骤汇总
func (h *ReportingHandler) MerchantDetail(c *gin.Context) {
	dto, err := h.service.MerchantDetail(c.Request.Context(), c.Param("merchantid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// PendingReviews 等待审批的商户
func (h *ReportingHandler) PendingReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	result, err := h.service.PendingReviews(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// StepCompletion 各步骤完成率
func (h *ReportingHandler) StepCompletion(c *gin.Context) {
	stats, err := h.service.StepCompletion(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": stats})
}

// ExportCSV 导出商户档案为 CSV，流式写出
func (h *ReportingHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+application.ExportFilename()+`"`)

	if err := h.service.ExportCSV(c.Request.Context(), listQuery(c), c.Writer); err != nil {
		// 表头已发出时无法再改状态码，只能记录
		respondError(c, err)
		return
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
}
