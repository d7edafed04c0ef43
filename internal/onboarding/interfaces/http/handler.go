package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/onboarding/application"
	"github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
)

// OnboardingHandler 入驻步骤与聚合状态的 HTTP 接口
type OnboardingHandler struct {
	service *application.OnboardingService
}

// NewOnboardingHandler 创建入驻接口处理器
func NewOnboardingHandler(service *application.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// RegisterRoutes 注册商户侧路由。六个步骤各自暴露资源路径，
// POST 首次提交，PUT 覆盖，GET 读取，DELETE 删除。
func (h *OnboardingHandler) RegisterRoutes(api *gin.RouterGroup, authMW gin.HandlerFunc) {
	own := auth.RequireOwnership("merchantid")

	steps := map[string]gin.HandlerFunc{
		domain.StepCompany.String():    h.writeCompany,
		domain.StepUBO.String():        h.writeUBO,
		domain.StepPayment.String():    h.writePayment,
		domain.StepSettlement.String(): h.writeSettlement,
		domain.StepRisk.String():       h.writeRisk,
		domain.StepKYC.String():        h.writeKYC,
	}
	for _, kind := range domain.StepOrder() {
		group := api.Group("/"+kind.String(), authMW, own)
		write := steps[kind.String()]
		group.POST("/:merchantid", write)
		group.PUT("/:merchantid", write)
		group.GET("/:merchantid", h.getStep(kind))
		group.DELETE("/:merchantid", h.deleteStep(kind))
	}

	onb := api.Group("/onboarding", authMW)
	{
		onb.GET("/status/:merchantid", own, h.Status)
		onb.GET("/next-step/:merchantid", own, h.NextStep)
		onb.GET("/timeline/:merchantid", own, h.Timeline)
		onb.PUT("/step/:merchantid/:stepname/complete", own, h.MarkComplete)
		onb.POST("/reset/:merchantid", auth.RequireRole(auth.RoleAdmin), h.Reset)
	}
}

// RegisterAdminRoutes 注册管理端路由，调用方需挂好管理员中间件
func (h *OnboardingHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.PUT("/approve-merchant/:merchantid", h.Approve)
	admin.PUT("/reject-merchant/:merchantid", h.Reject)
}

func (h *OnboardingHandler) writeCompany(c *gin.Context) {
	var rec domain.CompanyInfo
	if !bindStep(c, &rec) {
		return
	}
	rec.Model = gorm.Model{}
	rec.MerchantID = c.Param("merchantid")
	rec.Completed = true
	h.finishWrite(c, &rec)
}

func (h *OnboardingHandler) writeUBO(c *gin.Context) {
	var rec domain.BeneficialOwnership
	if !bindStep(c, &rec) {
		return
	}
	if len(rec.Owners) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one beneficial owner is required"})
		return
	}
	rec.Model = gorm.Model{}
	rec.MerchantID = c.Param("merchantid")
	rec.Completed = true
	h.finishWrite(c, &rec)
}

func (h *OnboardingHandler) writePayment(c *gin.Context) {
	var rec domain.PaymentInfo
	if !bindStep(c, &rec) {
		return
	}
	rec.Model = gorm.Model{}
	rec.MerchantID = c.Param("merchantid")
	rec.Completed = true
	h.finishWrite(c, &rec)
}

func (h *OnboardingHandler) writeSettlement(c *gin.Context) {
	var rec domain.SettlementBankDetails
	if !bindStep(c, &rec) {
		return
	}
	if len(rec.Banks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one settlement bank is required"})
		return
	}
	rec.Model = gorm.Model{}
	rec.MerchantID = c.Param("merchantid")
	rec.Completed = true
	h.finishWrite(c, &rec)
}

func (h *OnboardingHandler) writeRisk(c *gin.Context) {
	var rec domain.RiskManagement
	if !bindStep(c, &rec) {
		return
	}
	rec.Model = gorm.Model{}
	rec.MerchantID = c.Param("merchantid")
	rec.Completed = true
	h.finishWrite(c, &rec)
}

func (h *OnboardingHandler) writeKYC(c *gin.Context) {
	var rec domain.KYCDocuments
	if !bindStep(c, &rec) {
		return
	}
	rec.Model = gorm.Model{}
	rec.MerchantID = c.Param("merchantid")
	rec.Completed = true
	h.finishWrite(c, &rec)
}

// bindStep 解析步骤表单请求体
func bindStep(c *gin.Context, rec any) bool {
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// finishWrite 按请求方法选择首次提交或覆盖写
func (h *OnboardingHandler) finishWrite(c *gin.Context, rec domain.StepRecord) {
	ctx := c.Request.Context()
	if c.Request.Method == http.MethodPut {
		if err := h.service.UpsertStep(ctx, rec); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": rec.Kind().Title() + " updated successfully",
			"data":    rec,
		})
		return
	}

	if err := h.service.SubmitStep(ctx, rec); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": rec.Kind().Title() + " saved successfully",
		"data":    rec,
	})
}

func (h *OnboardingHandler) getStep(kind domain.StepKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := h.service.GetStep(c.Request.Context(), kind, c.Param("merchantid"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *OnboardingHandler) deleteStep(kind domain.StepKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteStep(c.Request.Context(), kind, c.Param("merchantid")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": kind.Title() + " deleted successfully"})
	}
}

// MarkComplete 将已提交的步骤直接置为完成
func (h *OnboardingHandler) MarkComplete(c *gin.Context) {
	kind, err := domain.ParseStepKind(c.Param("stepname"))
	if err != nil {
		respondError(c, err)
		return
	}
	merchantID := c.Param("merchantid")
	if err := h.service.MarkStepComplete(c.Request.Context(), kind, merchantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    kind.Title() + " marked as complete",
		"merchantid": merchantID,
	})
}

// Status 入驻聚合状态
func (h *OnboardingHandler) Status(c *gin.Context) {
	dto, err := h.service.Status(c.Request.Context(), c.Param("merchantid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// NextStep 下一未完成步骤
func (h *OnboardingHandler) NextStep(c *gin.Context) {
	next, err := h.service.NextStep(c.Request.Context(), c.Param("merchantid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if next == nil {
		c.JSON(http.StatusOK, gin.H{
			"message":  "All onboarding steps completed",
			"nextStep": nil,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextStep": next})
}

// Timeline 步骤时间线
func (h *OnboardingHandler) Timeline(c *gin.Context) {
	dto, err := h.service.Timeline(c.Request.Context(), c.Param("merchantid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// Approve 审批通过
func (h *OnboardingHandler) Approve(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	// 请求体可为空
	_ = c.ShouldBindJSON(&req)

	principal, _ := auth.PrincipalFrom(c)
	merchantID := c.Param("merchantid")
	if err := h.service.Approve(c.Request.Context(), merchantID, principal.MerchantID, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Merchant approved successfully",
		"merchantid": merchantID,
	})
}

// Reject 审批拒绝，原因必填
func (h *OnboardingHandler) Reject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)

	principal, _ := auth.PrincipalFrom(c)
	merchantID := c.Param("merchantid")
	if err := h.service.Reject(c.Request.Context(), merchantID, req.Reason, principal.MerchantID, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Merchant rejected",
		"merchantid": merchantID,
	})
}

// Reset 管理员重置入驻流程
func (h *OnboardingHandler) Reset(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	merchantID := c.Param("merchantid")
	if err := h.service.Reset(c.Request.Context(), merchantID, principal.MerchantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Onboarding has been reset",
		"merchantid": merchantID,
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
}
