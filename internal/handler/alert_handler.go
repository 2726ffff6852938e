package handler

import (
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
)

// AlertHandler 预警处理器
type AlertHandler struct {
	svc *service.AlertService
}

func NewAlertHandler(svc *service.AlertService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// List 获取预警列表，默认只看未处理
func (h *AlertHandler) List(c *gin.Context) {
	unresolvedOnly := c.DefaultQuery("unresolved_only", "true") == "true"
	alerts, err := h.svc.List(unresolvedOnly)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"alerts": alerts})
}

// ListByEntity 按关联对象查预警
func (h *AlertHandler) ListByEntity(c *gin.Context) {
	alerts, err := h.svc.ListByEntity(c.Param("entity_type"), c.Param("entity_id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"alerts": alerts})
}

// Resolve 处理预警
func (h *AlertHandler) Resolve(c *gin.Context) {
	alert, err := h.svc.Resolve(c.Param("id"), GetUserID(c))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, alert)
}
