package handler

import (
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
)

// DesignHandler 花样处理器
type DesignHandler struct {
	svc *service.DesignService
}

func NewDesignHandler(svc *service.DesignService) *DesignHandler {
	return &DesignHandler{svc: svc}
}

// List 获取花样列表，可按状态过滤
func (h *DesignHandler) List(c *gin.Context) {
	designs, err := h.svc.List(c.Query("status"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"designs": designs})
}

// Create 提交花样
func (h *DesignHandler) Create(c *gin.Context) {
	var req service.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	design, err := h.svc.Create(req)
	if err != nil {
		SvcError(c, err)
		return
	}

	Created(c, design)
}

// Get 获取花样详情（含物料清单）
func (h *DesignHandler) Get(c *gin.Context) {
	design, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, design)
}

// Update 更新花样
func (h *DesignHandler) Update(c *gin.Context) {
	var patch service.UpdateDesignPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	design, err := h.svc.Update(c.Param("id"), patch)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, design)
}

type designStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// UpdateStatus 审批流转（reviewed/approved/rejected）
func (h *DesignHandler) UpdateStatus(c *gin.Context) {
	var req designStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	design, err := h.svc.UpdateStatus(c.Param("id"), req.Status, GetUserID(c), req.RejectionReason)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, design)
}

// Delete 删除花样
func (h *DesignHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		SvcError(c, err)
		return
	}
	Success(c, nil)
}
