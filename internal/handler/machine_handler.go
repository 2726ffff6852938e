package handler

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
)

// MachineHandler 绣花机处理器
type MachineHandler struct {
	svc        *service.MachineService
	validation *service.ValidationService
}

func NewMachineHandler(svc *service.MachineService, validation *service.ValidationService) *MachineHandler {
	return &MachineHandler{svc: svc, validation: validation}
}

// List 获取机器列表
func (h *MachineHandler) List(c *gin.Context) {
	machines, err := h.svc.List()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"machines": machines})
}

// Create 登记机器
func (h *MachineHandler) Create(c *gin.Context) {
	var m entity.Machine
	if err := c.ShouldBindJSON(&m); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Create(&m); err != nil {
		SvcError(c, err)
		return
	}

	Created(c, m)
}

// Get 获取机器详情
func (h *MachineHandler) Get(c *gin.Context) {
	machine, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, machine)
}

// Update 更新机器
func (h *MachineHandler) Update(c *gin.Context) {
	var patch service.UpdateMachinePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	machine, err := h.svc.Update(c.Param("id"), patch)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, machine)
}

// Delete 删除机器
func (h *MachineHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		SvcError(c, err)
		return
	}
	Success(c, nil)
}

type validateCapacityRequest struct {
	EstimatedStitches int `json:"estimated_stitches" binding:"required,gt=0"`
}

// ValidateCapacity 校验机器产能能否承接预估针数
func (h *MachineHandler) ValidateCapacity(c *gin.Context) {
	var req validateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.validation.ValidateCapacity(c.Param("id"), req.EstimatedStitches); err != nil {
		SvcError(c, err)
		return
	}

	Success(c, gin.H{"valid": true})
}
