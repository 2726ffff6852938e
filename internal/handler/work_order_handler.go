package handler

import (
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
)

// WorkOrderHandler 工单处理器
type WorkOrderHandler struct {
	svc     *service.WorkOrderService
	costing *service.CostingService
}

func NewWorkOrderHandler(svc *service.WorkOrderService, costing *service.CostingService) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc, costing: costing}
}

// List 获取工单列表
func (h *WorkOrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.WOListParams{
		Status:    c.Query("status"),
		MachineID: c.Query("machine_id"),
		DesignID:  c.Query("design_id"),
		Page:      page,
		Size:      pageSize,
	}

	orders, total, err := h.svc.List(params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	Success(c, ListResponse{
		Items: orders,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Create 建单（不扣库存）
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req service.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	wo, err := h.svc.Create(req, GetUserID(c))
	if err != nil {
		SvcError(c, err)
		return
	}

	Created(c, wo)
}

// Get 获取工单详情
func (h *WorkOrderHandler) Get(c *gin.Context) {
	wo, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, wo)
}

// Start 开工：校验、整批扣线、置为生产中，单事务完成
func (h *WorkOrderHandler) Start(c *gin.Context) {
	wo, err := h.svc.Start(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, wo)
}

type completeRequest struct {
	QuantityCompleted int `json:"quantity_completed" binding:"required,gt=0"`
}

// Complete 完工登记
func (h *WorkOrderHandler) Complete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	wo, err := h.svc.Complete(c.Param("id"), req.QuantityCompleted)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, wo)
}

// Deliver 交付
func (h *WorkOrderHandler) Deliver(c *gin.Context) {
	wo, err := h.svc.Deliver(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, wo)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 按状态机流转
func (h *WorkOrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	wo, err := h.svc.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, wo)
}

// ForceStatus 管理员强制改状态，绕过状态机，留审计日志
func (h *WorkOrderHandler) ForceStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	wo, err := h.svc.ForceStatus(c.Param("id"), req.Status, GetUserID(c))
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, wo)
}

// CalculateCost 核算工单成本并生成核算记录
func (h *WorkOrderHandler) CalculateCost(c *gin.Context) {
	breakdown, record, err := h.costing.CalculateForWorkOrder(c.Param("id"), GetUserID(c))
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, gin.H{"breakdown": breakdown, "record": record})
}

// ListCostingRecords 获取工单历史核算记录
func (h *WorkOrderHandler) ListCostingRecords(c *gin.Context) {
	records, err := h.costing.ListRecords(c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"records": records})
}
