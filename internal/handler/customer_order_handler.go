package handler

import (
	"strconv"

	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
)

// CustomerOrderHandler 客户订单处理器
type CustomerOrderHandler struct {
	svc     *service.CustomerOrderService
	costing *service.CostingService
}

func NewCustomerOrderHandler(svc *service.CustomerOrderService, costing *service.CostingService) *CustomerOrderHandler {
	return &CustomerOrderHandler{svc: svc, costing: costing}
}

// List 获取订单列表
func (h *CustomerOrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"orders": orders})
}

// Create 创建订单。未给出价格且指定了花样时自动按花样物料估价。
func (h *CustomerOrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.Create(req)
	if err != nil {
		SvcError(c, err)
		return
	}

	Created(c, order)
}

// Get 获取订单详情
func (h *CustomerOrderHandler) Get(c *gin.Context) {
	order, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, order)
}

// Update 更新订单
func (h *CustomerOrderHandler) Update(c *gin.Context) {
	var patch service.UpdateOrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.Update(c.Param("id"), patch)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, order)
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 订单状态流转，送达时盖实际交付时间戳
func (h *CustomerOrderHandler) UpdateStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, order)
}

// Delete 删除订单
func (h *CustomerOrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		SvcError(c, err)
		return
	}
	Success(c, nil)
}

// Estimate 按花样与数量预估订单成本
func (h *CustomerOrderHandler) Estimate(c *gin.Context) {
	designID := c.Query("design_id")
	if designID == "" {
		BadRequest(c, "design_id is required")
		return
	}
	quantity, _ := strconv.Atoi(c.DefaultQuery("quantity", "1"))

	estimate, err := h.costing.EstimateOrderCost(designID, quantity)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, estimate)
}
