package handler

import (
	"fmt"
	"net/url"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
)

// InventoryHandler 库存处理器
type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// List 获取库存物料列表
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// Create 新增库存物料
func (h *InventoryHandler) Create(c *gin.Context) {
	var item entity.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Create(&item); err != nil {
		SvcError(c, err)
		return
	}

	Created(c, item)
}

// Get 获取物料详情
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, item)
}

// Update 更新物料档案（不直接改库存量，出入库走专门接口）
func (h *InventoryHandler) Update(c *gin.Context) {
	var patch service.UpdateItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Update(c.Param("id"), patch)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, item)
}

type quantityRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
}

// Deduct 扣减库存
func (h *InventoryHandler) Deduct(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Deduct(c.Param("id"), req.Quantity)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, item)
}

// Restock 入库补货
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Restock(c.Param("id"), req.Quantity)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, item)
}

type bulkDeductRequest struct {
	ItemIDs    []string  `json:"item_ids" binding:"required"`
	Quantities []float64 `json:"quantities" binding:"required"`
}

// BulkDeduct 批量扣减，逐项独立结算
func (h *InventoryHandler) BulkDeduct(c *gin.Context) {
	var req bulkDeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	results, err := h.svc.BulkDeduct(req.ItemIDs, req.Quantities)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, gin.H{"results": results})
}

// LowStock 获取低于安全库存的物料
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.svc.ListLowStock()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// Export 导出库存台账 xlsx
func (h *InventoryHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.ExportInventory()
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.QueryEscape(filename)))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, err.Error())
	}
}

// ListThreads 获取绣花线列表
func (h *InventoryHandler) ListThreads(c *gin.Context) {
	threads, err := h.svc.ListThreads()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"threads": threads})
}

// CreateThread 登记绣花线
func (h *InventoryHandler) CreateThread(c *gin.Context) {
	var t entity.Thread
	if err := c.ShouldBindJSON(&t); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.svc.CreateThread(&t); err != nil {
		SvcError(c, err)
		return
	}

	Created(c, t)
}

// GetThread 获取绣花线详情
func (h *InventoryHandler) GetThread(c *gin.Context) {
	thread, err := h.svc.GetThread(c.Param("id"))
	if err != nil {
		SvcError(c, err)
		return
	}
	Success(c, thread)
}

// DeductThread 扣减绣花线库存
func (h *InventoryHandler) DeductThread(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	thread, err := h.svc.DeductThread(c.Param("id"), req.Quantity)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, thread)
}

// RestockThread 绣花线入库
func (h *InventoryHandler) RestockThread(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	thread, err := h.svc.RestockThread(c.Param("id"), req.Quantity)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, thread)
}

// LowStockThreads 获取低于安全库存的绣花线
func (h *InventoryHandler) LowStockThreads(c *gin.Context) {
	threads, err := h.svc.ListLowStockThreads()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"threads": threads})
}
