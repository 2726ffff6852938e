package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/nimo-embroidery/internal/config"
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers 处理器集合
type Handlers struct {
	Auth          *AuthHandler
	Machine       *MachineHandler
	Design        *DesignHandler
	Inventory     *InventoryHandler
	CustomerOrder *CustomerOrderHandler
	WorkOrder     *WorkOrderHandler
	Alert         *AlertHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:          NewAuthHandler(svc.Auth),
		Machine:       NewMachineHandler(svc.Machine, svc.Validation),
		Design:        NewDesignHandler(svc.Design),
		Inventory:     NewInventoryHandler(svc.Inventory),
		CustomerOrder: NewCustomerOrderHandler(svc.CustomerOrder, svc.Costing),
		WorkOrder:     NewWorkOrderHandler(svc.WorkOrder, svc.Costing),
		Alert:         NewAlertHandler(svc.Alert),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 状态冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// Unprocessable 业务校验失败响应
func Unprocessable(c *gin.Context, message string) {
	Error(c, 42200, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// SvcError 按业务错误类型映射响应码
func SvcError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrInvalidStatus):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrInsufficientStock):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrDesignNotApproved),
		errors.Is(err, service.ErrMachineIncompatible),
		errors.Is(err, service.ErrCapacityExceeded):
		Unprocessable(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
