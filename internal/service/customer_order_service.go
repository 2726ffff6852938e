package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"gorm.io/gorm"
)

// CustomerOrderService 客户订单维护。建单时可按花样预估报价。
type CustomerOrderService struct {
	repo    *repository.CustomerOrderRepository
	costing *CostingService
}

func NewCustomerOrderService(repo *repository.CustomerOrderRepository, costing *CostingService) *CustomerOrderService {
	return &CustomerOrderService{repo: repo, costing: costing}
}

func (s *CustomerOrderService) List() ([]entity.CustomerOrder, error) {
	return s.repo.List()
}

func (s *CustomerOrderService) GetByID(id string) (*entity.CustomerOrder, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 客户订单 %s", ErrNotFound, id)
		}
		return nil, err
	}
	return o, nil
}

type CreateOrderRequest struct {
	OrderNumber          string     `json:"order_number"`
	CustomerName         string     `json:"customer_name" binding:"required"`
	CustomerEmail        string     `json:"customer_email"`
	CustomerPhone        string     `json:"customer_phone"`
	DeliveryAddress      string     `json:"delivery_address"`
	DesignID             string     `json:"design_id"`
	TotalQuantity        int        `json:"total_quantity"`
	TotalPrice           float64    `json:"total_price"`
	RequiredDeliveryDate *time.Time `json:"required_delivery_date"`
	Notes                string     `json:"notes"`
}

func (s *CustomerOrderService) Create(req CreateOrderRequest) (*entity.CustomerOrder, error) {
	number := req.OrderNumber
	if number == "" {
		number = fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
	}

	o := &entity.CustomerOrder{
		OrderNumber:          number,
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		CustomerPhone:        req.CustomerPhone,
		DeliveryAddress:      req.DeliveryAddress,
		DesignID:             req.DesignID,
		TotalQuantity:        req.TotalQuantity,
		TotalPrice:           req.TotalPrice,
		Status:               entity.OrderStatusPending,
		RequiredDeliveryDate: req.RequiredDeliveryDate,
		Notes:                req.Notes,
	}

	// 未手工报价且挂了花样时按物料清单预估
	if o.TotalPrice == 0 && o.DesignID != "" && o.TotalQuantity > 0 {
		if est, err := s.costing.EstimateOrderCost(o.DesignID, o.TotalQuantity); err == nil {
			o.TotalPrice = est.TotalCost
		}
	}

	if err := s.repo.Create(o); err != nil {
		return nil, fmt.Errorf("创建客户订单失败: %w", err)
	}
	return o, nil
}

type UpdateOrderPatch struct {
	CustomerName         *string    `json:"customer_name"`
	CustomerEmail        *string    `json:"customer_email"`
	CustomerPhone        *string    `json:"customer_phone"`
	DeliveryAddress      *string    `json:"delivery_address"`
	TotalQuantity        *int       `json:"total_quantity"`
	TotalPrice           *float64   `json:"total_price"`
	RequiredDeliveryDate *time.Time `json:"required_delivery_date"`
	Notes                *string    `json:"notes"`
}

func (s *CustomerOrderService) Update(id string, patch UpdateOrderPatch) (*entity.CustomerOrder, error) {
	o, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.CustomerName != nil {
		o.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		o.CustomerEmail = *patch.CustomerEmail
	}
	if patch.CustomerPhone != nil {
		o.CustomerPhone = *patch.CustomerPhone
	}
	if patch.DeliveryAddress != nil {
		o.DeliveryAddress = *patch.DeliveryAddress
	}
	if patch.TotalQuantity != nil {
		o.TotalQuantity = *patch.TotalQuantity
	}
	if patch.TotalPrice != nil {
		o.TotalPrice = *patch.TotalPrice
	}
	if patch.RequiredDeliveryDate != nil {
		o.RequiredDeliveryDate = patch.RequiredDeliveryDate
	}
	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}
	if err := s.repo.Update(o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus 订单状态修改。delivered 时记录实际交付时间。
func (s *CustomerOrderService) UpdateStatus(id, status string) (*entity.CustomerOrder, error) {
	switch status {
	case entity.OrderStatusPending, entity.OrderStatusInProduction,
		entity.OrderStatusCompleted, entity.OrderStatusDelivered, entity.OrderStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	o, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	o.Status = status
	if status == entity.OrderStatusDelivered {
		now := time.Now()
		o.ActualDeliveryDate = &now
	}
	if err := s.repo.Update(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *CustomerOrderService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
