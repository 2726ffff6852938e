package entity

import "time"

// CustomerOrderStatus 客户订单状态
const (
	OrderStatusPending      = "pending"
	OrderStatusInProduction = "in_production"
	OrderStatusCompleted    = "completed"
	OrderStatusDelivered    = "delivered"
	OrderStatusCancelled    = "cancelled"
)

// CustomerOrder 客户订单
type CustomerOrder struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNumber          string     `json:"order_number" gorm:"size:50;not null;uniqueIndex"`
	CustomerName         string     `json:"customer_name" gorm:"size:128;not null"`
	CustomerEmail        string     `json:"customer_email" gorm:"size:128"`
	CustomerPhone        string     `json:"customer_phone" gorm:"size:32"`
	DeliveryAddress      string     `json:"delivery_address" gorm:"type:text"`
	DesignID             string     `json:"design_id" gorm:"size:36;index"`
	TotalQuantity        int        `json:"total_quantity" gorm:"default:0"`
	TotalPrice           float64    `json:"total_price" gorm:"type:decimal(12,2);default:0"`
	Status               string     `json:"status" gorm:"size:20;not null;default:pending"`
	RequiredDeliveryDate *time.Time `json:"required_delivery_date"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date"`
	Notes                string     `json:"notes" gorm:"type:text"`
	OrderDate            time.Time  `json:"order_date" gorm:"autoCreateTime"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (CustomerOrder) TableName() string {
	return "emb_customer_orders"
}
