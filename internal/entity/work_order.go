package entity

import "time"

// WorkOrderStatus 绣花工单状态
const (
	WOStatusPending    = "pending"
	WOStatusInProgress = "in_progress"
	WOStatusCompleted  = "completed"
	WOStatusDelivered  = "delivered"
)

// WorkOrder 绣花生产工单。状态只经状态机定义的转换修改。
// ThreadColorsRequired 与 ThreadQuantities 等长，按下标一一对应。
type WorkOrder struct {
	ID                      string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderNumber         string     `json:"work_order_number" gorm:"size:50;not null;uniqueIndex"`
	MachineID               string     `json:"machine_id" gorm:"type:uuid;not null;index"`
	DesignID                string     `json:"design_id" gorm:"type:uuid;not null;index"`
	CustomerOrderID         string     `json:"customer_order_id" gorm:"size:36;index"`
	AssignedOperatorID      string     `json:"assigned_operator_id" gorm:"size:36"`
	QuantityToProduce       int        `json:"quantity_to_produce" gorm:"not null;default:0"`
	QuantityCompleted       int        `json:"quantity_completed" gorm:"default:0"`
	ThreadColorsRequired    []string   `json:"thread_colors_required" gorm:"serializer:json;type:jsonb"`
	ThreadQuantities        []float64  `json:"thread_quantities" gorm:"serializer:json;type:jsonb"`
	EstimatedProductionTime int        `json:"estimated_production_time" gorm:"default:0"` // 分钟
	ThreadCost              float64    `json:"thread_cost" gorm:"type:decimal(12,2);default:0"`
	MachineCost             float64    `json:"machine_cost" gorm:"type:decimal(12,2);default:0"`
	LaborCost               float64    `json:"labor_cost" gorm:"type:decimal(12,2);default:0"`
	OverheadCost            float64    `json:"overhead_cost" gorm:"type:decimal(12,2);default:0"`
	TotalCost               float64    `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	Status                  string     `json:"status" gorm:"size:20;not null;default:pending;index"`
	ActualStartTime         *time.Time `json:"actual_start_time"`
	ActualEndTime           *time.Time `json:"actual_end_time"`
	CreatedBy               string     `json:"created_by" gorm:"size:36"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	Machine *Machine `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	Design  *Design  `json:"design,omitempty" gorm:"foreignKey:DesignID"`
}

func (WorkOrder) TableName() string {
	return "emb_work_orders"
}
