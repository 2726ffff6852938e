package entity

import "time"

// CostingRecord 成本核算快照。只创建，永不更新。
type CostingRecord struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderID   string    `json:"work_order_id" gorm:"type:uuid;not null;index"`
	ThreadCost    float64   `json:"thread_cost" gorm:"type:decimal(12,2);default:0"`
	MachineCost   float64   `json:"machine_cost" gorm:"type:decimal(12,2);default:0"`
	LaborCost     float64   `json:"labor_cost" gorm:"type:decimal(12,2);default:0"`
	OverheadCost  float64   `json:"overhead_cost" gorm:"type:decimal(12,2);default:0"`
	TotalCost     float64   `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	CostBreakdown string    `json:"cost_breakdown" gorm:"type:jsonb"` // 核算输入的序列化快照
	CalculatedBy  string    `json:"calculated_by" gorm:"size:36"`
	CreatedAt     time.Time `json:"created_at"`
}

func (CostingRecord) TableName() string {
	return "emb_costing_records"
}
