package entity

import "time"

// DesignStatus 花样设计状态
const (
	DesignStatusSubmitted = "submitted"
	DesignStatusReviewed  = "reviewed"
	DesignStatusApproved  = "approved"
	DesignStatusRejected  = "rejected"
)

// Design 绣花花样设计。只有 approved 状态的设计才能投产。
type Design struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	DesignName      string     `json:"design_name" gorm:"size:128;not null"`
	DesignerName    string     `json:"designer_name" gorm:"size:128"`
	Status          string     `json:"status" gorm:"size:20;not null;default:submitted"`
	ApprovedBy      string     `json:"approved_by" gorm:"size:36"`
	ApprovalDate    *time.Time `json:"approval_date"`
	RejectionReason string     `json:"rejection_reason" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Materials []DesignMaterial `json:"materials,omitempty" gorm:"foreignKey:DesignID"`
}

func (Design) TableName() string {
	return "emb_designs"
}

// DesignMaterial 花样物料清单（单件用量），用于客户订单报价
type DesignMaterial struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	DesignID         string    `json:"design_id" gorm:"type:uuid;not null;index"`
	InventoryItemID  string    `json:"inventory_item_id" gorm:"type:uuid;not null"`
	QuantityRequired float64   `json:"quantity_required" gorm:"type:decimal(12,4);default:0"`
	CreatedAt        time.Time `json:"created_at"`

	InventoryItem *InventoryItem `json:"inventory_item,omitempty" gorm:"foreignKey:InventoryItemID"`
}

func (DesignMaterial) TableName() string {
	return "emb_design_materials"
}
