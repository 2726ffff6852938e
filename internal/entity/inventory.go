package entity

import "time"

// ItemType 库存物料类型
const (
	ItemTypeThread       = "thread"
	ItemTypeNeedle       = "needle"
	ItemTypeBackingCloth = "backing_cloth"
	ItemTypeStabilizer   = "stabilizer"
	ItemTypeOther        = "other"
)

// InventoryItem 辅料库存（针、衬布、稳定纸等）。余额只经库存台账修改，不允许为负。
type InventoryItem struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ItemName          string    `json:"item_name" gorm:"size:128;not null"`
	ItemType          string    `json:"item_type" gorm:"size:20;not null;default:other"`
	Description       string    `json:"description" gorm:"type:text"`
	QuantityAvailable float64   `json:"quantity_available" gorm:"type:decimal(12,4);not null;default:0"`
	MinimumStockLevel float64   `json:"minimum_stock_level" gorm:"type:decimal(12,4);default:0"`
	UnitCost          float64   `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`
	Supplier          string    `json:"supplier" gorm:"size:128"`
	ReorderQuantity   float64   `json:"reorder_quantity" gorm:"type:decimal(12,4);default:0"`
	UnitMeasurement   string    `json:"unit_measurement" gorm:"size:20;default:pcs"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "emb_inventory_items"
}

// Thread 绣花线。按颜色标签唯一，工单投产时按色扣减。
type Thread struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name              string    `json:"name" gorm:"size:128;not null"`
	Color             string    `json:"color" gorm:"size:64;not null;uniqueIndex"`
	Supplier          string    `json:"supplier" gorm:"size:128"`
	UnitCost          float64   `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`
	QuantityInStock   float64   `json:"quantity_in_stock" gorm:"type:decimal(12,4);not null;default:0"`
	MinimumStockLevel float64   `json:"minimum_stock_level" gorm:"type:decimal(12,4);default:0"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Thread) TableName() string {
	return "emb_threads"
}
