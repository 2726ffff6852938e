package entity

import "time"

// AlertType 预警类型
const (
	AlertTypeReorder            = "reorder"
	AlertTypeLowInventory       = "low_inventory"
	AlertTypeMachineMaintenance = "machine_maintenance"
	AlertTypeOverdueOrder       = "overdue_order"
)

// Alert 预警记录。台账越过阈值时追加，由操作员手工消解。
type Alert struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AlertType  string     `json:"alert_type" gorm:"size:30;not null;index"`
	EntityType string     `json:"entity_type" gorm:"size:30;not null"`
	EntityID   string     `json:"entity_id" gorm:"type:uuid;not null;index"`
	Title      string     `json:"title" gorm:"size:256;not null"`
	Message    string     `json:"message" gorm:"type:text"`
	IsResolved bool       `json:"is_resolved" gorm:"default:false;index"`
	ResolvedBy string     `json:"resolved_by" gorm:"size:36"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Alert) TableName() string {
	return "emb_alerts"
}
