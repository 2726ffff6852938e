package entity

import "time"

// MachineStatus 绣花机状态
const (
	MachineStatusActive      = "active"
	MachineStatusMaintenance = "maintenance"
	MachineStatusOffline     = "offline"
)

// Machine 绣花机。工单引擎只读，不在此处修改。
type Machine struct {
	ID                      string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name                    string    `json:"name" gorm:"size:128;not null"`
	Model                   string    `json:"model" gorm:"size:64"`
	CapacityStitchesPerHour int       `json:"capacity_stitches_per_hour" gorm:"not null;default:0"`
	SupportedThreadColors   []string  `json:"supported_thread_colors" gorm:"serializer:json;type:jsonb"`
	Status                  string    `json:"status" gorm:"size:20;not null;default:active"`
	Location                string    `json:"location" gorm:"size:128"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (Machine) TableName() string {
	return "emb_machines"
}

// SupportsColors 判断机器色架是否覆盖所需线色（集合包含，与顺序无关）
func (m *Machine) SupportsColors(colors []string) bool {
	supported := make(map[string]struct{}, len(m.SupportedThreadColors))
	for _, c := range m.SupportedThreadColors {
		supported[c] = struct{}{}
	}
	for _, c := range colors {
		if _, ok := supported[c]; !ok {
			return false
		}
	}
	return true
}
