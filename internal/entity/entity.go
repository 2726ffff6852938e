package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有绣花生产表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&User{},
		&Machine{},
		&Design{},
		&DesignMaterial{},

		// 库存
		&InventoryItem{},
		&Thread{},

		// 订单与生产
		&CustomerOrder{},
		&WorkOrder{},

		// 核算与预警
		&CostingRecord{},
		&Alert{},
	)
}
