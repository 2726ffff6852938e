package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	User          *UserRepository
	Machine       *MachineRepository
	Design        *DesignRepository
	Inventory     *InventoryRepository
	Thread        *ThreadRepository
	CustomerOrder *CustomerOrderRepository
	WorkOrder     *WorkOrderRepository
	Costing       *CostingRepository
	Alert         *AlertRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Machine:       NewMachineRepository(db),
		Design:        NewDesignRepository(db),
		Inventory:     NewInventoryRepository(db),
		Thread:        NewThreadRepository(db),
		CustomerOrder: NewCustomerOrderRepository(db),
		WorkOrder:     NewWorkOrderRepository(db),
		Costing:       NewCostingRepository(db),
		Alert:         NewAlertRepository(db),
	}
}
