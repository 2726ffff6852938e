package service

import (
	"github.com/bitfantasy/nimo-embroidery/internal/config"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Auth          *AuthService
	Machine       *MachineService
	Design        *DesignService
	Inventory     *InventoryService
	CustomerOrder *CustomerOrderService
	WorkOrder     *WorkOrderService
	Validation    *ValidationService
	Costing       *CostingService
	Alert         *AlertService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	validation := NewValidationService(repos.Machine, repos.Design)
	costing := NewCostingService(repos.WorkOrder, repos.Thread, repos.Design, repos.Costing, logger)
	return &Services{
		Auth:          NewAuthService(repos.User, rdb, cfg),
		Machine:       NewMachineService(repos.Machine),
		Design:        NewDesignService(repos.Design),
		Inventory:     NewInventoryService(repos.Inventory, repos.Thread, repos.Alert, logger),
		CustomerOrder: NewCustomerOrderService(repos.CustomerOrder, costing),
		WorkOrder:     NewWorkOrderService(repos.WorkOrder, repos.Thread, repos.Alert, validation, logger),
		Validation:    validation,
		Costing:       costing,
		Alert:         NewAlertService(repos.Alert),
	}
}
