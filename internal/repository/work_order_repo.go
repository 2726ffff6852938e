package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(wo *entity.WorkOrder) error {
	return r.db.Create(wo).Error
}

func (r *WorkOrderRepository) GetByID(id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.db.Preload("Machine").Preload("Design").
		Where("id = ?", id).First(&wo).Error
	return &wo, err
}

func (r *WorkOrderRepository) GetByNumber(number string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.db.Where("work_order_number = ?", number).First(&wo).Error
	return &wo, err
}

// GetByIDForUpdate 行锁读取，串行化同一工单的状态转换。必须在事务内调用。
func (r *WorkOrderRepository) GetByIDForUpdate(tx *gorm.DB, id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&wo).Error
	return &wo, err
}

type WOListParams struct {
	Status    string
	MachineID string
	DesignID  string
	Page      int
	Size      int
}

func (r *WorkOrderRepository) List(params WOListParams) ([]entity.WorkOrder, int64, error) {
	query := r.db.Model(&entity.WorkOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.MachineID != "" {
		query = query.Where("machine_id = ?", params.MachineID)
	}
	if params.DesignID != "" {
		query = query.Where("design_id = ?", params.DesignID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var wos []entity.WorkOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&wos).Error
	return wos, total, err
}

func (r *WorkOrderRepository) Update(wo *entity.WorkOrder) error {
	return r.db.Save(wo).Error
}

// UpdateCost 只落成本五个字段
func (r *WorkOrderRepository) UpdateCost(id string, threadCost, machineCost, laborCost, overheadCost, totalCost float64) error {
	return r.db.Model(&entity.WorkOrder{}).Where("id = ?", id).Updates(map[string]interface{}{
		"thread_cost":   threadCost,
		"machine_cost":  machineCost,
		"labor_cost":    laborCost,
		"overhead_cost": overheadCost,
		"total_cost":    totalCost,
	}).Error
}

// DB 返回底层db用于事务
func (r *WorkOrderRepository) DB() *gorm.DB {
	return r.db
}
