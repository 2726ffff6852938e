package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type CostingRepository struct {
	db *gorm.DB
}

func NewCostingRepository(db *gorm.DB) *CostingRepository {
	return &CostingRepository{db: db}
}

func (r *CostingRepository) Create(rec *entity.CostingRecord) error {
	return r.db.Create(rec).Error
}

func (r *CostingRepository) ListByWorkOrder(workOrderID string) ([]entity.CostingRecord, error) {
	var records []entity.CostingRecord
	err := r.db.Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").Find(&records).Error
	return records, err
}
