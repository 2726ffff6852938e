package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(a *entity.Alert) error {
	return r.db.Create(a).Error
}

func (r *AlertRepository) GetByID(id string) (*entity.Alert, error) {
	var a entity.Alert
	err := r.db.Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *AlertRepository) List(unresolvedOnly bool) ([]entity.Alert, error) {
	query := r.db.Model(&entity.Alert{})
	if unresolvedOnly {
		query = query.Where("is_resolved = false")
	}
	var alerts []entity.Alert
	err := query.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepository) ListByEntity(entityType, entityID string) ([]entity.Alert, error) {
	var alerts []entity.Alert
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepository) Update(a *entity.Alert) error {
	return r.db.Save(a).Error
}
