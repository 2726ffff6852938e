package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type DesignRepository struct {
	db *gorm.DB
}

func NewDesignRepository(db *gorm.DB) *DesignRepository {
	return &DesignRepository{db: db}
}

func (r *DesignRepository) Create(d *entity.Design) error {
	return r.db.Create(d).Error
}

func (r *DesignRepository) GetByID(id string) (*entity.Design, error) {
	var d entity.Design
	err := r.db.Preload("Materials").Preload("Materials.InventoryItem").
		Where("id = ?", id).First(&d).Error
	return &d, err
}

func (r *DesignRepository) List(status string) ([]entity.Design, error) {
	query := r.db.Preload("Materials")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var designs []entity.Design
	err := query.Order("created_at DESC").Find(&designs).Error
	return designs, err
}

func (r *DesignRepository) Update(d *entity.Design) error {
	return r.db.Save(d).Error
}

func (r *DesignRepository) Delete(id string) error {
	if err := r.db.Where("design_id = ?", id).Delete(&entity.DesignMaterial{}).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", id).Delete(&entity.Design{}).Error
}

// ReplaceMaterials 整体替换花样物料清单
func (r *DesignRepository) ReplaceMaterials(designID string, materials []entity.DesignMaterial) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("design_id = ?", designID).Delete(&entity.DesignMaterial{}).Error; err != nil {
			return err
		}
		if len(materials) == 0 {
			return nil
		}
		return tx.Create(&materials).Error
	})
}
