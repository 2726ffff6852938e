package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

func (r *ThreadRepository) Create(t *entity.Thread) error {
	return r.db.Create(t).Error
}

func (r *ThreadRepository) GetByID(id string) (*entity.Thread, error) {
	var t entity.Thread
	err := r.db.Where("id = ?", id).First(&t).Error
	return &t, err
}

func (r *ThreadRepository) GetByColor(color string) (*entity.Thread, error) {
	var t entity.Thread
	err := r.db.Where("color = ?", color).First(&t).Error
	return &t, err
}

func (r *ThreadRepository) List() ([]entity.Thread, error) {
	var threads []entity.Thread
	err := r.db.Order("name ASC").Find(&threads).Error
	return threads, err
}

func (r *ThreadRepository) Update(t *entity.Thread) error {
	return r.db.Save(t).Error
}

// DeductByColor 按线色原子扣减，余额不足时 0 行受影响。
// 传入事务句柄时在该事务内执行，工单投产用。
func (r *ThreadRepository) DeductByColor(tx *gorm.DB, color string, quantity float64) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&entity.Thread{}).
		Where("color = ? AND quantity_in_stock >= ?", color, quantity).
		UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", quantity))
	return result.RowsAffected, result.Error
}

// ExistsByColor 线色是否有库存记录（在事务内判断余额不足与记录缺失）
func (r *ThreadRepository) ExistsByColor(tx *gorm.DB, color string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.Model(&entity.Thread{}).Where("color = ?", color).Count(&count).Error
	return count > 0, err
}

// Restock 无条件加回库存
func (r *ThreadRepository) Restock(id string, quantity float64) (int64, error) {
	result := r.db.Model(&entity.Thread{}).
		Where("id = ?", id).
		UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", quantity))
	return result.RowsAffected, result.Error
}

// ListLowStock 低于最低库存线的线材
func (r *ThreadRepository) ListLowStock() ([]entity.Thread, error) {
	var threads []entity.Thread
	err := r.db.Where("quantity_in_stock <= minimum_stock_level").
		Order("quantity_in_stock ASC").Find(&threads).Error
	return threads, err
}
