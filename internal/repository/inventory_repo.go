package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(item *entity.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) GetByID(id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.Where("id = ?", id).First(&item).Error
	return &item, err
}

func (r *InventoryRepository) List() ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.Order("item_name ASC").Find(&items).Error
	return items, err
}

func (r *InventoryRepository) Update(item *entity.InventoryItem) error {
	return r.db.Save(item).Error
}

func (r *InventoryRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.InventoryItem{}).Error
}

// Deduct 原子扣减：带余额下限保护的条件 UPDATE。
// 返回受影响行数，0 行表示余额不足（或记录不存在，由调用方区分）。
func (r *InventoryRepository) Deduct(id string, quantity float64) (int64, error) {
	result := r.db.Model(&entity.InventoryItem{}).
		Where("id = ? AND quantity_available >= ?", id, quantity).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available - ?", quantity))
	return result.RowsAffected, result.Error
}

// Restock 无条件加回余额
func (r *InventoryRepository) Restock(id string, quantity float64) (int64, error) {
	result := r.db.Model(&entity.InventoryItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available + ?", quantity))
	return result.RowsAffected, result.Error
}

// ListLowStock 低于最低库存线的物料
func (r *InventoryRepository) ListLowStock() ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.Where("quantity_available <= minimum_stock_level").
		Order("quantity_available ASC").Find(&items).Error
	return items, err
}

// DB 返回底层db用于事务
func (r *InventoryRepository) DB() *gorm.DB {
	return r.db
}
