package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type CustomerOrderRepository struct {
	db *gorm.DB
}

func NewCustomerOrderRepository(db *gorm.DB) *CustomerOrderRepository {
	return &CustomerOrderRepository{db: db}
}

func (r *CustomerOrderRepository) Create(o *entity.CustomerOrder) error {
	return r.db.Create(o).Error
}

func (r *CustomerOrderRepository) GetByID(id string) (*entity.CustomerOrder, error) {
	var o entity.CustomerOrder
	err := r.db.Where("id = ?", id).First(&o).Error
	return &o, err
}

func (r *CustomerOrderRepository) GetByNumber(number string) (*entity.CustomerOrder, error) {
	var o entity.CustomerOrder
	err := r.db.Where("order_number = ?", number).First(&o).Error
	return &o, err
}

func (r *CustomerOrderRepository) List() ([]entity.CustomerOrder, error) {
	var orders []entity.CustomerOrder
	err := r.db.Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *CustomerOrderRepository) Update(o *entity.CustomerOrder) error {
	return r.db.Save(o).Error
}

func (r *CustomerOrderRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.CustomerOrder{}).Error
}
