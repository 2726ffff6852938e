package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(m *entity.Machine) error {
	return r.db.Create(m).Error
}

func (r *MachineRepository) GetByID(id string) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *MachineRepository) List() ([]entity.Machine, error) {
	var machines []entity.Machine
	err := r.db.Order("name ASC").Find(&machines).Error
	return machines, err
}

func (r *MachineRepository) Update(m *entity.Machine) error {
	return r.db.Save(m).Error
}

func (r *MachineRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Machine{}).Error
}
