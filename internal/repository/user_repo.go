package repository

import (
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *entity.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	var u entity.User
	err := r.db.Where("id = ?", id).First(&u).Error
	return &u, err
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	var u entity.User
	err := r.db.Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *UserRepository) List() ([]entity.User, error) {
	var users []entity.User
	err := r.db.Order("name ASC").Find(&users).Error
	return users, err
}
