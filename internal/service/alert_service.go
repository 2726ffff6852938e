package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"gorm.io/gorm"
)

// AlertService 预警查询与消解。预警的产生在台账/状态机内完成。
type AlertService struct {
	repo *repository.AlertRepository
}

func NewAlertService(repo *repository.AlertRepository) *AlertService {
	return &AlertService{repo: repo}
}

func (s *AlertService) List(unresolvedOnly bool) ([]entity.Alert, error) {
	return s.repo.List(unresolvedOnly)
}

func (s *AlertService) ListByEntity(entityType, entityID string) ([]entity.Alert, error) {
	return s.repo.ListByEntity(entityType, entityID)
}

// Resolve 人工消解预警
func (s *AlertService) Resolve(id, userID string) (*entity.Alert, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 预警 %s", ErrNotFound, id)
		}
		return nil, err
	}
	now := time.Now()
	a.IsResolved = true
	a.ResolvedBy = userID
	a.ResolvedAt = &now
	if err := s.repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}
