package service

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"gorm.io/gorm"
)

// MachineService 绣花机台账维护。工单引擎对机器只读。
type MachineService struct {
	repo *repository.MachineRepository
}

func NewMachineService(repo *repository.MachineRepository) *MachineService {
	return &MachineService{repo: repo}
}

func (s *MachineService) List() ([]entity.Machine, error) {
	return s.repo.List()
}

func (s *MachineService) GetByID(id string) (*entity.Machine, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 机器 %s", ErrNotFound, id)
		}
		return nil, err
	}
	return m, nil
}

func (s *MachineService) Create(m *entity.Machine) error {
	if m.Status == "" {
		m.Status = entity.MachineStatusActive
	}
	return s.repo.Create(m)
}

// UpdateMachinePatch 机器的部分更新字段
type UpdateMachinePatch struct {
	Name                    *string   `json:"name"`
	Model                   *string   `json:"model"`
	CapacityStitchesPerHour *int      `json:"capacity_stitches_per_hour"`
	SupportedThreadColors   *[]string `json:"supported_thread_colors"`
	Status                  *string   `json:"status"`
	Location                *string   `json:"location"`
}

func (s *MachineService) Update(id string, patch UpdateMachinePatch) (*entity.Machine, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Model != nil {
		m.Model = *patch.Model
	}
	if patch.CapacityStitchesPerHour != nil {
		m.CapacityStitchesPerHour = *patch.CapacityStitchesPerHour
	}
	if patch.SupportedThreadColors != nil {
		m.SupportedThreadColors = *patch.SupportedThreadColors
	}
	if patch.Status != nil {
		switch *patch.Status {
		case entity.MachineStatusActive, entity.MachineStatusMaintenance, entity.MachineStatusOffline:
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *patch.Status)
		}
		m.Status = *patch.Status
	}
	if patch.Location != nil {
		m.Location = *patch.Location
	}
	if err := s.repo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MachineService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
