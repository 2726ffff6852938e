package service

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"gorm.io/gorm"
)

// ValidationService 投产前校验。纯读取比较，无副作用。
type ValidationService struct {
	machineRepo *repository.MachineRepository
	designRepo  *repository.DesignRepository
}

func NewValidationService(machineRepo *repository.MachineRepository, designRepo *repository.DesignRepository) *ValidationService {
	return &ValidationService{machineRepo: machineRepo, designRepo: designRepo}
}

// ValidateForStart 工单投产校验：花样已批准 + 机器色架覆盖所需线色
func (s *ValidationService) ValidateForStart(wo *entity.WorkOrder) error {
	design, err := s.designRepo.GetByID(wo.DesignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 花样 %s", ErrNotFound, wo.DesignID)
		}
		return err
	}
	if design.Status != entity.DesignStatusApproved {
		return fmt.Errorf("%w: 当前状态 %s", ErrDesignNotApproved, design.Status)
	}

	machine, err := s.machineRepo.GetByID(wo.MachineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 机器 %s", ErrNotFound, wo.MachineID)
		}
		return err
	}
	if !machine.SupportsColors(wo.ThreadColorsRequired) {
		return fmt.Errorf("%w: 机器 %s", ErrMachineIncompatible, machine.Name)
	}
	return nil
}

// ValidateCapacity 针数产能校验，可在建单前独立调用
func (s *ValidationService) ValidateCapacity(machineID string, estimatedStitches int) error {
	machine, err := s.machineRepo.GetByID(machineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 机器 %s", ErrNotFound, machineID)
		}
		return err
	}
	if estimatedStitches > machine.CapacityStitchesPerHour {
		return fmt.Errorf("%w: 预计%d针，机器上限%d针/小时", ErrCapacityExceeded, estimatedStitches, machine.CapacityStitchesPerHour)
	}
	return nil
}
