package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"gorm.io/gorm"
)

// DesignService 花样设计：提交 → 评审 → 批准/驳回。
type DesignService struct {
	repo *repository.DesignRepository
}

func NewDesignService(repo *repository.DesignRepository) *DesignService {
	return &DesignService{repo: repo}
}

func (s *DesignService) List(status string) ([]entity.Design, error) {
	return s.repo.List(status)
}

func (s *DesignService) GetByID(id string) (*entity.Design, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 花样 %s", ErrNotFound, id)
		}
		return nil, err
	}
	return d, nil
}

type DesignMaterialInput struct {
	InventoryItemID  string  `json:"inventory_item_id" binding:"required"`
	QuantityRequired float64 `json:"quantity_required"`
}

type CreateDesignRequest struct {
	DesignName   string                `json:"design_name" binding:"required"`
	DesignerName string                `json:"designer_name"`
	Materials    []DesignMaterialInput `json:"materials"`
}

func (s *DesignService) Create(req CreateDesignRequest) (*entity.Design, error) {
	d := &entity.Design{
		DesignName:   req.DesignName,
		DesignerName: req.DesignerName,
		Status:       entity.DesignStatusSubmitted,
	}
	if err := s.repo.Create(d); err != nil {
		return nil, fmt.Errorf("创建花样失败: %w", err)
	}
	if len(req.Materials) > 0 {
		materials := make([]entity.DesignMaterial, 0, len(req.Materials))
		for _, m := range req.Materials {
			materials = append(materials, entity.DesignMaterial{
				DesignID:         d.ID,
				InventoryItemID:  m.InventoryItemID,
				QuantityRequired: m.QuantityRequired,
			})
		}
		if err := s.repo.ReplaceMaterials(d.ID, materials); err != nil {
			return nil, fmt.Errorf("保存花样物料清单失败: %w", err)
		}
	}
	return s.GetByID(d.ID)
}

type UpdateDesignPatch struct {
	DesignName   *string                `json:"design_name"`
	DesignerName *string                `json:"designer_name"`
	Materials    *[]DesignMaterialInput `json:"materials"`
}

func (s *DesignService) Update(id string, patch UpdateDesignPatch) (*entity.Design, error) {
	d, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.DesignName != nil {
		d.DesignName = *patch.DesignName
	}
	if patch.DesignerName != nil {
		d.DesignerName = *patch.DesignerName
	}
	if err := s.repo.Update(d); err != nil {
		return nil, err
	}
	if patch.Materials != nil {
		materials := make([]entity.DesignMaterial, 0, len(*patch.Materials))
		for _, m := range *patch.Materials {
			materials = append(materials, entity.DesignMaterial{
				DesignID:         d.ID,
				InventoryItemID:  m.InventoryItemID,
				QuantityRequired: m.QuantityRequired,
			})
		}
		if err := s.repo.ReplaceMaterials(d.ID, materials); err != nil {
			return nil, fmt.Errorf("更新花样物料清单失败: %w", err)
		}
	}
	return s.GetByID(id)
}

// UpdateStatus 花样状态流转。批准记录批准人和时间，驳回要求填原因。
func (s *DesignService) UpdateStatus(id, status, userID, rejectionReason string) (*entity.Design, error) {
	switch status {
	case entity.DesignStatusSubmitted, entity.DesignStatusReviewed,
		entity.DesignStatusApproved, entity.DesignStatusRejected:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	d, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	d.Status = status
	if status == entity.DesignStatusApproved {
		now := time.Now()
		d.ApprovedBy = userID
		d.ApprovalDate = &now
		d.RejectionReason = ""
	}
	if status == entity.DesignStatusRejected {
		if rejectionReason == "" {
			return nil, fmt.Errorf("%w: 驳回必须填写原因", ErrInvalidStatus)
		}
		d.RejectionReason = rejectionReason
	}
	if err := s.repo.Update(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DesignService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
