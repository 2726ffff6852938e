package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CostingService 成本核算引擎。公式确定、无隐藏状态，重复核算结果一致。
type CostingService struct {
	woRepo      *repository.WorkOrderRepository
	threadRepo  *repository.ThreadRepository
	designRepo  *repository.DesignRepository
	costingRepo *repository.CostingRepository
	logger      *zap.Logger
}

func NewCostingService(woRepo *repository.WorkOrderRepository, threadRepo *repository.ThreadRepository, designRepo *repository.DesignRepository, costingRepo *repository.CostingRepository, logger *zap.Logger) *CostingService {
	return &CostingService{
		woRepo:      woRepo,
		threadRepo:  threadRepo,
		designRepo:  designRepo,
		costingRepo: costingRepo,
		logger:      logger,
	}
}

// CostBreakdown 成本各分项
type CostBreakdown struct {
	ThreadCost     float64 `json:"thread_cost"`
	MachineCost    float64 `json:"machine_cost"`
	LaborCost      float64 `json:"labor_cost"`
	OverheadCost   float64 `json:"overhead_cost"`
	TotalCost      float64 `json:"total_cost"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// ComputeBreakdown 纯算术：线材成本 + 机时/人工（按预计工时折小时）+ 15% 管理费。
// estimatedMinutes 为 0 时按缺省 60 分钟。
func ComputeBreakdown(threadCost float64, estimatedMinutes int) CostBreakdown {
	if estimatedMinutes <= 0 {
		estimatedMinutes = DefaultProductionMinutes
	}
	hours := float64(estimatedMinutes) / 60.0
	machineCost := MachineCostPerHour * hours
	laborCost := LaborCostPerHour * hours
	subtotal := threadCost + machineCost + laborCost
	overheadCost := subtotal * OverheadPercentage
	return CostBreakdown{
		ThreadCost:     threadCost,
		MachineCost:    machineCost,
		LaborCost:      laborCost,
		OverheadCost:   overheadCost,
		TotalCost:      subtotal + overheadCost,
		EstimatedHours: hours,
	}
}

// CalculateForWorkOrder 核算工单成本并落库：
// 更新工单上的成本字段，追加一条不可变的核算快照。
// 对工单状态没有前置要求，投产前调用得到的是预估成本。
func (s *CostingService) CalculateForWorkOrder(workOrderID, userID string) (*CostBreakdown, *entity.CostingRecord, error) {
	wo, err := s.woRepo.GetByID(workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: 工单 %s", ErrNotFound, workOrderID)
		}
		return nil, nil, err
	}

	threadCost, unmatched, err := s.threadCost(wo)
	if err != nil {
		return nil, nil, err
	}
	breakdown := ComputeBreakdown(threadCost, wo.EstimatedProductionTime)

	if err := s.woRepo.UpdateCost(wo.ID, breakdown.ThreadCost, breakdown.MachineCost,
		breakdown.LaborCost, breakdown.OverheadCost, breakdown.TotalCost); err != nil {
		return nil, nil, fmt.Errorf("更新工单成本失败: %w", err)
	}

	snapshot, _ := json.Marshal(map[string]interface{}{
		"thread_colors_required": wo.ThreadColorsRequired,
		"thread_quantities":      wo.ThreadQuantities,
		"estimated_hours":        breakdown.EstimatedHours,
		"unmatched_colors":       unmatched,
	})
	record := &entity.CostingRecord{
		WorkOrderID:   wo.ID,
		ThreadCost:    breakdown.ThreadCost,
		MachineCost:   breakdown.MachineCost,
		LaborCost:     breakdown.LaborCost,
		OverheadCost:  breakdown.OverheadCost,
		TotalCost:     breakdown.TotalCost,
		CostBreakdown: string(snapshot),
		CalculatedBy:  userID,
	}
	if err := s.costingRepo.Create(record); err != nil {
		return nil, nil, fmt.Errorf("创建核算记录失败: %w", err)
	}

	return &breakdown, record, nil
}

// threadCost 按线色匹配线材单价求和。
// 无匹配线材的色计 0 成本（与历史口径一致），记入快照并告警日志。
func (s *CostingService) threadCost(wo *entity.WorkOrder) (float64, []string, error) {
	var total float64
	var unmatched []string
	for i, color := range wo.ThreadColorsRequired {
		quantity := wo.ThreadQuantities[i]
		thread, err := s.threadRepo.GetByColor(color)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				unmatched = append(unmatched, color)
				s.logger.Warn("Thread color has no price record, costing at zero",
					zap.String("work_order", wo.WorkOrderNumber),
					zap.String("color", color))
				continue
			}
			return 0, nil, err
		}
		total += thread.UnitCost * quantity
	}
	return total, unmatched, nil
}

// OrderEstimate 客户订单（按花样）报价结果
type OrderEstimate struct {
	MaterialCost float64 `json:"material_cost"`
	MachineCost  float64 `json:"machine_cost"`
	LaborCost    float64 `json:"labor_cost"`
	OverheadCost float64 `json:"overhead_cost"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	TotalCost    float64 `json:"total_cost"`
	Quantity     int     `json:"quantity"`
}

// EstimateOrderCost 按花样物料清单预估订单成本：
// 单件物料成本 = Σ(物料单价 × 单件用量)，叠加机时/人工/管理费常量后乘以数量。
// 用于在任何工单存在之前为客户订单预填价格。
func (s *CostingService) EstimateOrderCost(designID string, quantity int) (*OrderEstimate, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: 订单数量 %d", ErrInvalidQuantity, quantity)
	}
	design, err := s.designRepo.GetByID(designID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 花样 %s", ErrNotFound, designID)
		}
		return nil, err
	}

	var materialCost float64
	for _, m := range design.Materials {
		if m.InventoryItem == nil {
			continue
		}
		materialCost += m.InventoryItem.UnitCost * m.QuantityRequired
	}

	unit := ComputeBreakdown(materialCost, DefaultProductionMinutes)
	return &OrderEstimate{
		MaterialCost: materialCost,
		MachineCost:  unit.MachineCost,
		LaborCost:    unit.LaborCost,
		OverheadCost: unit.OverheadCost,
		CostPerUnit:  unit.TotalCost,
		TotalCost:    unit.TotalCost * float64(quantity),
		Quantity:     quantity,
	}, nil
}

func (s *CostingService) ListRecords(workOrderID string) ([]entity.CostingRecord, error) {
	return s.costingRepo.ListByWorkOrder(workOrderID)
}
