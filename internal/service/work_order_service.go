package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkOrderService 工单状态机：pending → in_progress → completed → delivered。
// 投产（Start）在单个数据库事务内完成行锁、状态校验、逐色扣线，
// 任一线色不足则整体回滚，不会留下部分扣减。
type WorkOrderService struct {
	repo       *repository.WorkOrderRepository
	threadRepo *repository.ThreadRepository
	alertRepo  *repository.AlertRepository
	validation *ValidationService
	logger     *zap.Logger
}

func NewWorkOrderService(repo *repository.WorkOrderRepository, threadRepo *repository.ThreadRepository, alertRepo *repository.AlertRepository, validation *ValidationService, logger *zap.Logger) *WorkOrderService {
	return &WorkOrderService{
		repo:       repo,
		threadRepo: threadRepo,
		alertRepo:  alertRepo,
		validation: validation,
		logger:     logger,
	}
}

// validTransitions 合法状态转换表，不允许跳级
var validTransitions = map[string]string{
	entity.WOStatusPending:    entity.WOStatusInProgress,
	entity.WOStatusInProgress: entity.WOStatusCompleted,
	entity.WOStatusCompleted:  entity.WOStatusDelivered,
}

// CanTransition 判断 from → to 是否为合法转换
func CanTransition(from, to string) bool {
	next, ok := validTransitions[from]
	return ok && next == to
}

func isValidStatus(status string) bool {
	switch status {
	case entity.WOStatusPending, entity.WOStatusInProgress,
		entity.WOStatusCompleted, entity.WOStatusDelivered:
		return true
	}
	return false
}

type CreateWorkOrderRequest struct {
	WorkOrderNumber         string    `json:"work_order_number"`
	MachineID               string    `json:"machine_id" binding:"required"`
	DesignID                string    `json:"design_id" binding:"required"`
	CustomerOrderID         string    `json:"customer_order_id"`
	AssignedOperatorID      string    `json:"assigned_operator_id"`
	QuantityToProduce       int       `json:"quantity_to_produce" binding:"required,gt=0"`
	ThreadColorsRequired    []string  `json:"thread_colors_required"`
	ThreadQuantities        []float64 `json:"thread_quantities"`
	EstimatedProductionTime int       `json:"estimated_production_time"`
}

// Create 建单。校验花样批准与机器线色兼容；不触碰库存。
func (s *WorkOrderService) Create(req CreateWorkOrderRequest, userID string) (*entity.WorkOrder, error) {
	if len(req.ThreadColorsRequired) != len(req.ThreadQuantities) {
		return nil, fmt.Errorf("%w: 线色数(%d)与用量数(%d)不一致", ErrInvalidQuantity, len(req.ThreadColorsRequired), len(req.ThreadQuantities))
	}
	for i, q := range req.ThreadQuantities {
		if q <= 0 {
			return nil, fmt.Errorf("%w: 线色 %s 用量 %.4f", ErrInvalidQuantity, req.ThreadColorsRequired[i], q)
		}
	}

	number := req.WorkOrderNumber
	if number == "" {
		number = fmt.Sprintf("WO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
	}

	wo := &entity.WorkOrder{
		WorkOrderNumber:         number,
		MachineID:               req.MachineID,
		DesignID:                req.DesignID,
		CustomerOrderID:         req.CustomerOrderID,
		AssignedOperatorID:      req.AssignedOperatorID,
		QuantityToProduce:       req.QuantityToProduce,
		ThreadColorsRequired:    req.ThreadColorsRequired,
		ThreadQuantities:        req.ThreadQuantities,
		EstimatedProductionTime: req.EstimatedProductionTime,
		Status:                  entity.WOStatusPending,
		CreatedBy:               userID,
	}

	if err := s.validation.ValidateForStart(wo); err != nil {
		return nil, err
	}

	if err := s.repo.Create(wo); err != nil {
		return nil, fmt.Errorf("创建工单失败: %w", err)
	}
	return wo, nil
}

// lowStockThread 事务内收集，提交后统一发预警
type lowStockThread struct {
	thread *entity.Thread
	color  string
}

// Start 投产。整个操作在一个事务内：
//  1. 行锁读取工单，要求当前状态为 pending（并发 Start 在锁上串行化）；
//  2. 复核花样/机器校验；
//  3. 按 (线色, 用量) 逐对条件扣减，任一色不足即回滚全部；
//  4. 落 actual_start_time，状态置 in_progress。
//
// 低库存预警在事务提交后发出，预警失败不影响投产结果。
func (s *WorkOrderService) Start(id string) (*entity.WorkOrder, error) {
	var started *entity.WorkOrder
	var lowStock []lowStockThread

	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		wo, err := s.repo.GetByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: 工单 %s", ErrNotFound, id)
			}
			return err
		}
		if wo.Status != entity.WOStatusPending {
			return fmt.Errorf("%w: 只能从 pending 投产，当前 %s", ErrInvalidTransition, wo.Status)
		}

		if err := s.validation.ValidateForStart(wo); err != nil {
			return err
		}

		for i, color := range wo.ThreadColorsRequired {
			quantity := wo.ThreadQuantities[i]

			exists, err := s.threadRepo.ExistsByColor(tx, color)
			if err != nil {
				return err
			}
			if !exists {
				// 无对应线材记录时跳过扣减，口径与成本核算一致
				s.logger.Warn("Thread color has no stock record, skipping deduction",
					zap.String("work_order", wo.WorkOrderNumber),
					zap.String("color", color))
				continue
			}

			affected, err := s.threadRepo.DeductByColor(tx, color, quantity)
			if err != nil {
				return fmt.Errorf("扣减线材失败: %w", err)
			}
			if affected == 0 {
				return fmt.Errorf("%w: 线色 %s 需要%.4f", ErrInsufficientStock, color, quantity)
			}

			var t entity.Thread
			if err := tx.Where("color = ?", color).First(&t).Error; err != nil {
				return err
			}
			if t.QuantityInStock <= t.MinimumStockLevel {
				thread := t
				lowStock = append(lowStock, lowStockThread{thread: &thread, color: color})
			}
		}

		now := time.Now()
		wo.Status = entity.WOStatusInProgress
		wo.ActualStartTime = &now
		if err := tx.Save(wo).Error; err != nil {
			return fmt.Errorf("更新工单状态失败: %w", err)
		}
		started = wo
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ls := range lowStock {
		alert := &entity.Alert{
			AlertType:  entity.AlertTypeReorder,
			EntityType: "thread",
			EntityID:   ls.thread.ID,
			Title:      fmt.Sprintf("补货预警: %s", ls.thread.Name),
			Message:    fmt.Sprintf("线材「%s」(%s)库存已跌破最低库存线", ls.thread.Name, ls.color),
		}
		if err := s.alertRepo.Create(alert); err != nil {
			s.logger.Warn("Failed to create reorder alert after work order start",
				zap.String("thread_id", ls.thread.ID),
				zap.Error(err))
		}
	}

	return started, nil
}

// Complete 完工。要求当前状态为 in_progress，记录完成数量与结束时间。
func (s *WorkOrderService) Complete(id string, quantityCompleted int) (*entity.WorkOrder, error) {
	if quantityCompleted <= 0 {
		return nil, fmt.Errorf("%w: 完成数量 %d", ErrInvalidQuantity, quantityCompleted)
	}

	var completed *entity.WorkOrder
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		wo, err := s.repo.GetByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: 工单 %s", ErrNotFound, id)
			}
			return err
		}
		if wo.Status != entity.WOStatusInProgress {
			return fmt.Errorf("%w: 只能从 in_progress 完工，当前 %s", ErrInvalidTransition, wo.Status)
		}

		now := time.Now()
		wo.QuantityCompleted = quantityCompleted
		wo.ActualEndTime = &now
		wo.Status = entity.WOStatusCompleted
		if err := tx.Save(wo).Error; err != nil {
			return fmt.Errorf("更新工单失败: %w", err)
		}
		completed = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Deliver 交付。终态，只能从 completed 进入。
func (s *WorkOrderService) Deliver(id string) (*entity.WorkOrder, error) {
	return s.transition(id, entity.WOStatusDelivered)
}

// UpdateStatus 通用状态修改，走与 Start/Complete 相同的转换表，拒绝跳级。
// 行政纠错请用 ForceStatus。
func (s *WorkOrderService) UpdateStatus(id, status string) (*entity.WorkOrder, error) {
	if !isValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return s.transition(id, status)
}

func (s *WorkOrderService) transition(id, target string) (*entity.WorkOrder, error) {
	var updated *entity.WorkOrder
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		wo, err := s.repo.GetByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: 工单 %s", ErrNotFound, id)
			}
			return err
		}
		if !CanTransition(wo.Status, target) {
			return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, wo.Status, target)
		}
		wo.Status = target
		if err := tx.Save(wo).Error; err != nil {
			return err
		}
		updated = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ForceStatus 管理员强制改状态，绕过转换表。唯一允许跳级的入口，必留痕。
func (s *WorkOrderService) ForceStatus(id, status, operatorID string) (*entity.WorkOrder, error) {
	if !isValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	var updated *entity.WorkOrder
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		wo, err := s.repo.GetByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: 工单 %s", ErrNotFound, id)
			}
			return err
		}
		from := wo.Status
		wo.Status = status
		if err := tx.Save(wo).Error; err != nil {
			return err
		}
		s.logger.Warn("Work order status forced",
			zap.String("work_order", wo.WorkOrderNumber),
			zap.String("from", from),
			zap.String("to", status),
			zap.String("operator", operatorID))
		updated = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *WorkOrderService) GetByID(id string) (*entity.WorkOrder, error) {
	wo, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 工单 %s", ErrNotFound, id)
		}
		return nil, err
	}
	return wo, nil
}

func (s *WorkOrderService) List(params repository.WOListParams) ([]entity.WorkOrder, int64, error) {
	return s.repo.List(params)
}
