package service

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService 库存台账：扣减、补货、批量扣减与低库存预警。
type InventoryService struct {
	repo       *repository.InventoryRepository
	threadRepo *repository.ThreadRepository
	alertRepo  *repository.AlertRepository
	logger     *zap.Logger
}

func NewInventoryService(repo *repository.InventoryRepository, threadRepo *repository.ThreadRepository, alertRepo *repository.AlertRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, threadRepo: threadRepo, alertRepo: alertRepo, logger: logger}
}

func (s *InventoryService) List() ([]entity.InventoryItem, error) {
	return s.repo.List()
}

func (s *InventoryService) GetByID(id string) (*entity.InventoryItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 库存物料 %s", ErrNotFound, id)
		}
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Create(item *entity.InventoryItem) error {
	return s.repo.Create(item)
}

// UpdateItemPatch 库存物料的部分更新字段。只接受显式列出的字段。
type UpdateItemPatch struct {
	ItemName          *string  `json:"item_name"`
	ItemType          *string  `json:"item_type"`
	Description       *string  `json:"description"`
	MinimumStockLevel *float64 `json:"minimum_stock_level"`
	UnitCost          *float64 `json:"unit_cost"`
	Supplier          *string  `json:"supplier"`
	ReorderQuantity   *float64 `json:"reorder_quantity"`
	UnitMeasurement   *string  `json:"unit_measurement"`
}

func (s *InventoryService) Update(id string, patch UpdateItemPatch) (*entity.InventoryItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.ItemName != nil {
		item.ItemName = *patch.ItemName
	}
	if patch.ItemType != nil {
		item.ItemType = *patch.ItemType
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.MinimumStockLevel != nil {
		item.MinimumStockLevel = *patch.MinimumStockLevel
	}
	if patch.UnitCost != nil {
		item.UnitCost = *patch.UnitCost
	}
	if patch.Supplier != nil {
		item.Supplier = *patch.Supplier
	}
	if patch.ReorderQuantity != nil {
		item.ReorderQuantity = *patch.ReorderQuantity
	}
	if patch.UnitMeasurement != nil {
		item.UnitMeasurement = *patch.UnitMeasurement
	}
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Deduct 扣减库存。余额不足时不产生任何变更。
// 扣减后余额跌破最低库存线则追加一条 reorder 预警，
// 预警失败只记日志，绝不影响扣减结果。
func (s *InventoryService) Deduct(id string, quantity float64) (*entity.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %.4f", ErrInvalidQuantity, quantity)
	}
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.Deduct(id, quantity)
	if err != nil {
		return nil, fmt.Errorf("扣减库存失败: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s 可用%.4f，需要%.4f", ErrInsufficientStock, item.ItemName, item.QuantityAvailable, quantity)
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if updated.QuantityAvailable <= updated.MinimumStockLevel {
		s.emitLowStockAlert(entity.AlertTypeReorder, "inventory_item", updated.ID,
			fmt.Sprintf("补货预警: %s", updated.ItemName),
			fmt.Sprintf("物料「%s」库存已跌破最低库存线(%.4f/%.4f)", updated.ItemName, updated.QuantityAvailable, updated.MinimumStockLevel))
	}
	return updated, nil
}

// Restock 补货。数量必须为正；不会清除既有预警，预警消解是独立的人工操作。
func (s *InventoryService) Restock(id string, quantity float64) (*entity.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: 补货数量 %.4f", ErrInvalidQuantity, quantity)
	}
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	if _, err := s.repo.Restock(id, quantity); err != nil {
		return nil, fmt.Errorf("补货失败: %w", err)
	}
	return s.repo.GetByID(id)
}

// BulkDeductResult 批量扣减单项结果
type BulkDeductResult struct {
	ID      string                `json:"id"`
	Success bool                  `json:"success"`
	Item    *entity.InventoryItem `json:"item,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// BulkDeduct 逐项独立扣减，互不影响。部分成功是定义行为，不回滚。
func (s *InventoryService) BulkDeduct(itemIDs []string, quantities []float64) ([]BulkDeductResult, error) {
	if len(itemIDs) != len(quantities) {
		return nil, fmt.Errorf("%w: 物料数与数量数不一致", ErrInvalidQuantity)
	}
	results := make([]BulkDeductResult, 0, len(itemIDs))
	for i, id := range itemIDs {
		item, err := s.Deduct(id, quantities[i])
		if err != nil {
			results = append(results, BulkDeductResult{ID: id, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, BulkDeductResult{ID: id, Success: true, Item: item})
	}
	return results, nil
}

func (s *InventoryService) ListLowStock() ([]entity.InventoryItem, error) {
	return s.repo.ListLowStock()
}

// emitLowStockAlert 尽力而为，失败只告警日志
func (s *InventoryService) emitLowStockAlert(alertType, entityType, entityID, title, message string) {
	alert := &entity.Alert{
		AlertType:  alertType,
		EntityType: entityType,
		EntityID:   entityID,
		Title:      title,
		Message:    message,
	}
	if err := s.alertRepo.Create(alert); err != nil {
		s.logger.Warn("Failed to create low stock alert",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

func (s *InventoryService) ListThreads() ([]entity.Thread, error) {
	return s.threadRepo.List()
}

func (s *InventoryService) GetThread(id string) (*entity.Thread, error) {
	t, err := s.threadRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 线材 %s", ErrNotFound, id)
		}
		return nil, err
	}
	return t, nil
}

func (s *InventoryService) CreateThread(t *entity.Thread) error {
	return s.threadRepo.Create(t)
}

// DeductThread 线材扣减，契约与 Deduct 相同
func (s *InventoryService) DeductThread(id string, quantity float64) (*entity.Thread, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %.4f", ErrInvalidQuantity, quantity)
	}
	t, err := s.GetThread(id)
	if err != nil {
		return nil, err
	}
	affected, err := s.threadRepo.DeductByColor(nil, t.Color, quantity)
	if err != nil {
		return nil, fmt.Errorf("扣减线材失败: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s(%s) 库存%.4f，需要%.4f", ErrInsufficientStock, t.Name, t.Color, t.QuantityInStock, quantity)
	}
	updated, err := s.threadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if updated.QuantityInStock <= updated.MinimumStockLevel {
		s.emitLowStockAlert(entity.AlertTypeReorder, "thread", updated.ID,
			fmt.Sprintf("补货预警: %s", updated.Name),
			fmt.Sprintf("线材「%s」(%s)库存已跌破最低库存线", updated.Name, updated.Color))
	}
	return updated, nil
}

// RestockThread 线材补货
func (s *InventoryService) RestockThread(id string, quantity float64) (*entity.Thread, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: 补货数量 %.4f", ErrInvalidQuantity, quantity)
	}
	if _, err := s.GetThread(id); err != nil {
		return nil, err
	}
	if _, err := s.threadRepo.Restock(id, quantity); err != nil {
		return nil, fmt.Errorf("补货失败: %w", err)
	}
	return s.threadRepo.GetByID(id)
}

func (s *InventoryService) ListLowStockThreads() ([]entity.Thread, error) {
	return s.threadRepo.ListLowStock()
}

// ExportInventory 导出库存清单为xlsx
func (s *InventoryService) ExportInventory() (*excelize.File, string, error) {
	items, err := s.repo.List()
	if err != nil {
		return nil, "", fmt.Errorf("读取库存失败: %w", err)
	}
	threads, err := s.threadRepo.List()
	if err != nil {
		return nil, "", fmt.Errorf("读取线材失败: %w", err)
	}

	f := excelize.NewFile()
	sheet := "库存"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})

	headers := []string{"名称", "类型", "可用数量", "最低库存", "单位成本", "供应商"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "F1", boldStyle)

	row := 2
	for _, item := range items {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.ItemType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.QuantityAvailable)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.MinimumStockLevel)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.UnitCost)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Supplier)
		row++
	}
	for _, t := range threads {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("thread/%s", t.Color))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t.QuantityInStock)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), t.MinimumStockLevel)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), t.UnitCost)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), t.Supplier)
		row++
	}

	return f, "inventory.xlsx", nil
}
