package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/bitfantasy/nimo-embroidery/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type inventoryTestEnv struct {
	DB       *gorm.DB
	Router   *gin.Engine
	NeedleID string
	ClothID  string
	RedID    string
}

func setupInventoryTest(t *testing.T) *inventoryTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	needle := &entity.InventoryItem{
		ItemName:          "75/11 绣花针",
		ItemType:          entity.ItemTypeNeedle,
		QuantityAvailable: 100,
		MinimumStockLevel: 20,
		UnitCost:          0.5,
		UnitMeasurement:   "pcs",
	}
	cloth := &entity.InventoryItem{
		ItemName:          "纯棉衬布",
		ItemType:          entity.ItemTypeBackingCloth,
		QuantityAvailable: 5,
		MinimumStockLevel: 10,
		UnitCost:          2,
		UnitMeasurement:   "m",
	}
	if err := db.Create(needle).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	if err := db.Create(cloth).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}

	red := &entity.Thread{Name: "大红绣线", Color: "Red", UnitCost: 5, QuantityInStock: 10, MinimumStockLevel: 5}
	if err := db.Create(red).Error; err != nil {
		t.Fatalf("Failed to seed thread: %v", err)
	}

	repos := repository.NewRepositories(db)
	invSvc := service.NewInventoryService(repos.Inventory, repos.Thread, repos.Alert, zap.NewNop())
	invHandler := NewInventoryHandler(invSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	inventory := api.Group("/inventory")
	inventory.GET("", invHandler.List)
	inventory.POST("", invHandler.Create)
	inventory.GET("/low-stock", invHandler.LowStock)
	inventory.GET("/export", invHandler.Export)
	inventory.POST("/bulk-deduct", invHandler.BulkDeduct)
	inventory.GET("/:id", invHandler.Get)
	inventory.PUT("/:id", invHandler.Update)
	inventory.POST("/:id/deduct", invHandler.Deduct)
	inventory.POST("/:id/restock", invHandler.Restock)

	threads := api.Group("/threads")
	threads.GET("", invHandler.ListThreads)
	threads.POST("/:id/deduct", invHandler.DeductThread)
	threads.POST("/:id/restock", invHandler.RestockThread)
	threads.GET("/low-stock", invHandler.LowStockThreads)

	return &inventoryTestEnv{
		DB:       db,
		Router:   router,
		NeedleID: needle.ID,
		ClothID:  cloth.ID,
		RedID:    red.ID,
	}
}

func itemBalance(t *testing.T, db *gorm.DB, id string) float64 {
	t.Helper()
	var item entity.InventoryItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("Failed to load item: %v", err)
	}
	return item.QuantityAvailable
}

func TestInventoryDeductAndRestock(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inventory/"+env.NeedleID+"/deduct",
		map[string]float64{"quantity": 30}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["quantity_available"].(float64) != 70 {
		t.Errorf("Expected balance 70, got %v", data["quantity_available"])
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/inventory/"+env.NeedleID+"/restock",
		map[string]float64{"quantity": 50}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if balance := itemBalance(t, env.DB, env.NeedleID); balance != 120 {
		t.Errorf("Expected balance 120, got %v", balance)
	}
}

func TestInventoryDeductInsufficient(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inventory/"+env.ClothID+"/deduct",
		map[string]float64{"quantity": 8}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// 余额不动，不允许负库存
	if balance := itemBalance(t, env.DB, env.ClothID); balance != 5 {
		t.Errorf("Expected balance unchanged at 5, got %v", balance)
	}
}

func TestInventoryDeductRejectsNonPositiveQuantity(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inventory/"+env.NeedleID+"/deduct",
		map[string]float64{"quantity": -3}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInventoryRestockRejectsNonPositiveQuantity(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inventory/"+env.NeedleID+"/restock",
		map[string]float64{"quantity": -10}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInventoryDeductBelowMinimumCreatesAlert(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	// 100 - 85 = 15，低于安全库存 20
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inventory/"+env.NeedleID+"/deduct",
		map[string]float64{"quantity": 85}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var alertCount int64
	env.DB.Model(&entity.Alert{}).
		Where("alert_type = ? AND entity_id = ?", entity.AlertTypeReorder, env.NeedleID).
		Count(&alertCount)
	if alertCount != 1 {
		t.Errorf("Expected 1 reorder alert, got %d", alertCount)
	}
}

func TestInventoryBulkDeductPartialSuccess(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	// 针够、衬布不够：逐项独立结算，不回滚成功项
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inventory/bulk-deduct",
		map[string]interface{}{
			"item_ids":   []string{env.NeedleID, env.ClothID},
			"quantities": []float64{10, 50},
		}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	results := resp["data"].(map[string]interface{})["results"].([]interface{})
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	first := results[0].(map[string]interface{})
	second := results[1].(map[string]interface{})
	if first["success"] != true {
		t.Errorf("Expected first deduction to succeed: %v", first)
	}
	if second["success"] != false {
		t.Errorf("Expected second deduction to fail: %v", second)
	}

	if balance := itemBalance(t, env.DB, env.NeedleID); balance != 90 {
		t.Errorf("Expected needle balance 90, got %v", balance)
	}
	if balance := itemBalance(t, env.DB, env.ClothID); balance != 5 {
		t.Errorf("Expected cloth balance unchanged at 5, got %v", balance)
	}
}

func TestInventoryLowStockList(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	// 衬布 5 < 10 已在安全线以下
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/inventory/low-stock", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 low stock item, got %d", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["item_name"] != "纯棉衬布" {
		t.Errorf("Expected 纯棉衬布, got %v", item["item_name"])
	}
}

func TestThreadDeductAndRestock(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/threads/"+env.RedID+"/deduct",
		map[string]float64{"quantity": 4}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["quantity_in_stock"].(float64) != 6 {
		t.Errorf("Expected stock 6, got %v", data["quantity_in_stock"])
	}

	// 超扣拒绝
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/threads/"+env.RedID+"/deduct",
		map[string]float64{"quantity": 100}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/threads/"+env.RedID+"/restock",
		map[string]float64{"quantity": 10}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["quantity_in_stock"].(float64) != 16 {
		t.Errorf("Expected stock 16, got %v", data["quantity_in_stock"])
	}
}

func TestInventoryExport(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/inventory/export", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("Expected non-empty xlsx body")
	}
}
