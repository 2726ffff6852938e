package handler

import (
	"math"
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

type workOrderTestEnv struct {
	DB        *gorm.DB
	Router    *gin.Engine
	MachineID string
	DesignID  string
	RedID     string
	BlueID    string
}

func setupWorkOrderTest(t *testing.T) *workOrderTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	machine := &entity.Machine{
		Name:                    "田岛一号机",
		Model:                   "TMEZ-1501",
		CapacityStitchesPerHour: 800000,
		SupportedThreadColors:   []string{"Red", "Blue", "Gold"},
		Status:                  entity.MachineStatusActive,
		Location:                "一车间",
	}
	if err := db.Create(machine).Error; err != nil {
		t.Fatalf("Failed to seed machine: %v", err)
	}

	design := &entity.Design{
		DesignName:   "凤凰牡丹",
		DesignerName: "张设计",
		Status:       entity.DesignStatusApproved,
	}
	if err := db.Create(design).Error; err != nil {
		t.Fatalf("Failed to seed design: %v", err)
	}

	red := &entity.Thread{Name: "大红绣线", Color: "Red", UnitCost: 5, QuantityInStock: 10, MinimumStockLevel: 5}
	blue := &entity.Thread{Name: "宝蓝绣线", Color: "Blue", UnitCost: 3, QuantityInStock: 50, MinimumStockLevel: 10}
	if err := db.Create(red).Error; err != nil {
		t.Fatalf("Failed to seed thread: %v", err)
	}
	if err := db.Create(blue).Error; err != nil {
		t.Fatalf("Failed to seed thread: %v", err)
	}

	repos := repository.NewRepositories(db)
	logger := zap.NewNop()
	validation := service.NewValidationService(repos.Machine, repos.Design)
	costing := service.NewCostingService(repos.WorkOrder, repos.Thread, repos.Design, repos.Costing, logger)
	woSvc := service.NewWorkOrderService(repos.WorkOrder, repos.Thread, repos.Alert, validation, logger)
	woHandler := NewWorkOrderHandler(woSvc, costing)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	workOrders := api.Group("/work-orders")
	workOrders.GET("", woHandler.List)
	workOrders.POST("", woHandler.Create)
	workOrders.GET("/:id", woHandler.Get)
	workOrders.POST("/:id/start", woHandler.Start)
	workOrders.POST("/:id/complete", woHandler.Complete)
	workOrders.POST("/:id/deliver", woHandler.Deliver)
	workOrders.PUT("/:id/status", woHandler.UpdateStatus)
	workOrders.PUT("/:id/force-status", woHandler.ForceStatus)
	workOrders.POST("/:id/cost", woHandler.CalculateCost)
	workOrders.GET("/:id/costing-records", woHandler.ListCostingRecords)

	return &workOrderTestEnv{
		DB:        db,
		Router:    router,
		MachineID: machine.ID,
		DesignID:  design.ID,
		RedID:     red.ID,
		BlueID:    blue.ID,
	}
}

func createWorkOrder(t *testing.T, env *workOrderTestEnv, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	token := testutil.DefaultTestToken()

	if body["machine_id"] == nil {
		body["machine_id"] = env.MachineID
	}
	if body["design_id"] == nil {
		body["design_id"] = env.DesignID
	}
	if body["quantity_to_produce"] == nil {
		body["quantity_to_produce"] = 10
	}

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func threadStock(t *testing.T, db *gorm.DB, id string) float64 {
	t.Helper()
	var thread entity.Thread
	if err := db.First(&thread, "id = ?", id).Error; err != nil {
		t.Fatalf("Failed to load thread: %v", err)
	}
	return thread.QuantityInStock
}

func TestWorkOrderCreate(t *testing.T) {
	env := setupWorkOrderTest(t)

	wo := createWorkOrder(t, env, map[string]interface{}{
		"thread_colors_required": []string{"Red"},
		"thread_quantities":      []float64{8},
	})

	if wo["status"] != entity.WOStatusPending {
		t.Errorf("Expected status pending, got %v", wo["status"])
	}
	number, _ := wo["work_order_number"].(string)
	if len(number) < 3 || number[:3] != "WO-" {
		t.Errorf("Expected work order number starting with 'WO-', got %v", number)
	}
	// 建单不扣库存
	if stock := threadStock(t, env.DB, env.RedID); stock != 10 {
		t.Errorf("Expected Red stock untouched at 10, got %v", stock)
	}
}

func TestWorkOrderCreateRejectsUnapprovedDesign(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	draft := &entity.Design{DesignName: "草稿花样", Status: entity.DesignStatusSubmitted}
	if err := env.DB.Create(draft).Error; err != nil {
		t.Fatalf("Failed to seed design: %v", err)
	}

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders", map[string]interface{}{
		"machine_id":          env.MachineID,
		"design_id":           draft.ID,
		"quantity_to_produce": 10,
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWorkOrderCreateRejectsUnsupportedColor(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders", map[string]interface{}{
		"machine_id":             env.MachineID,
		"design_id":              env.DesignID,
		"quantity_to_produce":    10,
		"thread_colors_required": []string{"Green"},
		"thread_quantities":      []float64{2},
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWorkOrderStartDeductsThreadAndAlerts(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	wo := createWorkOrder(t, env, map[string]interface{}{
		"thread_colors_required": []string{"Red"},
		"thread_quantities":      []float64{8},
	})
	woID := wo["id"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/start", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.WOStatusInProgress {
		t.Errorf("Expected status in_progress, got %v", data["status"])
	}
	if data["actual_start_time"] == nil {
		t.Error("Expected actual_start_time to be set")
	}

	// 10 - 8 = 2，越过安全库存 5，应生成补货预警
	if stock := threadStock(t, env.DB, env.RedID); stock != 2 {
		t.Errorf("Expected Red stock 2, got %v", stock)
	}
	var alertCount int64
	env.DB.Model(&entity.Alert{}).
		Where("alert_type = ? AND entity_id = ?", entity.AlertTypeReorder, env.RedID).
		Count(&alertCount)
	if alertCount != 1 {
		t.Errorf("Expected 1 reorder alert, got %d", alertCount)
	}
}

func TestWorkOrderStartInsufficientStockRollsBack(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	// Red 只有 10，Blue 充足。要 12 份 Red，应整体回滚且 Blue 不动。
	wo := createWorkOrder(t, env, map[string]interface{}{
		"thread_colors_required": []string{"Blue", "Red"},
		"thread_quantities":      []float64{5, 12},
	})
	woID := wo["id"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/start", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}

	if stock := threadStock(t, env.DB, env.RedID); stock != 10 {
		t.Errorf("Expected Red stock unchanged at 10, got %v", stock)
	}
	if stock := threadStock(t, env.DB, env.BlueID); stock != 50 {
		t.Errorf("Expected Blue stock unchanged at 50, got %v", stock)
	}

	var reloaded entity.WorkOrder
	env.DB.First(&reloaded, "id = ?", woID)
	if reloaded.Status != entity.WOStatusPending {
		t.Errorf("Expected work order still pending, got %v", reloaded.Status)
	}
}

func TestWorkOrderDoubleStartRejected(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	wo := createWorkOrder(t, env, map[string]interface{}{
		"thread_colors_required": []string{"Blue"},
		"thread_quantities":      []float64{5},
	})
	woID := wo["id"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/start", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on first start, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/start", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 on second start, got %d: %s", w.Code, w.Body.String())
	}

	// 第二次不应重复扣线
	if stock := threadStock(t, env.DB, env.BlueID); stock != 45 {
		t.Errorf("Expected Blue stock 45, got %v", stock)
	}
}

func TestWorkOrderCompleteFromPendingRejected(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	wo := createWorkOrder(t, env, map[string]interface{}{})
	woID := wo["id"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/complete",
		map[string]interface{}{"quantity_completed": 10}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWorkOrderLifecycle(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	wo := createWorkOrder(t, env, map[string]interface{}{
		"thread_colors_required": []string{"Blue"},
		"thread_quantities":      []float64{2},
	})
	woID := wo["id"].(string)

	// 未完工不可交付
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/deliver", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 delivering pending order, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/start", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on start, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/complete",
		map[string]interface{}{"quantity_completed": 9}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on complete, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.WOStatusCompleted {
		t.Errorf("Expected status completed, got %v", data["status"])
	}
	if data["quantity_completed"].(float64) != 9 {
		t.Errorf("Expected quantity_completed 9, got %v", data["quantity_completed"])
	}
	if data["actual_end_time"] == nil {
		t.Error("Expected actual_end_time to be set")
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/deliver", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on deliver, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["status"] != entity.WOStatusDelivered {
		t.Errorf("Expected status delivered, got %v", data["status"])
	}
}

func TestWorkOrderUpdateStatusHonorsTransitionTable(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	wo := createWorkOrder(t, env, map[string]interface{}{})
	woID := wo["id"].(string)

	// 跳级 pending → completed 拒绝
	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/work-orders/"+woID+"/status",
		map[string]string{"status": entity.WOStatusCompleted}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// 非法状态值拒绝
	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/work-orders/"+woID+"/status",
		map[string]string{"status": "bogus"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWorkOrderForceStatusBypassesTransitions(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	wo := createWorkOrder(t, env, map[string]interface{}{})
	woID := wo["id"].(string)

	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/work-orders/"+woID+"/force-status",
		map[string]string{"status": entity.WOStatusDelivered}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.WOStatusDelivered {
		t.Errorf("Expected status delivered, got %v", data["status"])
	}
}

func TestWorkOrderCostCalculation(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	// Red 8 份 × 5 元 = 40 元线材，120 分钟
	wo := createWorkOrder(t, env, map[string]interface{}{
		"thread_colors_required":    []string{"Red"},
		"thread_quantities":         []float64{8},
		"estimated_production_time": 120,
	})
	woID := wo["id"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/cost", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	breakdown := data["breakdown"].(map[string]interface{})

	expect := map[string]float64{
		"thread_cost":   40,
		"machine_cost":  100,
		"labor_cost":    30,
		"overhead_cost": 25.5,
		"total_cost":    195.5,
	}
	for field, want := range expect {
		got, _ := breakdown[field].(float64)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected %s %v, got %v", field, want, got)
		}
	}

	// 工单成本字段落库
	var reloaded entity.WorkOrder
	env.DB.First(&reloaded, "id = ?", woID)
	if math.Abs(reloaded.TotalCost-195.5) > 1e-9 {
		t.Errorf("Expected persisted total cost 195.5, got %v", reloaded.TotalCost)
	}

	// 生成核算记录
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/work-orders/"+woID+"/costing-records", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	records := resp["data"].(map[string]interface{})["records"].([]interface{})
	if len(records) != 1 {
		t.Fatalf("Expected 1 costing record, got %d", len(records))
	}
}

func TestWorkOrderListFilterByStatus(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	createWorkOrder(t, env, map[string]interface{}{})
	wo := createWorkOrder(t, env, map[string]interface{}{
		"thread_colors_required": []string{"Blue"},
		"thread_quantities":      []float64{1},
	})
	woID := wo["id"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/work-orders/"+woID+"/start", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on start, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/work-orders?status=in_progress", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 in_progress work order, got %d", len(items))
	}
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 1 {
		t.Errorf("Expected total 1, got %v", pagination["total"])
	}
}
