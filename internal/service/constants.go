package service

// 成本核算常量。与历史核算记录保持一致，调整需评估存量报价。
const (
	MachineCostPerHour = 50.0
	LaborCostPerHour   = 15.0
	OverheadPercentage = 0.15

	// DefaultProductionMinutes 工单未填预计工时时的缺省值
	DefaultProductionMinutes = 60
)
