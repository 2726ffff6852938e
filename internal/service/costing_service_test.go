package service

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeBreakdown(t *testing.T) {
	// 120 分钟、40 元线材：机时 2h×50=100，人工 2h×15=30，管理费 (40+100+30)×0.15=25.5
	b := ComputeBreakdown(40, 120)

	if !approxEqual(b.ThreadCost, 40) {
		t.Errorf("Expected thread cost 40, got %v", b.ThreadCost)
	}
	if !approxEqual(b.MachineCost, 100) {
		t.Errorf("Expected machine cost 100, got %v", b.MachineCost)
	}
	if !approxEqual(b.LaborCost, 30) {
		t.Errorf("Expected labor cost 30, got %v", b.LaborCost)
	}
	if !approxEqual(b.OverheadCost, 25.5) {
		t.Errorf("Expected overhead cost 25.5, got %v", b.OverheadCost)
	}
	if !approxEqual(b.TotalCost, 195.5) {
		t.Errorf("Expected total cost 195.5, got %v", b.TotalCost)
	}
	if !approxEqual(b.EstimatedHours, 2) {
		t.Errorf("Expected 2 estimated hours, got %v", b.EstimatedHours)
	}
}

func TestComputeBreakdownDefaultMinutes(t *testing.T) {
	// 未填预计工时按 60 分钟
	b := ComputeBreakdown(0, 0)

	if !approxEqual(b.EstimatedHours, 1) {
		t.Errorf("Expected 1 estimated hour, got %v", b.EstimatedHours)
	}
	if !approxEqual(b.MachineCost, 50) {
		t.Errorf("Expected machine cost 50, got %v", b.MachineCost)
	}
	if !approxEqual(b.LaborCost, 15) {
		t.Errorf("Expected labor cost 15, got %v", b.LaborCost)
	}
	if !approxEqual(b.TotalCost, 74.75) {
		t.Errorf("Expected total cost 74.75, got %v", b.TotalCost)
	}
}

func TestComputeBreakdownTotalIncludesOverhead(t *testing.T) {
	b := ComputeBreakdown(100, 30)

	subtotal := b.ThreadCost + b.MachineCost + b.LaborCost
	if !approxEqual(b.OverheadCost, subtotal*OverheadPercentage) {
		t.Errorf("Expected overhead %v, got %v", subtotal*OverheadPercentage, b.OverheadCost)
	}
	if !approxEqual(b.TotalCost, subtotal+b.OverheadCost) {
		t.Errorf("Expected total %v, got %v", subtotal+b.OverheadCost, b.TotalCost)
	}
}
