package service

import (
	"testing"

	"github.com/bitfantasy/nimo-embroidery/internal/entity"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{entity.WOStatusPending, entity.WOStatusInProgress, true},
		{entity.WOStatusInProgress, entity.WOStatusCompleted, true},
		{entity.WOStatusCompleted, entity.WOStatusDelivered, true},

		// 不允许跳级
		{entity.WOStatusPending, entity.WOStatusCompleted, false},
		{entity.WOStatusPending, entity.WOStatusDelivered, false},
		{entity.WOStatusInProgress, entity.WOStatusDelivered, false},

		// 不允许回退
		{entity.WOStatusInProgress, entity.WOStatusPending, false},
		{entity.WOStatusCompleted, entity.WOStatusInProgress, false},
		{entity.WOStatusDelivered, entity.WOStatusCompleted, false},

		// 终态无出边
		{entity.WOStatusDelivered, entity.WOStatusPending, false},

		{"bogus", entity.WOStatusInProgress, false},
		{entity.WOStatusPending, "bogus", false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestMachineSupportsColors(t *testing.T) {
	m := &entity.Machine{SupportedThreadColors: []string{"Red", "Blue", "Gold"}}

	if !m.SupportsColors([]string{"Red", "Gold"}) {
		t.Error("Expected Red/Gold to be supported")
	}
	if !m.SupportsColors(nil) {
		t.Error("Expected empty color list to be supported")
	}
	if m.SupportsColors([]string{"Red", "Green"}) {
		t.Error("Expected Green to be unsupported")
	}
}
