package scheduler

import "testing"

func TestAllocate(t *testing.T) {
	tests := []struct {
		name      string
		units     int
		cost      int
		remaining int
		want      int
	}{
		{"credits cover the whole queue", 50, 5, 10, 10},
		{"credits cover half the queue", 25, 5, 10, 5},
		{"credits below one generation", 4, 5, 10, 0},
		{"exact single generation", 5, 5, 10, 1},
		{"remainder credits ignored", 27, 5, 10, 5},
		{"queue shorter than credits allow", 100, 5, 3, 3},
		{"zero units", 0, 5, 10, 0},
		{"zero remaining", 50, 5, 0, 0},
		{"negative units", -10, 5, 10, 0},
		{"zero cost", 50, 0, 10, 0},
		{"negative cost", 50, -1, 10, 0},
		{"negative remaining", 50, 5, -3, 0},
		{"cost one", 7, 1, 10, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.units, tt.cost, tt.remaining)
			if got != tt.want {
				t.Errorf("Allocate(%d, %d, %d) = %d, want %d",
					tt.units, tt.cost, tt.remaining, got, tt.want)
			}
		})
	}
}

func TestCapAllocation(t *testing.T) {
	tests := []struct {
		name       string
		allocation int
		limit      int
		want       int
	}{
		{"no limit", 10, 0, 10},
		{"negative limit means no limit", 10, -1, 10},
		{"limit above allocation", 5, 10, 5},
		{"limit below allocation", 10, 3, 3},
		{"limit equals allocation", 7, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capAllocation(tt.allocation, tt.limit)
			if got != tt.want {
				t.Errorf("capAllocation(%d, %d) = %d, want %d",
					tt.allocation, tt.limit, got, tt.want)
			}
		})
	}
}
