package core

import "testing"

func TestDimensionsForRatio(t *testing.T) {
	tests := []struct {
		ratio  string
		width  int
		height int
		ok     bool
	}{
		{"21:9", 2016, 864, true},
		{"16:9", 1664, 936, true},
		{"3:2", 1584, 1056, true},
		{"4:3", 1472, 1104, true},
		{"8:7", 1344, 1176, true},
		{"1:1", 1328, 1328, true},
		{"7:8", 1176, 1344, true},
		{"3:4", 1104, 1472, true},
		{"2:3", 1056, 1584, true},
		{"9:16", 936, 1664, true},
		{"5:4", 0, 0, false},
		{"", 0, 0, false},
		{"16-9", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.ratio, func(t *testing.T) {
			w, h, ok := DimensionsForRatio(tt.ratio)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if w != tt.width || h != tt.height {
				t.Errorf("dimensions = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestSupportedRatiosSortedAndComplete(t *testing.T) {
	ratios := SupportedRatios()
	if len(ratios) != 10 {
		t.Fatalf("len = %d, want 10", len(ratios))
	}
	for i := 1; i < len(ratios); i++ {
		if ratios[i-1] >= ratios[i] {
			t.Errorf("ratios not sorted: %q before %q", ratios[i-1], ratios[i])
		}
	}
	for _, ratio := range ratios {
		if _, _, ok := DimensionsForRatio(ratio); !ok {
			t.Errorf("reported ratio %q has no dimensions", ratio)
		}
	}
}
