package x11

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRect(t *testing.T) {
	tests := []struct {
		name                       string
		x, y, width, height        int
		wantX, wantY, wantW, wantH int
	}{
		{"in range", 100, 200, 1024, 768, 100, 200, 1024, 768},
		{"zero size raised to one", 0, 0, 0, 0, 0, 0, 1, 1},
		{"position past int16", 40000, -40000, 800, 600, math.MaxInt16, math.MinInt16, 800, 600},
		{"size past uint16", 0, 0, 70000, math.MaxInt, 0, 0, math.MaxUint16, math.MaxUint16},
		{"saturated persisted values", math.MaxInt, math.MaxInt, math.MaxInt, math.MaxInt, math.MaxInt16, math.MaxInt16, math.MaxUint16, math.MaxUint16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := ClampRect(tt.x, tt.y, tt.width, tt.height)
			assert.Equal(t, []int{tt.wantX, tt.wantY, tt.wantW, tt.wantH}, []int{x, y, w, h})
		})
	}
}
