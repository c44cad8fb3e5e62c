package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandlift/partnerfit/internal/model"
)

func TestWindowSizeFor(t *testing.T) {
	assert.Equal(t, 8, windowSizeFor(model.AnalysisTypeBrandFit))
	assert.Equal(t, defaultWindowSize, windowSizeFor("unknown"))
}

func TestWindows(t *testing.T) {
	handles := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("h%d", i)
		}
		return out
	}

	tests := []struct {
		name  string
		count int
		size  int
		want  []int
	}{
		{name: "empty", count: 0, size: 8, want: nil},
		{name: "one partial window", count: 3, size: 8, want: []int{3}},
		{name: "exact window", count: 8, size: 8, want: []int{8}},
		{name: "full plus remainder", count: 10, size: 8, want: []int{8, 2}},
		{name: "fifty handles", count: 50, size: 8, want: []int{8, 8, 8, 8, 8, 8, 2}},
		{name: "non-positive size falls back", count: 9, size: 0, want: []int{8, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := handles(tt.count)
			got := windows(in, tt.size)

			var sizes []int
			flat := make([]string, 0, tt.count)
			for _, w := range got {
				sizes = append(sizes, len(w))
				flat = append(flat, w...)
			}
			assert.Equal(t, tt.want, sizes)
			// Order is preserved and every handle appears exactly once.
			assert.Equal(t, in, flat)
		})
	}
}
