package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestEstimateRemaining(t *testing.T) {
	tests := []struct {
		name     string
		progress *float64
		elapsed  *float64
		want     *int
	}{
		{name: "half done after ten minutes", progress: f64(0.5), elapsed: f64(600), want: intp(10)},
		{name: "quarter done after five minutes", progress: f64(0.25), elapsed: f64(300), want: intp(15)},
		{name: "complete", progress: f64(1), elapsed: f64(3600), want: intp(0)},
		{name: "rounds half to even", progress: f64(0.5), elapsed: f64(150), want: intp(2)},
		{name: "progress past one floors at zero", progress: f64(1.5), elapsed: f64(600), want: intp(0)},
		{name: "zero progress", progress: f64(0), elapsed: f64(100)},
		{name: "negative progress", progress: f64(-0.1), elapsed: f64(100)},
		{name: "zero elapsed", progress: f64(0.5), elapsed: f64(0)},
		{name: "missing progress", elapsed: f64(100)},
		{name: "missing elapsed", progress: f64(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateRemaining(tt.progress, tt.elapsed)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intp(v int) *int { return &v }
