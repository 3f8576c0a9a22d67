package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceMeters(12.9716, 77.5946, 12.9716, 77.5946))
}

func TestDistanceMeters_KnownPairs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		{
			name: "bengaluru to chennai",
			lat1: 12.9716, lon1: 77.5946,
			lat2: 13.0827, lon2: 80.2707,
			want:      290200,
			tolerance: 2000,
		},
		{
			name: "delhi to mumbai",
			lat1: 28.6139, lon1: 77.2090,
			lat2: 19.0760, lon2: 72.8777,
			want:      1153000,
			tolerance: 10000,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want:      111195,
			tolerance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	d1 := DistanceMeters(28.6139, 77.2090, 19.0760, 72.8777)
	d2 := DistanceMeters(19.0760, 72.8777, 28.6139, 77.2090)
	assert.Equal(t, d1, d2)
}

func TestDistanceMeters_SmallOffsets(t *testing.T) {
	// A pure latitude offset of d meters corresponds to d/R radians, so the
	// formula should reproduce it almost exactly at GPS-jitter scale.
	for _, meters := range []float64{1, 4.99, 5, 10, 100} {
		dLat := meters / EarthRadiusMeters * 180 / math.Pi
		got := DistanceMeters(12.9716, 77.5946, 12.9716+dLat, 77.5946)
		assert.InDelta(t, meters, got, 1e-6)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.99, Round2(4.994999))
	assert.Equal(t, 5.0, Round2(4.995001))
	assert.Equal(t, 0.0, Round2(0))
}
