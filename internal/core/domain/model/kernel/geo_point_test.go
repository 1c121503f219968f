package kernel_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	testCases := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"origin", 0, 0, false},
		{"bounds", 90, -180, false},
		{"latitude too large", 90.01, 0, true},
		{"latitude too small", -91, 0, true},
		{"longitude too large", 0, 180.5, true},
		{"nan latitude", math.NaN(), 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tc.lat, tc.lng)
			if tc.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.InDelta(t, tc.lat, p.Lat(), 1e-12)
			assert.InDelta(t, tc.lng, p.Lng(), 1e-12)
		})
	}
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	testCases := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{"same point", 1, 1, 1, 1, 0, 1e-9},
		{"one degree of latitude", 0, 0, 1, 0, 111.195, 0.001},
		{"Lagos to Abuja", 6.5244, 3.3792, 9.0765, 7.3986, 524, 10},
		{"New York to Los Angeles", 40.7128, -74.0060, 34.0522, -118.2437, 3944, 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := kernel.NewGeoPoint(tc.lat1, tc.lng1)
			require.NoError(t, err)
			b, err := kernel.NewGeoPoint(tc.lat2, tc.lng2)
			require.NoError(t, err)

			got, err := a.DistanceKm(b)
			require.NoError(t, err)
			assert.InDelta(t, tc.wantKm, got, tc.tolerance)

			back, err := b.DistanceKm(a)
			require.NoError(t, err)
			assert.InDelta(t, got, back, 1e-9)
		})
	}
}

func TestGeoPoint_DistanceKm_RejectsZeroValue(t *testing.T) {
	p, err := kernel.NewGeoPoint(1, 1)
	require.NoError(t, err)

	_, err = p.DistanceKm(kernel.GeoPoint{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestPlace(t *testing.T) {
	point, err := kernel.NewGeoPoint(6.45, 3.39)
	require.NoError(t, err)

	place, err := kernel.NewPlace(point, "12 Marina Rd", kernel.Region{City: "Lagos", State: "Lagos", Country: "NG"})
	require.NoError(t, err)
	require.NoError(t, place.Validate())
	assert.Equal(t, "12 Marina Rd", place.Address())
	assert.Equal(t, "Lagos", place.Region().City)

	moved := place.WithStateAndCountry(kernel.Region{State: "Ogun", Country: "BJ"})
	assert.Equal(t, "Lagos", moved.Region().City)
	assert.Equal(t, "Ogun", moved.Region().State)
	assert.Equal(t, "BJ", moved.Region().Country)
	assert.Equal(t, "Lagos", place.Region().State, "original place is unchanged")

	_, err = kernel.NewPlace(kernel.GeoPoint{}, "", kernel.Region{})
	require.Error(t, err)
}
