package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid_coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(14.5995, 120.9842)

		require.NoError(t, err)
		assert.InDelta(t, 14.5995, point.Latitude(), 1e-9)
		assert.InDelta(t, 120.9842, point.Longitude(), 1e-9)
		require.NoError(t, point.Validate())
	})

	t.Run("boundary_coordinates_are_valid", func(t *testing.T) {
		testCases := []struct {
			name     string
			lat, lon float64
		}{
			{"min_latitude", -90, 0},
			{"max_latitude", 90, 0},
			{"min_longitude", 0, -180},
			{"max_longitude", 0, 180},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lon)
				require.NoError(t, err)
			})
		}
	})

	t.Run("out_of_range_coordinates_are_rejected", func(t *testing.T) {
		testCases := []struct {
			name     string
			lat, lon float64
		}{
			{"latitude_too_small", -90.1, 0},
			{"latitude_too_large", 90.1, 0},
			{"longitude_too_small", 0, -180.1},
			{"longitude_too_large", 0, 180.1},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lon)
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			})
		}
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var point kernel.GeoPoint

		err := point.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, err)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, err := kernel.NewGeoPoint(10, 20)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(10, 20)
	require.NoError(t, err)
	c, err := kernel.NewGeoPoint(10, 21)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestGeoPoint_String(t *testing.T) {
	point, err := kernel.NewGeoPoint(14.5995, 120.9842)
	require.NoError(t, err)

	assert.Equal(t, "14.599500,120.984200", point.String())
}
