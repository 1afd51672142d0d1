package rider_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRider(t *testing.T) {
	t.Run("starts_offline_without_location", func(t *testing.T) {
		r, err := rider.NewRider(kernel.NewUUID())

		require.NoError(t, err)
		assert.Equal(t, rider.StatusOffline, r.Status())
		assert.True(t, r.IsOffline())
		assert.Nil(t, r.Location())
		assert.Nil(t, r.LocationAt())
	})

	t.Run("rejects_invalid_id", func(t *testing.T) {
		_, err := rider.NewRider(kernel.UUID{})

		require.Error(t, err)
	})
}

func TestRider_Validate(t *testing.T) {
	var r rider.Rider
	require.ErrorIs(t, r.Validate(), rider.ErrRiderIsNotConstructed)

	constructed, err := rider.NewRider(kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, constructed.Validate())
}

func TestRider_StatusChanges(t *testing.T) {
	r, err := rider.NewRider(kernel.NewUUID())
	require.NoError(t, err)

	require.NoError(t, r.SetStatus(rider.StatusAvailable))
	assert.Equal(t, rider.StatusAvailable, r.Status())

	require.NoError(t, r.MarkBusy())
	assert.Equal(t, rider.StatusBusy, r.Status())

	require.NoError(t, r.MarkAvailable())
	assert.Equal(t, rider.StatusAvailable, r.Status())

	require.Error(t, r.SetStatus(rider.StatusUnknown))
	assert.Equal(t, rider.StatusAvailable, r.Status())
}

func TestRider_UpdateLocation(t *testing.T) {
	r, err := rider.NewRider(kernel.NewUUID())
	require.NoError(t, err)

	point, err := kernel.NewGeoPoint(14.5995, 120.9842)
	require.NoError(t, err)
	now := time.Now()

	require.NoError(t, r.UpdateLocation(point, now))

	require.NotNil(t, r.Location())
	assert.True(t, r.Location().IsEqual(point))
	require.NotNil(t, r.LocationAt())
	assert.Equal(t, now, *r.LocationAt())

	var unconstructed kernel.GeoPoint
	require.Error(t, r.UpdateLocation(unconstructed, now))
}

func TestRestoreRider(t *testing.T) {
	id := kernel.NewUUID()
	point, err := kernel.NewGeoPoint(10, 20)
	require.NoError(t, err)
	at := time.Now()

	r, err := rider.RestoreRider(id, rider.StatusBusy, &point, &at)

	require.NoError(t, err)
	assert.True(t, r.ID().IsEqual(id))
	assert.Equal(t, rider.StatusBusy, r.Status())
	require.NotNil(t, r.Location())

	_, err = rider.RestoreRider(id, rider.StatusUnknown, nil, nil)
	require.Error(t, err)
}

func TestRiderStatus_RoundTrip(t *testing.T) {
	for _, status := range []rider.Status{rider.StatusAvailable, rider.StatusBusy, rider.StatusOffline} {
		parsed, err := rider.StatusFromString(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := rider.StatusFromString("RESTING")
	require.Error(t, err)
}

func TestRider_Snapshot(t *testing.T) {
	r, err := rider.NewRider(kernel.NewUUID())
	require.NoError(t, err)
	point, err := kernel.NewGeoPoint(14.5995, 120.9842)
	require.NoError(t, err)
	require.NoError(t, r.UpdateLocation(point, time.Now()))
	require.NoError(t, r.SetStatus(rider.StatusAvailable))

	snap := r.Snapshot()

	assert.Equal(t, r.ID().String(), snap.ID)
	assert.Equal(t, "AVAILABLE", snap.Status)
	require.NotNil(t, snap.Latitude)
	assert.InDelta(t, 14.5995, *snap.Latitude, 1e-9)
	require.NotNil(t, snap.LocationAt)
}
