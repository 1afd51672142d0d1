package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid_amount", func(t *testing.T) {
		m, err := kernel.NewMoney(4900)

		require.NoError(t, err)
		assert.Equal(t, int64(4900), m.Centavos())
		assert.InDelta(t, 49.0, m.Pesos(), 1e-9)
	})

	t.Run("zero_is_valid", func(t *testing.T) {
		m, err := kernel.NewMoney(0)

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("negative_is_rejected", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestNewMoneyFromPesos(t *testing.T) {
	m, err := kernel.NewMoneyFromPesos(50)

	require.NoError(t, err)
	assert.Equal(t, int64(5000), m.Centavos())
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a, _ := kernel.NewMoney(4900)
		b, _ := kernel.NewMoney(100)

		assert.Equal(t, int64(5000), a.Add(b).Centavos())
	})

	t.Run("multiply_by_quantity", func(t *testing.T) {
		price, _ := kernel.NewMoney(2500)

		total, err := price.MultiplyBy(3)

		require.NoError(t, err)
		assert.Equal(t, int64(7500), total.Centavos())
	})

	t.Run("multiply_by_negative_quantity_is_rejected", func(t *testing.T) {
		price, _ := kernel.NewMoney(2500)

		_, err := price.MultiplyBy(-1)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_String(t *testing.T) {
	m, _ := kernel.NewMoney(4950)

	assert.Equal(t, "49.50", m.String())
}
