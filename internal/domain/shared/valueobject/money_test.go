package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(19.99), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(19.99)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), Currency(""))
		assert.Error(t, err)
	})

	t.Run("parses money from string", func(t *testing.T) {
		m, err := NewMoneyFromString("42.50", EUR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.50)))
	})

	t.Run("rejects malformed string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.50)
	b := NewMoneyUSDFromFloat(4.25)

	t.Run("adds amounts with same currency", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(14.75)))
	})

	t.Run("subtracts amounts", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(6.25)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		eur, err := NewMoney(decimal.NewFromInt(5), EUR)
		require.NoError(t, err)
		_, err = a.Add(eur)
		assert.Error(t, err)
	})

	t.Run("multiplies by quantity", func(t *testing.T) {
		m := a.MultiplyByInt(3)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(31.50)))
	})

	t.Run("original values are unchanged", func(t *testing.T) {
		assert.True(t, a.Amount().Equal(decimal.NewFromFloat(10.50)))
		assert.True(t, b.Amount().Equal(decimal.NewFromFloat(4.25)))
	})
}

func TestMoney_Comparison(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyUSDFromFloat(20)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, a.Equals(NewMoneyUSDFromFloat(10)))
	assert.False(t, a.Equals(b))
}

func TestMoney_JSON(t *testing.T) {
	m := NewMoneyUSDFromFloat(99.95)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Discount(t *testing.T) {
	m := NewMoneyUSDFromFloat(200)

	discounted := m.ApplyDiscount(decimal.NewFromInt(25))
	assert.True(t, discounted.Amount().Equal(decimal.NewFromInt(150)))

	tenth := m.CalculatePercentage(decimal.NewFromInt(10))
	assert.True(t, tenth.Amount().Equal(decimal.NewFromInt(20)))
}
