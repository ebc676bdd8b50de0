package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Store Tests
// ============================================

func TestNewStore(t *testing.T) {
	t.Run("creates active retail store", func(t *testing.T) {
		s, err := NewRetailStore("NYC01", "Downtown Pet Shop")
		require.NoError(t, err)
		assert.Equal(t, "NYC01", s.Code)
		assert.Equal(t, TypeRetail, s.Type)
		assert.True(t, s.IsActive())
		assert.False(t, s.IsDistributionCenter())
	})

	t.Run("creates distribution center", func(t *testing.T) {
		s, err := NewDistributionCenter("DC01", "East Coast DC")
		require.NoError(t, err)
		assert.True(t, s.IsDistributionCenter())
	})

	t.Run("rejects unknown store type", func(t *testing.T) {
		_, err := NewStore("NYC01", "Downtown Pet Shop", Type("franchise"))
		assert.Error(t, err)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewRetailStore("", "Downtown Pet Shop")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRetailStore("NYC01", "")
		assert.Error(t, err)
	})
}

func TestStore_Lifecycle(t *testing.T) {
	s, err := NewRetailStore("NYC01", "Downtown Pet Shop")
	require.NoError(t, err)

	require.NoError(t, s.Deactivate())
	assert.False(t, s.IsActive())
	assert.Len(t, s.GetDomainEvents(), 2)

	require.NoError(t, s.Activate())
	assert.True(t, s.IsActive())

	assert.Error(t, s.Activate())
}

func TestStore_SetRegion(t *testing.T) {
	s, err := NewRetailStore("NYC01", "Downtown Pet Shop")
	require.NoError(t, err)

	regionID := uuid.New()
	s.SetRegion(&regionID)
	require.NotNil(t, s.RegionID)
	assert.Equal(t, regionID, *s.RegionID)

	s.SetRegion(nil)
	assert.Nil(t, s.RegionID)
}

func TestStore_Update(t *testing.T) {
	s, err := NewRetailStore("NYC01", "Downtown Pet Shop")
	require.NoError(t, err)

	require.NoError(t, s.Update("Downtown Pet Emporium"))
	assert.Equal(t, "Downtown Pet Emporium", s.Name)

	assert.Error(t, s.Update(""))
}

// ============================================
// Region Tests
// ============================================

func TestNewRegion(t *testing.T) {
	t.Run("creates region", func(t *testing.T) {
		r, err := NewRegion("NE", "Northeast")
		require.NoError(t, err)
		assert.Equal(t, "NE", r.Code)
		assert.Equal(t, "Northeast", r.Name)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewRegion("", "Northeast")
		assert.Error(t, err)
	})
}

func TestRegion_Update(t *testing.T) {
	r, err := NewRegion("NE", "Northeast")
	require.NoError(t, err)

	require.NoError(t, r.Update("North East", "NY NJ CT"))
	assert.Equal(t, "North East", r.Name)
	assert.Equal(t, "NY NJ CT", r.Description)
}
