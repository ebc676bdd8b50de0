package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/backend/internal/domain/shared"
)

func TestNewTestUUID(t *testing.T) {
	a := NewTestUUID("fixture-a")
	b := NewTestUUID("fixture-a")
	c := NewTestUUID("fixture-b")

	assert.Equal(t, a, b, "same seed must yield the same UUID")
	assert.NotEqual(t, a, c, "different seeds must yield different UUIDs")
	assert.NotEqual(t, uuid.Nil, a)
}

func TestNewSQLiteDB(t *testing.T) {
	type widget struct {
		ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
		Name string    `gorm:"type:varchar(100);not null"`
	}

	db := NewSQLiteDB(t, &widget{})

	w := widget{ID: uuid.New(), Name: "leash"}
	require.NoError(t, db.Create(&w).Error)

	var got widget
	require.NoError(t, db.First(&got, "id = ?", w.ID).Error)
	assert.Equal(t, "leash", got.Name)
}

func TestNewAccessToken(t *testing.T) {
	svc := NewTestJWTService()
	userID := TestUserID()
	storeID := TestStoreID()

	token := NewAccessToken(t, svc, userID, "cashier1",
		WithStore(storeID),
		WithRoles("CASHIER"),
		WithPermissions("sales:create", "sales:read"),
	)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "cashier1", claims.Username)
	assert.Equal(t, storeID.String(), claims.StoreID)
	assert.Equal(t, []string{"CASHIER"}, claims.RoleCodes)
	assert.Contains(t, claims.Permissions, "sales:create")
}

func TestCapturingEventHandler(t *testing.T) {
	h := NewCapturingEventHandler("sales.transaction.completed")

	assert.Equal(t, []string{"sales.transaction.completed"}, h.EventTypes())
	assert.Equal(t, 0, h.HandledCount())

	evt := shared.NewBaseDomainEvent("sales.transaction.completed", "SalesTransaction", uuid.New())
	require.NoError(t, h.Handle(t.Context(), &evt))

	assert.Equal(t, 1, h.HandledCount())
	assert.True(t, h.WaitForEvents(1, 100*time.Millisecond))
	assert.Equal(t, "sales.transaction.completed", h.Handled()[0].EventType())
}
