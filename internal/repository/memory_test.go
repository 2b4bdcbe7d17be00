package repository

import (
	"testing"

	"go-campus-assets/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeleteByIDStampsActor(t *testing.T) {
	repo := NewMemoryResourceRepo()
	resource := model.Resource{
		SerialNo:   7,
		DeviceName: "Dell Latitude 5520",
		Quantity:   5,
		Location:   "Lab A",
		Department: "Computer Science",
		Cost:       45000,
	}
	require.NoError(t, repo.Create(&resource))

	affected, err := repo.DeleteByID(resource.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// The record leaves the live set but keeps the audit trail.
	_, err = repo.FindByID(resource.ID)
	assert.Error(t, err)
	tombstone, ok := repo.deleted[resource.ID]
	require.True(t, ok)
	assert.Equal(t, "admin-1", tombstone.DeletedBy)
	assert.True(t, tombstone.DeletedAt.Valid)

	// Deleting again affects nothing.
	affected, err = repo.DeleteByID(resource.ID, "admin-2")
	require.NoError(t, err)
	assert.Zero(t, affected)

	// The serial stays reserved even after the delete.
	next, err := repo.NextSerialNo()
	require.NoError(t, err)
	assert.Equal(t, int64(8), next)
}

func TestMemoryDeleteByIDUnknownID(t *testing.T) {
	repo := NewMemoryResourceRepo()

	affected, err := repo.DeleteByID(uuid.New(), "admin-1")
	require.NoError(t, err)
	assert.Zero(t, affected)
}
