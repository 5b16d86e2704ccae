package scope_test

import (
	"context"
	"testing"

	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"
	"gudang-backend/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFiltersStandardActor(t *testing.T) {
	db := testkit.Open(t)

	alice := models.Profile{Email: "alice@saj.id", PasswordHash: "x", Role: models.RoleUser}
	bob := models.Profile{Email: "bob@saj.id", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	require.NoError(t, db.Create(&models.Product{Name: "Kayu", OwnerID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Besi", OwnerID: bob.ID}).Error)

	var own []models.Product
	require.NoError(t, scope.Apply(db, scope.Actor{ID: alice.ID, Role: models.RoleUser}, "owner_id").Find(&own).Error)
	require.Len(t, own, 1)
	assert.Equal(t, alice.ID, own[0].OwnerID)

	var all []models.Product
	require.NoError(t, scope.Apply(db, scope.Actor{ID: "admin", Role: models.RoleSuperAdmin}, "owner_id").Find(&all).Error)
	assert.Len(t, all, 2)
}

func TestResolveOwnersPlaceholder(t *testing.T) {
	db := testkit.Open(t)

	alice := models.Profile{Email: "alice@saj.id", PasswordHash: "x"}
	require.NoError(t, db.Create(&alice).Error)

	owners := scope.ResolveOwners(context.Background(), db, []string{alice.ID, alice.ID, "missing", ""})
	assert.Equal(t, "alice@saj.id", owners.Email(alice.ID))
	assert.Equal(t, scope.UnknownOwner, owners.Email("missing"))
	assert.Len(t, owners, 1)
}

func TestOwnerEmailsOnlyForElevated(t *testing.T) {
	db := testkit.Open(t)

	assert.Nil(t, scope.OwnerEmails(context.Background(), db, scope.Actor{ID: "u", Role: models.RoleUser}, []string{"u"}))
	assert.NotNil(t, scope.OwnerEmails(context.Background(), db, scope.Actor{ID: "a", Role: models.RoleSuperAdmin}, []string{"u"}))
}

func TestOwns(t *testing.T) {
	user := scope.Actor{ID: "u1", Role: models.RoleUser}
	admin := scope.Actor{ID: "a1", Role: models.RoleSuperAdmin}

	assert.True(t, user.Owns("u1"))
	assert.False(t, user.Owns("u2"))
	assert.True(t, admin.Owns("u2"))
}
