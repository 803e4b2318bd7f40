package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/testutil"
)

func userRoleIDs(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Order("role_id ASC").
		Pluck("role_id", &ids).Error)
	return ids
}

func rolePermissionIDs(t *testing.T, db *gorm.DB, roleID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.RolePermission{}).
		Where("role_id = ?", roleID).
		Order("permission_id ASC").
		Pluck("permission_id", &ids).Error)
	return ids
}

func TestReplaceUserRoles_ExactSet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ana@clinic.test")
	admin := testutil.CreateRole(t, db, "admin")
	doctor := testutil.CreateRole(t, db, "doctor")
	nurse := testutil.CreateRole(t, db, "nurse")

	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []uint{admin.ID, doctor.ID}))
	assert.Equal(t, []uint{admin.ID, doctor.ID}, userRoleIDs(t, db, user.ID))

	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []uint{nurse.ID}))
	assert.Equal(t, []uint{nurse.ID}, userRoleIDs(t, db, user.ID))

	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, nil))
	assert.Empty(t, userRoleIDs(t, db, user.ID))
}

func TestReplaceUserRoles_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ana@clinic.test")
	a := testutil.CreateRole(t, db, "a")
	b := testutil.CreateRole(t, db, "b")

	list := []uint{b.ID, a.ID, b.ID}
	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, list))
	first := userRoleIDs(t, db, user.ID)

	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, list))
	assert.Equal(t, first, userRoleIDs(t, db, user.ID))
	assert.Equal(t, []uint{a.ID, b.ID}, first)
}

func TestReplaceUserRoles_LeavesOtherUsersAlone(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)
	ctx := context.Background()

	ana := testutil.CreateUser(t, db, "ana@clinic.test")
	bia := testutil.CreateUser(t, db, "bia@clinic.test")
	role := testutil.CreateRole(t, db, "doctor")

	require.NoError(t, repo.ReplaceUserRoles(ctx, bia.ID, []uint{role.ID}))
	require.NoError(t, repo.ReplaceUserRoles(ctx, ana.ID, nil))

	assert.Equal(t, []uint{role.ID}, userRoleIDs(t, db, bia.ID))
}

func TestReplaceUserRoles_UnknownRoleRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ana@clinic.test")
	role := testutil.CreateRole(t, db, "doctor")
	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []uint{role.ID}))

	err := repo.ReplaceUserRoles(ctx, user.ID, []uint{role.ID, 999})
	assert.True(t, httperr.IsBusiness(err, "role_not_found"))
	assert.Equal(t, []uint{role.ID}, userRoleIDs(t, db, user.ID))
}

func TestReplaceUserRoles_UnknownUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)

	err := repo.ReplaceUserRoles(context.Background(), 42, nil)
	assert.True(t, httperr.IsBusiness(err, "user_not_found"))
	assert.Equal(t, httperr.MsgBadRequest, httperr.Message(err))
}

func TestReplaceRolePermissions_ExactSet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)
	ctx := context.Background()

	role := testutil.CreateRole(t, db, "admin")
	p1 := testutil.CreatePermission(t, db, "view:dashboard")
	p2 := testutil.CreatePermission(t, db, "view:roles")
	p3 := testutil.CreatePermission(t, db, "view:doctors")

	require.NoError(t, repo.ReplaceRolePermissions(ctx, role.ID, []uint{p1.ID, p2.ID}))
	assert.Equal(t, []uint{p1.ID, p2.ID}, rolePermissionIDs(t, db, role.ID))

	require.NoError(t, repo.ReplaceRolePermissions(ctx, role.ID, []uint{p3.ID, p1.ID}))
	assert.Equal(t, []uint{p1.ID, p3.ID}, rolePermissionIDs(t, db, role.ID))

	err := repo.ReplaceRolePermissions(ctx, role.ID, []uint{999})
	assert.True(t, httperr.IsBusiness(err, "permission_not_found"))
	assert.Equal(t, []uint{p1.ID, p3.ID}, rolePermissionIDs(t, db, role.ID))
}

func TestPermissionsForRoles_Distinct(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ana@clinic.test")
	admin := testutil.CreateRole(t, db, "admin")
	doctor := testutil.CreateRole(t, db, "doctor")
	shared := testutil.CreatePermission(t, db, "view:dashboard")
	roles := testutil.CreatePermission(t, db, "view:roles")

	require.NoError(t, repo.ReplaceRolePermissions(ctx, admin.ID, []uint{shared.ID, roles.ID}))
	require.NoError(t, repo.ReplaceRolePermissions(ctx, doctor.ID, []uint{shared.ID}))
	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []uint{admin.ID, doctor.ID}))

	got, err := repo.RolesForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	perms, err := repo.PermissionsForRoles(ctx, []uint{admin.ID, doctor.ID})
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, "view:dashboard", perms[0].Name)
	assert.Equal(t, "view:roles", perms[1].Name)

	none, err := repo.PermissionsForRoles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRole_RemovesLinks(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRBACGormRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ana@clinic.test")
	role := testutil.CreateRole(t, db, "admin")
	perm := testutil.CreatePermission(t, db, "view:dashboard")
	require.NoError(t, repo.ReplaceRolePermissions(ctx, role.ID, []uint{perm.ID}))
	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []uint{role.ID}))

	require.NoError(t, repo.DeleteRole(ctx, role.ID))

	assert.Empty(t, userRoleIDs(t, db, user.ID))
	assert.Empty(t, rolePermissionIDs(t, db, role.ID))
}
