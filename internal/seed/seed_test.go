package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/testutil"
)

var admin = Admin{Email: " Admin@Clinic.test ", Password: "s3cret!", Name: "Admin"}

func TestRunSeedsEmptyDatabase(t *testing.T) {
	db := testutil.NewDB(t)

	res, err := Run(context.Background(), db, admin)
	require.NoError(t, err)

	assert.Equal(t, "admin@clinic.test", res.User.Email)
	require.NotNil(t, res.User.EmailVerified)
	require.NotNil(t, res.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*res.User.PasswordHash), []byte("s3cret!")))

	var roles, perms, users, userRoles, rolePerms int64
	db.Model(&models.Role{}).Count(&roles)
	db.Model(&models.Permission{}).Count(&perms)
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.UserRole{}).Where("user_id = ? AND role_id = ?", res.User.ID, res.Role.ID).Count(&userRoles)
	db.Model(&models.RolePermission{}).Where("role_id = ? AND permission_id = ?", res.Role.ID, res.Permission.ID).Count(&rolePerms)

	assert.EqualValues(t, 1, roles)
	assert.EqualValues(t, 1, perms)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, userRoles)
	assert.EqualValues(t, 1, rolePerms)
	assert.Equal(t, authz.PermViewDashboard, res.Permission.Name)
}

func TestRunFailsOnRerun(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := Run(context.Background(), db, admin)
	require.NoError(t, err)

	_, err = Run(context.Background(), db, admin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	var roles int64
	db.Model(&models.Role{}).Count(&roles)
	assert.EqualValues(t, 1, roles)
}
