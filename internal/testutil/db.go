// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/clinic-admin/internal/db"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: strings.Split(email, "@")[0]}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()
	r := &models.Role{Name: name}
	require.NoError(t, db.Create(r).Error)
	return r
}

func CreatePermission(t *testing.T, db *gorm.DB, name string) *models.Permission {
	t.Helper()
	p := &models.Permission{Name: name}
	require.NoError(t, db.Create(p).Error)
	return p
}
