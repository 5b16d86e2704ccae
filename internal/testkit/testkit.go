// Package testkit holds shared fixtures for store and handler tests: a
// throwaway in-memory database with the full schema and helpers to act as a
// given user.
package testkit

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a migrated and seeded database private to the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:gudang_test_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every goroutine on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	return db
}

// Use installs db as the package-level handle for the duration of the test.
func Use(t *testing.T, db *gorm.DB) {
	t.Helper()
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
}

// Profile stores a profile with the given role and returns it as an Actor.
func Profile(t *testing.T, db *gorm.DB, email string, role models.UserRole) scope.Actor {
	t.Helper()
	p := models.Profile{Email: email, Name: email, Role: role, PasswordHash: "x"}
	require.NoError(t, db.Create(&p).Error)
	return scope.Actor{ID: p.ID, Email: p.Email, Name: p.Name, Role: p.Role}
}

// AsActor is a stand-in for auth.JWTMiddleware that installs actor directly.
func AsActor(actor scope.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.CtxActorKey, actor)
		return c.Next()
	}
}
