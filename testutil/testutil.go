// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"blogcms/config"
	"blogcms/database"
	"blogcms/models"
	"blogcms/utils"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const JWTSecret = "test-secret-test-secret-test-secret"

// Config returns a sqlite-backed configuration rooted in a temp dir.
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:               "0",
		GinMode:            "test",
		DBDriver:           config.DriverSQLite,
		DBPath:             filepath.Join(t.TempDir(), "blogcms.db"),
		DBLogLevel:         "silent",
		JWTSecret:          JWTSecret,
		JWTIssuer:          "blogcms",
		JWTAudience:        "blogcms-dashboard",
		JWTTTL:             time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
}

// NewDB opens a migrated sqlite database that is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return NewDBWithConfig(t, Config(t))
}

func NewDBWithConfig(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func NewTokenService(clock utils.Clock) *utils.TokenService {
	return utils.NewTokenService(JWTSecret, "blogcms", "blogcms-dashboard", time.Hour, clock)
}

// CreateUser inserts a user with a random identity and the given password.
func CreateUser(t *testing.T, db *gorm.DB, password string) *models.User {
	t.Helper()

	user := &models.User{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(category).Error)
	return category
}
