package database_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/localnerve/lookout/internal/config"
	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/dbtest"
	"github.com/localnerve/lookout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, database.LogLevel("SILENT"))
	assert.Equal(t, logger.Error, database.LogLevel("error"))
	assert.Equal(t, logger.Info, database.LogLevel("info"))
	assert.Equal(t, logger.Warn, database.LogLevel(""))
	assert.Equal(t, logger.Warn, database.LogLevel("chatty"))
}

func TestDialectorUnsupported(t *testing.T) {
	_, err := database.Dialector(&config.Config{DBType: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type: oracle")

	for _, dbType := range []string{"mysql", "mariadb", "postgres", "sqlite", "sqlite-purego", "sqlserver"} {
		d, err := database.Dialector(&config.Config{DBType: dbType, DBDatabase: "lookout"})
		require.NoError(t, err, dbType)
		assert.NotNil(t, d, dbType)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, database.IsDuplicateKey(nil))
	assert.False(t, database.IsDuplicateKey(errors.New("connection refused")))
	assert.True(t, database.IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, database.IsDuplicateKey(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, database.IsDuplicateKey(&mysql.MySQLError{Number: 1045}))
	assert.True(t, database.IsDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, database.IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
}

func TestIsDuplicateKeySQLite(t *testing.T) {
	db := dbtest.OpenMemory(t)

	require.NoError(t, db.Create(&models.User{Email: "a@example.com", PasswordHash: "x", FullName: "A"}).Error)
	err := db.Create(&models.User{Email: "a@example.com", PasswordHash: "y", FullName: "B"}).Error
	require.Error(t, err)
	assert.True(t, database.IsDuplicateKey(err))

	err = db.First(&models.User{}, 999).Error
	assert.True(t, database.IsNotFound(err))
}

// TestDialects runs the migration and the unique constraint against real servers.
// Set LOOKOUT_CONTAINER_TESTS=1 (and optionally MARIADB_IMAGE, POSTGRES_IMAGE) to run.
func TestDialects(t *testing.T) {
	if testing.Short() || os.Getenv("LOOKOUT_CONTAINER_TESTS") == "" {
		t.Skip("container tests disabled")
	}

	for dbType, image := range map[string]string{
		"mariadb":  os.Getenv("MARIADB_IMAGE"),
		"postgres": os.Getenv("POSTGRES_IMAGE"),
	} {
		t.Run(dbType, func(t *testing.T) {
			ctx := context.Background()
			spec, err := dbtest.DefaultSpec(dbType, image)
			require.NoError(t, err)

			c, err := dbtest.StartContainer(ctx, spec)
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Terminate(ctx) })

			db := connectWithRetry(t, c.Config)
			defer database.Close(db) //nolint:errcheck

			require.NoError(t, database.AutoMigrate(db))
			require.NoError(t, database.AutoMigrate(db), "migration is repeatable")

			phone := "555-0100"
			require.NoError(t, db.Create(&models.User{Email: "dup@example.com", Phone: &phone, PasswordHash: "x", FullName: "A"}).Error)
			err = db.Create(&models.User{Email: "dup@example.com", PasswordHash: "x", FullName: "B"}).Error
			assert.True(t, database.IsDuplicateKey(err), "email: %v", err)
			err = db.Create(&models.User{Email: "other@example.com", Phone: &phone, PasswordHash: "x", FullName: "C"}).Error
			assert.True(t, database.IsDuplicateKey(err), "phone: %v", err)

			// reserved word column
			n := models.Notification{UserID: 1, Message: "hello", Type: "info"}
			require.NoError(t, db.Create(&n).Error)
			require.NoError(t, db.Model(&models.Notification{}).Where(map[string]interface{}{"id": n.ID}).
				Updates(map[string]interface{}{"read": true}).Error)
			var count int64
			require.NoError(t, db.Model(&models.Notification{}).Where(map[string]interface{}{"read": true}).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})
	}
}

func connectWithRetry(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	var lastErr error
	for i := 0; i < 30; i++ {
		db, err := database.Connect(cfg)
		if err == nil {
			sqlDB, _ := db.DB()
			if lastErr = sqlDB.Ping(); lastErr == nil {
				return db
			}
			_ = database.Close(db)
		} else {
			lastErr = err
		}
		time.Sleep(time.Second)
	}
	t.Fatalf("database not ready after 30 seconds: %v", lastErr)
	return nil
}
