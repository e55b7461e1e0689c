package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trail-point/api-go/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the full schema.
// The pool is pinned to a single connection because each in-memory
// sqlite connection is its own database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))

	for _, name := range []string{models.RoleUser, models.RoleAdmin} {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		RoleID:   1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPlace(t *testing.T, db *gorm.DB, name string, coinReward, expReward int64) *models.Place {
	t.Helper()
	place := &models.Place{
		Name:          name,
		Latitude:      40.9901,
		Longitude:     29.0290,
		CoinReward:    coinReward,
		ExpReward:     expReward,
		Status:        models.PlaceStatusActive,
		CheckinRadius: 100,
	}
	require.NoError(t, db.Create(place).Error)
	return place
}

// fundUser credits coins through the ledger so the cached balance and
// the entry sum stay in agreement, the same way production money
// arrives.
func fundUser(t *testing.T, db *gorm.DB, userID uint, coins int64) {
	t.Helper()
	ledger := NewLedgerService(db)
	require.NoError(t, ledger.AdjustBalance(userID, CurrencyCoin, coins, 1, "test funding"))
}

func reloadUser(t *testing.T, db *gorm.DB, userID uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return &user
}

func reloadPlace(t *testing.T, db *gorm.DB, placeID uint) *models.Place {
	t.Helper()
	var place models.Place
	require.NoError(t, db.First(&place, placeID).Error)
	return &place
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}
