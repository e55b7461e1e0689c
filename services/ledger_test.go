package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trail-point/api-go/models"
)

func TestAddCoinsWritesBalanceAndEntry(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")

	ref := models.Ref{Type: models.RefAdmin, ID: 1}
	require.NoError(t, ledger.AddCoins(db, user.ID, 25, ref, "welcome bonus"))

	assert.Equal(t, int64(25), reloadUser(t, db, user.ID).CoinBalance)

	var entry models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, int64(25), entry.Amount)
	assert.Equal(t, models.RefAdmin, entry.RefType)
	assert.Equal(t, uint(1), entry.RefID)
	assert.Equal(t, "welcome bonus", entry.Note)
}

func TestSpendCoinsWritesNegativeEntry(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 100)

	ref := models.Ref{Type: models.RefReward, ID: 7}
	require.NoError(t, ledger.SpendCoins(db, user.ID, 40, ref, "redeem: coffee"))

	assert.Equal(t, int64(60), reloadUser(t, db, user.ID).CoinBalance)

	var entry models.CoinTransaction
	require.NoError(t, db.Where("user_id = ? AND amount < 0", user.ID).First(&entry).Error)
	assert.Equal(t, int64(-40), entry.Amount)
	assert.Equal(t, models.RefReward, entry.RefType)
}

func TestBalanceAlwaysEqualsLedgerSum(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")

	adminRef := models.Ref{Type: models.RefAdmin, ID: 1}
	require.NoError(t, ledger.AddCoins(db, user.ID, 50, adminRef, ""))
	require.NoError(t, ledger.AddCoins(db, user.ID, 30, adminRef, ""))
	require.NoError(t, ledger.SpendCoins(db, user.ID, 20, models.Ref{Type: models.RefReward, ID: 3}, ""))
	require.NoError(t, ledger.AddCoins(db, user.ID, 5, models.Ref{Type: models.RefCheckin, ID: 9}, ""))
	require.NoError(t, ledger.SpendCoins(db, user.ID, 65, models.Ref{Type: models.RefReward, ID: 4}, ""))

	fromLedger, err := ledger.CoinBalanceFromLedger(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fromLedger)
	assert.Equal(t, fromLedger, reloadUser(t, db, user.ID).CoinBalance)
}

func TestSpendCoinsInsufficientLeavesNoTrace(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 30)
	entriesBefore := countRows(t, db, &models.CoinTransaction{}, "user_id = ?", user.ID)

	err := ledger.SpendCoins(db, user.ID, 31, models.Ref{Type: models.RefReward, ID: 1}, "")
	require.ErrorIs(t, err, ErrInsufficientCoins)

	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(30), insufficient.Balance)
	assert.Equal(t, int64(31), insufficient.Requested)

	assert.Equal(t, int64(30), reloadUser(t, db, user.ID).CoinBalance)
	assert.Equal(t, entriesBefore, countRows(t, db, &models.CoinTransaction{}, "user_id = ?", user.ID))
}

func TestSpendExactBalanceReachesZero(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 30)

	require.NoError(t, ledger.SpendCoins(db, user.ID, 30, models.Ref{Type: models.RefReward, ID: 1}, ""))
	assert.Equal(t, int64(0), reloadUser(t, db, user.ID).CoinBalance)
}

func TestSpendExpGuardsItsOwnBalance(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")

	ref := models.Ref{Type: models.RefAdmin, ID: 1}
	require.NoError(t, ledger.AddExp(db, user.ID, 10, ref, ""))

	err := ledger.SpendExp(db, user.ID, 11, ref, "")
	require.ErrorIs(t, err, ErrInsufficientExp)
	assert.Equal(t, int64(10), reloadUser(t, db, user.ID).ExpPoints)
}

func TestLedgerRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")
	ref := models.Ref{Type: models.RefAdmin, ID: 1}

	assert.ErrorIs(t, ledger.AddCoins(db, user.ID, 0, ref, ""), ErrInvalidAmount)
	assert.ErrorIs(t, ledger.AddCoins(db, user.ID, -5, ref, ""), ErrInvalidAmount)
	assert.ErrorIs(t, ledger.SpendCoins(db, user.ID, 0, ref, ""), ErrInvalidAmount)
	assert.ErrorIs(t, ledger.AddCoins(db, user.ID, 5, models.Ref{Type: "mystery", ID: 1}, ""), ErrInvalidTarget)
	assert.ErrorIs(t, ledger.AddCoins(db, 9999, 5, ref, ""), ErrUserNotFound)
	assert.ErrorIs(t, ledger.SpendCoins(db, 9999, 5, ref, ""), ErrUserNotFound)
}

func TestAdjustBalanceBothDirections(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")
	admin := createTestUser(t, db, "root")

	require.NoError(t, ledger.AdjustBalance(user.ID, CurrencyCoin, 100, admin.ID, "correction"))
	require.NoError(t, ledger.AdjustBalance(user.ID, CurrencyCoin, -40, admin.ID, "correction"))
	require.NoError(t, ledger.AdjustBalance(user.ID, CurrencyExp, 15, admin.ID, "correction"))

	reloaded := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(60), reloaded.CoinBalance)
	assert.Equal(t, int64(15), reloaded.ExpPoints)

	// Adjustments are attributed to the acting admin.
	var entry models.CoinTransaction
	require.NoError(t, db.Where("user_id = ? AND amount = ?", user.ID, -40).First(&entry).Error)
	assert.Equal(t, models.RefAdmin, entry.RefType)
	assert.Equal(t, admin.ID, entry.RefID)

	assert.ErrorIs(t, ledger.AdjustBalance(user.ID, "gems", 10, admin.ID, ""), ErrInvalidCurrency)
	assert.ErrorIs(t, ledger.AdjustBalance(user.ID, CurrencyCoin, 0, admin.ID, ""), ErrInvalidAmount)
	assert.ErrorIs(t, ledger.AdjustBalance(user.ID, CurrencyCoin, -100, admin.ID, ""), ErrInsufficientCoins)
}

func TestListCoinTransactionsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	user := createTestUser(t, db, "alice")
	ref := models.Ref{Type: models.RefAdmin, ID: 1}

	for i := 1; i <= 5; i++ {
		require.NoError(t, ledger.AddCoins(db, user.ID, int64(i), ref, ""))
	}

	entries, total, err := ledger.ListCoinTransactions(user.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(5), entries[0].Amount)
	assert.Equal(t, int64(3), entries[2].Amount)

	rest, _, err := ledger.ListCoinTransactions(user.ID, 2, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, int64(1), rest[1].Amount)
}
