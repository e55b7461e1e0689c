package services

import (
	"errors"

	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

const (
	CurrencyCoin = "coin"
	CurrencyExp  = "exp"
)

// LedgerService owns every balance mutation. Cached balances on the
// user row and the append-only transaction tables are written together,
// always inside the caller's transaction, so one cannot move without
// the other.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// AddCoins credits amount to the user's coin balance and appends the
// matching ledger entry.
func (ls *LedgerService) AddCoins(tx *gorm.DB, userID uint, amount int64, ref models.Ref, note string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !ref.Type.Valid() {
		return ErrInvalidTarget
	}
	if err := creditColumn(tx, userID, "coin_balance", amount); err != nil {
		return err
	}
	entry := models.CoinTransaction{UserID: userID, Amount: amount, RefType: ref.Type, RefID: ref.ID, Note: note}
	if err := tx.Create(&entry).Error; err != nil {
		return wrapTxErr(err)
	}
	return nil
}

// AddExp credits experience points and appends the matching entry.
func (ls *LedgerService) AddExp(tx *gorm.DB, userID uint, amount int64, ref models.Ref, note string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !ref.Type.Valid() {
		return ErrInvalidTarget
	}
	if err := creditColumn(tx, userID, "exp_points", amount); err != nil {
		return err
	}
	entry := models.ExpTransaction{UserID: userID, Amount: amount, RefType: ref.Type, RefID: ref.ID, Note: note}
	if err := tx.Create(&entry).Error; err != nil {
		return wrapTxErr(err)
	}
	return nil
}

// SpendCoins debits amount from the user's coin balance and appends a
// negative ledger entry. The balance guard runs inside the UPDATE
// itself, so two concurrent spends can never both succeed past the same
// funds.
func (ls *LedgerService) SpendCoins(tx *gorm.DB, userID uint, amount int64, ref models.Ref, note string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !ref.Type.Valid() {
		return ErrInvalidTarget
	}
	if err := debitColumn(tx, userID, CurrencyCoin, amount); err != nil {
		return err
	}
	entry := models.CoinTransaction{UserID: userID, Amount: -amount, RefType: ref.Type, RefID: ref.ID, Note: note}
	if err := tx.Create(&entry).Error; err != nil {
		return wrapTxErr(err)
	}
	return nil
}

// SpendExp debits experience points with the same guard as SpendCoins.
func (ls *LedgerService) SpendExp(tx *gorm.DB, userID uint, amount int64, ref models.Ref, note string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !ref.Type.Valid() {
		return ErrInvalidTarget
	}
	if err := debitColumn(tx, userID, CurrencyExp, amount); err != nil {
		return err
	}
	entry := models.ExpTransaction{UserID: userID, Amount: -amount, RefType: ref.Type, RefID: ref.ID, Note: note}
	if err := tx.Create(&entry).Error; err != nil {
		return wrapTxErr(err)
	}
	return nil
}

// AdjustBalance applies a signed manual correction in its own
// transaction, attributed to the acting admin. Negative deltas respect
// the same floor as regular spends.
func (ls *LedgerService) AdjustBalance(userID uint, currency string, delta int64, adminID uint, note string) error {
	if delta == 0 {
		return ErrInvalidAmount
	}
	ref := models.Ref{Type: models.RefAdmin, ID: adminID}
	return ls.DB.Transaction(func(tx *gorm.DB) error {
		switch currency {
		case CurrencyCoin:
			if delta > 0 {
				return ls.AddCoins(tx, userID, delta, ref, note)
			}
			return ls.SpendCoins(tx, userID, -delta, ref, note)
		case CurrencyExp:
			if delta > 0 {
				return ls.AddExp(tx, userID, delta, ref, note)
			}
			return ls.SpendExp(tx, userID, -delta, ref, note)
		default:
			return ErrInvalidCurrency
		}
	})
}

// CoinBalanceFromLedger recomputes a balance from the entries alone,
// ignoring the cached column. Used by the audit endpoint to prove the
// two agree.
func (ls *LedgerService) CoinBalanceFromLedger(userID uint) (int64, error) {
	var total int64
	err := ls.DB.Model(&models.CoinTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapTxErr(err)
	}
	return total, nil
}

// ExpFromLedger is the experience-point counterpart of
// CoinBalanceFromLedger.
func (ls *LedgerService) ExpFromLedger(userID uint) (int64, error) {
	var total int64
	err := ls.DB.Model(&models.ExpTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapTxErr(err)
	}
	return total, nil
}

// ListCoinTransactions returns a page of the user's coin history,
// newest first, plus the total entry count.
func (ls *LedgerService) ListCoinTransactions(userID uint, page, pageSize int) ([]models.CoinTransaction, int64, error) {
	var entries []models.CoinTransaction
	var total int64
	query := ls.DB.Model(&models.CoinTransaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapTxErr(err)
	}
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, wrapTxErr(err)
	}
	return entries, total, nil
}

// ListExpTransactions returns a page of the user's experience history.
func (ls *LedgerService) ListExpTransactions(userID uint, page, pageSize int) ([]models.ExpTransaction, int64, error) {
	var entries []models.ExpTransaction
	var total int64
	query := ls.DB.Model(&models.ExpTransaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapTxErr(err)
	}
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, wrapTxErr(err)
	}
	return entries, total, nil
}

// creditColumn bumps a balance column in place. The expression form
// keeps the addition on the database side, so concurrent credits both
// land instead of one overwriting the other.
func creditColumn(tx *gorm.DB, userID uint, column string, amount int64) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return wrapTxErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// debitColumn subtracts with the floor check folded into the WHERE
// clause. Zero rows affected means either a missing user or not enough
// balance; a follow-up read tells the two apart.
func debitColumn(tx *gorm.DB, userID uint, currency string, amount int64) error {
	column := "coin_balance"
	if currency == CurrencyExp {
		column = "exp_points"
	}
	res := tx.Model(&models.User{}).
		Where("id = ? AND "+column+" >= ?", userID, amount).
		Update(column, gorm.Expr(column+" - ?", amount))
	if res.Error != nil {
		return wrapTxErr(res.Error)
	}
	if res.RowsAffected == 0 {
		var user models.User
		if err := tx.Select("id", "coin_balance", "exp_points").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return wrapTxErr(err)
		}
		balance := user.CoinBalance
		if currency == CurrencyExp {
			balance = user.ExpPoints
		}
		return &InsufficientBalanceError{UserID: userID, Currency: currency, Balance: balance, Requested: amount}
	}
	return nil
}
