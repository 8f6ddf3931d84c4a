package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"anchor/core"
)

var errVersionConflict = errors.New("balance version conflict")

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}
		if err := tx.AutoMigrate(core.Allowance{}).Error; err != nil {
			return err
		}
		if err := tx.AutoMigrate(core.TokenSupply{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type walletStore struct {
	db     *db.DB
	minter string
}

// New new wallet store. minter is the engine custody account, the only
// account allowed to mint and burn.
func New(db *db.DB, minter string) core.WalletStore {
	return &walletStore{
		db:     db,
		minter: minter,
	}
}

func (s *walletStore) Transfer(ctx context.Context, asset, from, to string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	return s.db.Tx(func(tx *db.DB) error {
		return move(tx, asset, from, to, amount)
	})
}

func (s *walletStore) TransferFrom(ctx context.Context, asset, from, to string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := spendAllowance(tx, from, to, asset, amount); err != nil {
			return err
		}

		return move(tx, asset, from, to, amount)
	})
}

func (s *walletStore) BalanceOf(ctx context.Context, asset, user string) (decimal.Decimal, error) {
	var balance core.Balance
	if err := s.db.View().Where("user_id=? AND asset=?", user, asset).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return balance.Amount, nil
}

func (s *walletStore) Approve(ctx context.Context, owner, spender, asset string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return core.ErrZeroAmount
	}

	return s.db.Tx(func(tx *db.DB) error {
		allowance := core.Allowance{
			Owner:   owner,
			Spender: spender,
			Asset:   asset,
		}
		if err := tx.Update().Where("owner=? AND spender=? AND asset=?", owner, spender, asset).
			FirstOrCreate(&allowance).Error; err != nil {
			return err
		}

		return tx.Update().Model(core.Allowance{}).
			Where("owner=? AND spender=? AND asset=?", owner, spender, asset).
			Updates(map[string]interface{}{"amount": amount, "updated_at": time.Now()}).Error
	})
}

func (s *walletStore) Mint(ctx context.Context, asset, to string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := credit(tx, asset, to, amount); err != nil {
			return err
		}

		return addSupply(tx, asset, amount)
	})
}

func (s *walletStore) Burn(ctx context.Context, asset, from string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}
	if from != s.minter {
		return core.ErrUnauthorizedMint
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := debit(tx, asset, from, amount); err != nil {
			return err
		}

		return addSupply(tx, asset, amount.Neg())
	})
}

func (s *walletStore) TotalSupply(ctx context.Context, asset string) (decimal.Decimal, error) {
	var supply core.TokenSupply
	if err := s.db.View().Where("asset=?", asset).First(&supply).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return supply.Amount, nil
}

func (s *walletStore) AllowanceOf(ctx context.Context, owner, spender, asset string) (decimal.Decimal, error) {
	var allowance core.Allowance
	if err := s.db.View().Where("owner=? AND spender=? AND asset=?", owner, spender, asset).
		First(&allowance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return allowance.Amount, nil
}

func move(tx *db.DB, asset, from, to string, amount decimal.Decimal) error {
	if err := debit(tx, asset, from, amount); err != nil {
		return err
	}

	return credit(tx, asset, to, amount)
}

func debit(tx *db.DB, asset, user string, amount decimal.Decimal) error {
	var balance core.Balance
	if err := tx.Update().Where("user_id=? AND asset=?", user, asset).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.ErrInsufficientBalance
		}
		return err
	}

	if balance.Amount.LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	return updateBalance(tx, &balance, balance.Amount.Sub(amount))
}

func credit(tx *db.DB, asset, user string, amount decimal.Decimal) error {
	balance := core.Balance{
		UserID: user,
		Asset:  asset,
	}
	if err := tx.Update().Where("user_id=? AND asset=?", user, asset).FirstOrCreate(&balance).Error; err != nil {
		return err
	}

	return updateBalance(tx, &balance, balance.Amount.Add(amount))
}

func updateBalance(tx *db.DB, balance *core.Balance, amount decimal.Decimal) error {
	updates := map[string]interface{}{
		"amount":     amount,
		"version":    balance.Version + 1,
		"updated_at": time.Now(),
	}

	result := tx.Update().Model(core.Balance{}).
		Where("user_id=? AND asset=? AND version=?", balance.UserID, balance.Asset, balance.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errVersionConflict
	}

	return nil
}

func spendAllowance(tx *db.DB, owner, spender, asset string, amount decimal.Decimal) error {
	var allowance core.Allowance
	if err := tx.Update().Where("owner=? AND spender=? AND asset=?", owner, spender, asset).
		First(&allowance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.ErrInsufficientAllowance
		}
		return err
	}

	if allowance.Amount.LessThan(amount) {
		return core.ErrInsufficientAllowance
	}

	return tx.Update().Model(core.Allowance{}).
		Where("owner=? AND spender=? AND asset=?", owner, spender, asset).
		Updates(map[string]interface{}{"amount": allowance.Amount.Sub(amount), "updated_at": time.Now()}).Error
}

func addSupply(tx *db.DB, asset string, delta decimal.Decimal) error {
	supply := core.TokenSupply{
		Asset: asset,
	}
	if err := tx.Update().Where("asset=?", asset).FirstOrCreate(&supply).Error; err != nil {
		return err
	}

	return tx.Update().Model(core.TokenSupply{}).
		Where("asset=?", asset).
		Updates(map[string]interface{}{"amount": supply.Amount.Add(delta), "updated_at": time.Now()}).Error
}
