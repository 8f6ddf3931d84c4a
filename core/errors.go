package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrZeroAmount amount must be positive
	ErrZeroAmount = errors.New("amount must be positive")
	// ErrTokenNotAllowed asset is not a registered reserve asset
	ErrTokenNotAllowed = errors.New("token not allowed")
	// ErrFeedMismatch construction lists have different lengths
	ErrFeedMismatch = errors.New("asset and price feed lists must have the same length")
	// ErrInsufficientCollateral redeeming more than deposited
	ErrInsufficientCollateral = errors.New("insufficient collateral")
	// ErrInsufficientDebt burning more than minted
	ErrInsufficientDebt = errors.New("insufficient debt")
	// ErrInsufficientBalance ledger balance too low
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientAllowance allowance too low for transfer-from
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrUnauthorizedMint mint or burn by anyone but the engine custody
	ErrUnauthorizedMint = errors.New("not the authorized minter")

	// ErrDepositFailed reserve pull into custody failed
	ErrDepositFailed = errors.New("deposit transfer failed")
	// ErrMintFailed stable token issuance failed
	ErrMintFailed = errors.New("minting failed")
	// ErrRedeemFailed reserve payout failed
	ErrRedeemFailed = errors.New("redeem transfer failed")
	// ErrBurnFailed stable token retirement failed
	ErrBurnFailed = errors.New("burning failed")
)

// StalePriceError reports a feed that stopped updating. Operations that
// need the asset's valuation halt until fresh data arrives.
type StalePriceError struct {
	Asset     string
	UpdatedAt time.Time
}

func (e *StalePriceError) Error() string {
	return fmt.Sprintf("stale price for %s, last updated at %s", e.Asset, e.UpdatedAt.Format(time.RFC3339))
}

// BrokenHealthFactorError reports an operation that would leave the
// account below the minimum health factor.
type BrokenHealthFactorError struct {
	Factor decimal.Decimal
}

func (e *BrokenHealthFactorError) Error() string {
	return fmt.Sprintf("health factor %s below minimum", e.Factor)
}

// HealthFactorOkError reports a liquidation attempt against a healthy
// account.
type HealthFactorOkError struct {
	Factor decimal.Decimal
}

func (e *HealthFactorOkError) Error() string {
	return fmt.Sprintf("health factor %s is not below minimum, account cannot be liquidated", e.Factor)
}

// HealthFactorNotImprovedError reports a liquidation that failed to
// strictly improve the target's health factor.
type HealthFactorNotImprovedError struct {
	Starting decimal.Decimal
	Ending   decimal.Decimal
}

func (e *HealthFactorNotImprovedError) Error() string {
	return fmt.Sprintf("health factor not improved: %s -> %s", e.Starting, e.Ending)
}
