package core

import "github.com/shopspring/decimal"

// CollateralPosition is one asset slice of an account's locked
// collateral.
type CollateralPosition struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

// Vault is the read-model of one account: outstanding debt, collateral
// valued in USD and the derived health factor. Accounts exist
// implicitly; a vault for an unknown account is all zeroes with a
// maximal health factor.
type Vault struct {
	UserID        string                `json:"user_id"`
	Debt          decimal.Decimal       `json:"debt"`
	CollateralUsd decimal.Decimal       `json:"collateral_usd"`
	HealthFactor  decimal.Decimal       `json:"health_factor"`
	Positions     []*CollateralPosition `json:"positions"`
}

// RiskParameters are the compiled-in solvency constants.
type RiskParameters struct {
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
	LiquidationPrecision decimal.Decimal `json:"liquidation_precision"`
	LiquidationBonus     decimal.Decimal `json:"liquidation_bonus"`
	MinHealthFactor      decimal.Decimal `json:"min_health_factor"`
}
