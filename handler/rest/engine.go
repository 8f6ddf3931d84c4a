package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	"anchor/core"
	"anchor/handler/render"
)

type operationRequest struct {
	Asset         string          `json:"asset,omitempty"`
	Amount        decimal.Decimal `json:"amount,omitempty"`
	DepositAmount decimal.Decimal `json:"deposit_amount,omitempty"`
	MintAmount    decimal.Decimal `json:"mint_amount,omitempty"`
	RedeemAmount  decimal.Decimal `json:"redeem_amount,omitempty"`
	BurnAmount    decimal.Decimal `json:"burn_amount,omitempty"`
}

func decodeOperation(r *http.Request) (*operationRequest, error) {
	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid request body")
	}

	return &req, nil
}

func depositHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		req, err := decodeOperation(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := engine.Deposit(r.Context(), account, req.Asset, req.Amount); err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func mintHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		req, err := decodeOperation(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := engine.Mint(r.Context(), account, req.Amount); err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func depositAndMintHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		req, err := decodeOperation(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := engine.DepositAndMint(r.Context(), account, req.Asset, req.DepositAmount, req.MintAmount); err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func redeemHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		req, err := decodeOperation(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if req.BurnAmount.IsPositive() {
			err = engine.RedeemForDebt(r.Context(), account, req.Asset, req.RedeemAmount, req.BurnAmount)
		} else {
			err = engine.Redeem(r.Context(), account, req.Asset, req.Amount)
		}
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func burnHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		req, err := decodeOperation(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := engine.Burn(r.Context(), account, req.Amount); err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

type liquidateRequest struct {
	Liquidator  string          `json:"liquidator"`
	Account     string          `json:"account"`
	Asset       string          `json:"asset"`
	DebtToCover decimal.Decimal `json:"debt_to_cover"`
}

func liquidateHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req liquidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.BadRequest(w, errors.New("invalid request body"))
			return
		}

		if err := engine.Liquidate(r.Context(), req.Liquidator, req.Account, req.Asset, req.DebtToCover); err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}
