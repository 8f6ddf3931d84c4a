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

func balanceHandler(wallet core.WalletStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		asset := chi.URLParam(r, "asset")

		balance, err := wallet.BalanceOf(r.Context(), asset, account)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"account": account,
			"asset":   asset,
			"balance": balance,
		})
	}
}

type approveRequest struct {
	Owner   string          `json:"owner"`
	Spender string          `json:"spender"`
	Asset   string          `json:"asset"`
	Amount  decimal.Decimal `json:"amount"`
}

func approveHandler(wallet core.WalletStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req approveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.BadRequest(w, errors.New("invalid request body"))
			return
		}

		if err := wallet.Approve(r.Context(), req.Owner, req.Spender, req.Asset, req.Amount); err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}
