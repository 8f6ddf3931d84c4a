package rest

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"anchor/core"
	"anchor/handler/render"
)

func assetsHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, render.H{"assets": engine.Assets()})
	}
}

func constantsHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, engine.RiskParameters())
	}
}

func valueHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset := r.URL.Query().Get("asset")
		amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		value, err := engine.UsdValue(r.Context(), asset, amount)
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{
			"asset":     asset,
			"amount":    amount,
			"usd_value": value,
		})
	}
}

func amountHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset := r.URL.Query().Get("asset")
		usd, err := decimal.NewFromString(r.URL.Query().Get("usd"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := engine.TokenAmountForUsd(r.Context(), asset, usd)
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{
			"asset":  asset,
			"usd":    usd,
			"amount": amount,
		})
	}
}

func eventsHandler(events core.EventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fromID := cast.ToUint64(r.URL.Query().Get("from"))
		limit := cast.ToInt(r.URL.Query().Get("limit"))

		list, err := events.List(r.Context(), fromID, limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"events": list})
	}
}
