package rest

import (
	"net/http"

	"github.com/go-chi/chi"

	"anchor/core"
	"anchor/handler/render"
)

func vaultHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")

		vault, err := engine.Vault(r.Context(), account)
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, vault)
	}
}

func healthHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")

		factor, err := engine.HealthFactor(r.Context(), account)
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, render.H{
			"account":       account,
			"health_factor": factor,
		})
	}
}

func depositsHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		render.JSON(w, render.H{
			"account":  account,
			"deposits": engine.Deposits(r.Context(), account),
		})
	}
}
