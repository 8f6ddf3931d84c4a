package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"anchor/core"
	"anchor/handler/render"
)

// Handle handle rest api request
func Handle(engine core.Engine, wallet core.WalletStore, events core.EventStore) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/assets", assetsHandler(engine))
	router.Get("/constants", constantsHandler(engine))
	router.Get("/value", valueHandler(engine))
	router.Get("/amount", amountHandler(engine))
	router.Get("/events", eventsHandler(events))

	router.Get("/accounts/{account}", vaultHandler(engine))
	router.Get("/accounts/{account}/health", healthHandler(engine))
	router.Get("/accounts/{account}/deposits", depositsHandler(engine))

	router.Post("/accounts/{account}/deposit", depositHandler(engine))
	router.Post("/accounts/{account}/mint", mintHandler(engine))
	router.Post("/accounts/{account}/deposit-mint", depositAndMintHandler(engine))
	router.Post("/accounts/{account}/redeem", redeemHandler(engine))
	router.Post("/accounts/{account}/burn", burnHandler(engine))
	router.Post("/liquidate", liquidateHandler(engine))

	router.Get("/wallet/{account}/{asset}", balanceHandler(wallet))
	router.Post("/wallet/approve", approveHandler(wallet))

	return router
}

// renderError maps engine failures onto status codes: stale data is an
// upstream outage, solvency and validation failures are the caller's.
func renderError(w http.ResponseWriter, err error) {
	var stale *core.StalePriceError
	if errors.As(err, &stale) {
		render.Error(w, http.StatusServiceUnavailable, err)
		return
	}

	render.BadRequest(w, err)
}
