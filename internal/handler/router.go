// Package handler exposes the HTTP API. Routes are grouped under /v1 and,
// apart from registration and login, require a bearer token issued by the
// auth endpoints.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/observability"
	"github.com/paisatrack/paisatrack/internal/service"
)

// Services bundles everything the router needs to serve requests.
type Services struct {
	Auth         *service.AuthService
	Splits       *service.SplitService
	Groups       *service.GroupService
	Transactions *service.TransactionService
	Forecast     *service.ForecastService
}

// NewRouter wires all endpoints with the shared middleware chain.
func NewRouter(svcs Services, jwtManager *auth.JWTManager, metrics *observability.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", registerHandler(svcs.Auth))
		r.Post("/auth/login", loginHandler(svcs.Auth))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Post("/splits", createSplitHandler(svcs.Splits))
			r.Get("/splits/{splitID}", getSplitHandler(svcs.Splits))
			r.Delete("/splits/{splitID}", deleteSplitHandler(svcs.Splits))

			r.Get("/debts/summary", debtSummaryHandler(svcs.Splits))
			r.Post("/debts/settle", settleDebtHandler(svcs.Splits))

			r.Post("/groups", createGroupHandler(svcs.Groups))
			r.Get("/groups", listGroupsHandler(svcs.Groups))
			r.Get("/groups/{groupID}", getGroupHandler(svcs.Groups))
			r.Post("/groups/{groupID}/members", addGroupMembersHandler(svcs.Groups))

			r.Post("/transactions", recordTransactionHandler(svcs.Transactions))
			r.Get("/transactions", listTransactionsHandler(svcs.Transactions))
			r.Patch("/transactions/{transactionID}/category", recategorizeTransactionHandler(svcs.Transactions))

			r.Put("/budgets", setBudgetHandler(svcs.Transactions))

			r.Get("/forecast/month-end", monthEndHandler(svcs.Forecast))
			r.Get("/forecast/anomalies", anomaliesHandler(svcs.Forecast))
			r.Get("/forecast/digest", weeklyDigestHandler(svcs.Forecast))
			r.Get("/forecast/categories", categoryForecastHandler(svcs.Forecast))
		})
	})

	return r
}
