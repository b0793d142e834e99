package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/networth/backend/src/config"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Users        services.UserService
	Accounts     services.AccountService
	Transactions services.TransactionService
	Holdings     services.HoldingsService
	Reports      services.ReportService
	Properties   services.PropertyService
	Valuations   services.ValuationJob
}

func NewRouter(cfg *config.AppConfig, svc Services) http.Handler {
	userHandler := NewUserHandler(svc.Users)
	accountHandler := NewAccountHandler(svc.Accounts)
	txHandler := NewTransactionHandler(svc.Transactions)
	holdingsHandler := NewHoldingsHandler(svc.Holdings)
	reportHandler := NewReportHandler(svc.Reports)
	propertyHandler := NewPropertyHandler(svc.Properties)
	valuationHandler := NewValuationHandler(svc.Valuations, cfg.CronSecret)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(RateLimitMiddleware(cfg.RateLimitInterval, cfg.RateLimitBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Net worth backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/account-types", ListAccountTypes)
		r.Post("/users", userHandler.CreateUser)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(UserScopeMiddleware(svc.Users))

			r.Get("/", userHandler.GetUser)

			r.Get("/accounts", accountHandler.ListAccounts)
			r.Post("/accounts", accountHandler.CreateAccount)
			r.Route("/accounts/{accountID}", func(r chi.Router) {
				r.Get("/", accountHandler.GetAccount)
				r.Put("/", accountHandler.UpdateAccount)
				r.Delete("/", accountHandler.DeleteAccount)

				r.Get("/property", propertyHandler.GetProperty)
				r.Post("/property", propertyHandler.CreateProperty)
				r.Put("/property", propertyHandler.UpdateProperty)
				r.Get("/valuations", propertyHandler.ListValuations)
				r.Post("/valuations", propertyHandler.AddValuation)
			})

			r.Get("/transactions", txHandler.ListTransactions)
			r.Post("/transactions", txHandler.CreateTransaction)
			r.Get("/transactions/export", txHandler.ExportTransactions)

			r.Get("/assets", holdingsHandler.ListAssets)
			r.Post("/assets", holdingsHandler.CreateAsset)
			r.Put("/assets/{assetID}", holdingsHandler.UpdateAsset)
			r.Delete("/assets/{assetID}", holdingsHandler.DeleteAsset)

			r.Get("/liabilities", holdingsHandler.ListLiabilities)
			r.Post("/liabilities", holdingsHandler.CreateLiability)
			r.Put("/liabilities/{liabilityID}", holdingsHandler.UpdateLiability)
			r.Delete("/liabilities/{liabilityID}", holdingsHandler.DeleteLiability)

			r.Get("/overview", reportHandler.GetOverview)
			r.Get("/reports/trend", reportHandler.GetTrend)
			r.Get("/reports/allocation", reportHandler.GetAllocation)
		})

		r.Post("/admin/trigger-valuations", valuationHandler.TriggerValuations)
		r.Post("/cron/property-valuations", valuationHandler.CronValuations)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.SendJSONError(w, "Not found", http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	})

	return r
}
