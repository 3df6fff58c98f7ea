/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (logrus, see logging.go)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the HR frontend

ROUTE GROUPS:
  /api/entitlements*        Statutory vacation table
  /api/employees/*          Employees, leave requests, marks and reports
  /api/vacation-ledgers.*   Ledger export for every employee
  /api/purchase-requests/*  Purchase request totals
  /                         Endpoint index

SECURITY NOTE:
  No authentication middleware. Deploy behind the intranet gateway.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Entitlement table
		r.Get("/entitlements", h.GetEntitlements)
		r.Get("/entitlements.xlsx", h.ExportEntitlements)
		r.Get("/vacation-ledgers.xlsx", h.ExportVacationLedgers)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)

				r.Get("/leave-requests", h.ListLeaveRequests)
				r.Post("/leave-requests", h.CreateLeaveRequest)
				r.Get("/vacation-ledger", h.GetVacationLedger)

				r.Post("/marks", h.RecordMarks)
				r.Post("/marks/import", h.ImportMarks)

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/day", h.GetDayStats)
					r.Get("/weekly", h.GetWeeklyAttendance)
					r.Get("/weekly.xlsx", h.ExportWeeklyAttendance)
					r.Get("/punctuality", h.GetPunctuality)
				})
			})
		})

		// Purchase request routes
		r.Route("/purchase-requests", func(r chi.Router) {
			r.Post("/totals", h.ComputeTotals)
			r.Post("/", h.CreatePurchaseRequest)
			r.Get("/{id}", h.GetPurchaseRequest)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Labor Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Labor Engine API</h1>
<ul>
<li><a href="/api/entitlements">/api/entitlements</a> - Statutory vacation days</li>
<li><a href="/api/employees">/api/employees</a> - Employees</li>
<li><a href="/api/vacation-ledgers.xlsx">/api/vacation-ledgers.xlsx</a> - Ledgers for the current year</li>
</ul>
</body>
</html>`))
	})

	return r
}
