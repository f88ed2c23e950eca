package routes

import (
	"net/http"
	"time"

	"github.com/celosave/savings/internal/app"
	"github.com/celosave/savings/internal/handler"
	"github.com/celosave/savings/internal/metrics"
	"github.com/celosave/savings/internal/middleware"
)

// Mutations allowed per client IP per window.
const (
	mutationBurst  = 30
	mutationWindow = time.Minute
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.SavingsService.Mode())
	goal := handler.NewGoalHandler(app.SavingsService, app.ExportService)
	operation := handler.NewOperationHandler(app.SavingsService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// ============================================================================
	// API ROUTES (bearer token carrying the caller's wallet address)
	// ============================================================================

	auth := middleware.RequireAddress(app.AuthService)
	limited := middleware.RateLimit(mutationBurst, mutationWindow)

	read := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, auth)
	}
	write := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, limited, auth)
	}

	mux.Handle("GET /api/summary", read(goal.Summary))
	mux.Handle("GET /api/goals", read(goal.List))
	mux.Handle("GET /api/goals/export", read(goal.Export))
	mux.Handle("GET /api/operations/{id}", read(operation.Show))

	mux.Handle("POST /api/goals", write(goal.Create))
	mux.Handle("POST /api/goals/{id}/deposit", write(goal.Deposit))
	mux.Handle("POST /api/goals/{id}/withdraw", write(goal.Withdraw))
	mux.Handle("DELETE /api/goals/{id}", write(goal.Delete))

	// Global middleware. Config and RequestID copy the request, so they run before
	// RequestLogging, which reads the route pattern ServeMux sets on its request.
	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
	)
}
