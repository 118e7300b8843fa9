package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/event-ticket-office/internal/handler"    // handlers that implement the ticket office
	"github.com/iliyamo/event-ticket-office/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers or monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterOffice wires the ticket-office endpoints.  Login and the read
// views (dashboard, recent sales, availability, menu) are open; every
// mutating endpoint requires a valid operator access token.  Reset and
// menu edits additionally carry the admin secret in the request body,
// checked inside the engine.  The optional rate limiter wraps the whole
// /v1 group.
func RegisterOffice(e *echo.Echo, a *handler.AuthHandler, o *handler.OfficeHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	v1 := e.Group("/v1")
	if limiter != nil {
		v1.Use(limiter)
	}

	// Operator login issues the access token used below.
	v1.POST("/auth/login", a.Login)

	// Read views: reconciliation dashboard, recent sales and the
	// selection lists that feed the sale/reverse forms.
	v1.GET("/dashboard/summary", o.Summary)
	v1.GET("/sales/recent", o.RecentSales)
	v1.GET("/tickets/available", o.AvailableTickets)
	v1.GET("/tickets/sold", o.SoldTickets)
	v1.GET("/menu", o.Menu)

	// Mutations run under JWT auth with the OPERATOR role.
	ops := v1.Group("")
	ops.Use(middleware.JWTAuth(jwtSecret))
	ops.Use(middleware.RequireRole(handler.RoleOperator))
	ops.POST("/sales", o.Sell)
	ops.POST("/sales/reverse", o.ReverseSale)
	ops.POST("/visitors/checkin", o.CheckIn)
	ops.POST("/admin/reset", o.Reset)
	ops.POST("/admin/refresh", o.Refresh)
	ops.PUT("/menu", o.ReplaceMenu)
}
