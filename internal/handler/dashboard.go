package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-office/internal/inventory"
)

// Summary handles GET /v1/dashboard/summary.  It loads the current
// inventory snapshot and returns the reconciliation rows: one per
// (seq, type, category, admit) group plus the trailing "Total" row.
// Reads may lag a write from another process by up to the snapshot
// cache TTL.
func (h *OfficeHandler) Summary(c echo.Context) error {
    tickets, _, err := h.Engine.Snapshot(c.Request().Context())
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"rows": inventory.Summarize(tickets)})
}

// RecentSales handles GET /v1/sales/recent.  Sold tickets are listed
// newest first with a 1-based display number.
func (h *OfficeHandler) RecentSales(c echo.Context) error {
    tickets, _, err := h.Engine.Snapshot(c.Request().Context())
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"sales": inventory.RecentSales(tickets)})
}
