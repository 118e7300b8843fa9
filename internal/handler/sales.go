package handler

import (
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-office/internal/queue"
)

// Sell handles POST /v1/sales.  The body names the ticket and the
// customer; on success the updated ticket is returned and a ticket.sold
// event is published best-effort (a broker outage never fails the
// sale).
func (h *OfficeHandler) Sell(c echo.Context) error {
    var body struct {
        TicketID string `json:"ticket_id"`
        Customer string `json:"customer"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.TicketID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id is required"})
    }
    t, err := h.Engine.Sell(c.Request().Context(), body.TicketID, body.Customer)
    if err != nil {
        return engineError(c, err)
    }

    ev := queue.TicketSoldEvent{
        TicketID: t.TicketID,
        Type:     string(t.Type),
        Category: t.Category,
        Customer: t.Customer,
        Admit:    t.Admit,
    }
    if t.SoldAt != nil {
        ev.SoldAt = t.SoldAt.UTC().Format(time.RFC3339)
    }
    if h.Publish != nil {
        if err := h.Publish(c.Request().Context(), ev); err != nil {
            log.Printf("sell: publish ticket.sold failed for %s: %v", t.TicketID, err)
        }
    }

    return c.JSON(http.StatusOK, toTicketResponse(t))
}

// ReverseSale handles POST /v1/sales/reverse.  The named ticket is
// restored to the unsold baseline, clearing any visit record along with
// the sale.
func (h *OfficeHandler) ReverseSale(c echo.Context) error {
    var body struct {
        TicketID string `json:"ticket_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.TicketID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id is required"})
    }
    t, err := h.Engine.ReverseSale(c.Request().Context(), body.TicketID)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, toTicketResponse(t))
}

// AvailableTickets handles GET /v1/tickets/available?type=&category=.
// It lists unsold ticket IDs in the category, feeding the sale form.
func (h *OfficeHandler) AvailableTickets(c echo.Context) error {
    typ, ok := parseTicketType(c.QueryParam("type"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be Public or Guest"})
    }
    ids, err := h.Engine.AvailableIDs(c.Request().Context(), typ, c.QueryParam("category"))
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"ticket_ids": ids})
}

// SoldTickets handles GET /v1/tickets/sold?type=&category=.  It lists
// sold ticket IDs in the category, feeding the reverse-sale form.
func (h *OfficeHandler) SoldTickets(c echo.Context) error {
    typ, ok := parseTicketType(c.QueryParam("type"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be Public or Guest"})
    }
    ids, err := h.Engine.SoldIDs(c.Request().Context(), typ, c.QueryParam("category"))
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"ticket_ids": ids})
}
