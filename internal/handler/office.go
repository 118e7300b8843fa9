package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-office/internal/inventory"
    "github.com/iliyamo/event-ticket-office/internal/model"
    "github.com/iliyamo/event-ticket-office/internal/queue"
    "github.com/iliyamo/event-ticket-office/internal/repository"
    queue_publisher "github.com/iliyamo/event-ticket-office/internal/service"
)

// OfficeHandler groups the dependencies behind the ticket-office
// endpoints: the inventory engine for every read and state transition,
// and the repository for cache control (admin refresh).  Authentication
// and role checks happen in middleware; the engine additionally verifies
// the admin secret on reset and menu edits, so destructive operations
// need both a valid operator token and the secret in the request body.
type OfficeHandler struct {
    Engine  *inventory.Engine      // state transitions and reconciliation
    Repo    *repository.TicketRepo // snapshot cache control; may be nil in tests
    Publish func(ctx context.Context, ev queue.TicketSoldEvent) error
}

// NewOfficeHandler constructs an OfficeHandler.  The engine must be
// non-nil; the repo may be nil when there is no cache to control.
// Events go to RabbitMQ by default; tests swap Publish for a stub.
func NewOfficeHandler(engine *inventory.Engine, repo *repository.TicketRepo) *OfficeHandler {
    if engine == nil {
        panic("nil engine passed to NewOfficeHandler")
    }
    return &OfficeHandler{Engine: engine, Repo: repo, Publish: queue_publisher.PublishTicketSold}
}

// ticketResponse is the wire form of a ticket returned from mutating
// endpoints.
type ticketResponse struct {
    TicketID     string  `json:"ticket_id"`
    Type         string  `json:"type"`
    Category     string  `json:"category"`
    Admit        int     `json:"admit"`
    Seq          int64   `json:"seq"`
    Sold         bool    `json:"sold"`
    Customer     string  `json:"customer"`
    Visited      bool    `json:"visited"`
    VisitorSeats int     `json:"visitor_seats"`
    SoldAt       *string `json:"sold_at"`
}

func toTicketResponse(t model.Ticket) ticketResponse {
    resp := ticketResponse{
        TicketID:     t.TicketID,
        Type:         string(t.Type),
        Category:     t.Category,
        Admit:        t.Admit,
        Seq:          t.Seq,
        Sold:         t.Sold,
        Customer:     t.Customer,
        Visited:      t.Visited,
        VisitorSeats: t.VisitorSeats,
    }
    if t.SoldAt != nil {
        iso := t.SoldAt.UTC().Format(time.RFC3339)
        resp.SoldAt = &iso
    }
    return resp
}

// engineError translates the engine's sentinel errors into HTTP
// responses.  Anything unrecognized is a persistence failure: the
// mutation did not commit and the client may retry.
func engineError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, inventory.ErrTicketNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
    case errors.Is(err, inventory.ErrAlreadySold):
        return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already sold"})
    case errors.Is(err, inventory.ErrNotSold):
        return c.JSON(http.StatusConflict, echo.Map{"error": "ticket not sold"})
    case errors.Is(err, inventory.ErrUnauthorized):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin secret"})
    case errors.Is(err, inventory.ErrValidation):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "persistence failure"})
    }
}

// parseTicketType validates the ?type= query parameter used by the
// availability listings.
func parseTicketType(raw string) (model.TicketType, bool) {
    t := model.TicketType(raw)
    return t, model.ValidType(t)
}
