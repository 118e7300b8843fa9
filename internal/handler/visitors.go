package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// CheckIn handles POST /v1/visitors/checkin.  It records how many of a
// sold ticket's admitted seats were actually used.  Repeating the call
// overwrites the previous count, which is how an operator corrects a
// mistaken entry.
func (h *OfficeHandler) CheckIn(c echo.Context) error {
    var body struct {
        TicketID  string `json:"ticket_id"`
        SeatsUsed *int   `json:"seats_used"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.TicketID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id is required"})
    }
    if body.SeatsUsed == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats_used is required"})
    }
    t, err := h.Engine.CheckIn(c.Request().Context(), body.TicketID, *body.SeatsUsed)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, toTicketResponse(t))
}
