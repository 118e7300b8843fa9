package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-office/internal/model"
)

// Menu handles GET /v1/menu.  It returns the valid (type, category)
// pairs that drive the selection forms.
func (h *OfficeHandler) Menu(c echo.Context) error {
    _, menu, err := h.Engine.Snapshot(c.Request().Context())
    if err != nil {
        return engineError(c, err)
    }
    entries := make([]echo.Map, 0, len(menu))
    for _, m := range menu {
        entries = append(entries, echo.Map{"type": string(m.Type), "category": m.Category})
    }
    return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// ReplaceMenu handles PUT /v1/menu.  The whole menu is replaced at once,
// gated by the admin secret; tickets in removed categories are left
// untouched and keep reconciling under their stored category.
func (h *OfficeHandler) ReplaceMenu(c echo.Context) error {
    var body struct {
        Secret  string `json:"secret"`
        Entries []struct {
            Type     string `json:"type"`
            Category string `json:"category"`
        } `json:"entries"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    entries := make([]model.MenuEntry, 0, len(body.Entries))
    for _, e := range body.Entries {
        entries = append(entries, model.MenuEntry{Type: model.TicketType(e.Type), Category: e.Category})
    }
    if err := h.Engine.ReplaceMenu(c.Request().Context(), body.Secret, entries); err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "menu updated"})
}
