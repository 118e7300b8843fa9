package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Reset handles POST /v1/admin/reset.  The admin secret travels in the
// request body and is verified inside the engine, so there is no
// process-wide mutable password state.  On success every ticket is back
// at the unsold baseline.
func (h *OfficeHandler) Reset(c echo.Context) error {
    var body struct {
        Secret string `json:"secret"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := h.Engine.ResetAll(c.Request().Context(), body.Secret); err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "reset"})
}

// Refresh handles POST /v1/admin/refresh.  It drops the Redis snapshot
// so the next read hits MySQL, mirroring the dashboard's refresh button.
func (h *OfficeHandler) Refresh(c echo.Context) error {
    if h.Repo != nil {
        h.Repo.DropSnapshot(c.Request().Context())
    }
    return c.NoContent(http.StatusNoContent)
}
