package handler

import (
    "crypto/subtle"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-office/internal/config"
    "github.com/iliyamo/event-ticket-office/internal/utils"
)

// RoleOperator is the role claim carried by operator access tokens.  All
// mutating ticket-office routes require it.
const RoleOperator = "OPERATOR"

// AuthHandler signs in the single configured operator account.  There is
// no user table: the login name and a bcrypt hash of the password come
// from the environment, and a successful login yields a short-lived
// HS256 access token.  No refresh flow; the operator logs in again when
// the token expires.
type AuthHandler struct {
    cfg config.Config
}

// NewAuthHandler constructs an AuthHandler over the loaded configuration.
func NewAuthHandler(cfg config.Config) *AuthHandler {
    return &AuthHandler{cfg: cfg}
}

// Login handles POST /v1/auth/login.  It expects a JSON body with
// "username" and "password" and returns the access token and its expiry
// on success.  Wrong credentials yield 401 without distinguishing which
// part was wrong.
func (a *AuthHandler) Login(c echo.Context) error {
    var body struct {
        Username string `json:"username"`
        Password string `json:"password"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Username = strings.TrimSpace(body.Username)
    if body.Username == "" || body.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
    }

    userOK := subtle.ConstantTimeCompare([]byte(body.Username), []byte(a.cfg.OperatorUser)) == 1
    passOK := utils.VerifyPassword(a.cfg.OperatorPassHash, body.Password)
    if !userOK || !passOK {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    tok, err := utils.NewAccessToken(a.cfg.JWTSecret, body.Username, RoleOperator, a.cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access_token": tok.Token,
        "expires_at":   tok.Exp.Format(time.RFC3339),
    })
}
