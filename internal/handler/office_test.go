package handler_test

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/event-ticket-office/internal/config"
    "github.com/iliyamo/event-ticket-office/internal/handler"
    "github.com/iliyamo/event-ticket-office/internal/inventory"
    "github.com/iliyamo/event-ticket-office/internal/model"
    "github.com/iliyamo/event-ticket-office/internal/queue"
    "github.com/iliyamo/event-ticket-office/internal/router"
    "github.com/iliyamo/event-ticket-office/internal/utils"
)

const (
    jwtSecret   = "test-jwt-secret"
    adminSecret = "test-admin-secret"
)

// memStore is an in-memory inventory.Store for handler tests.
type memStore struct {
    tickets []model.Ticket
    menu    []model.MenuEntry
}

func (s *memStore) LoadAll(ctx context.Context) ([]model.Ticket, []model.MenuEntry, error) {
    return append([]model.Ticket(nil), s.tickets...), append([]model.MenuEntry(nil), s.menu...), nil
}

func (s *memStore) ReplaceTickets(ctx context.Context, tickets []model.Ticket) error {
    s.tickets = append([]model.Ticket(nil), tickets...)
    return nil
}

func (s *memStore) ReplaceAll(ctx context.Context, tickets []model.Ticket, menu []model.MenuEntry) error {
    s.tickets = append([]model.Ticket(nil), tickets...)
    s.menu = append([]model.MenuEntry(nil), menu...)
    return nil
}

type testApp struct {
    e         *echo.Echo
    store     *memStore
    published []queue.TicketSoldEvent
}

func newTestApp(t *testing.T) *testApp {
    t.Helper()
    store := &memStore{
        tickets: []model.Ticket{
            {TicketID: "0001", Type: model.TypePublic, Category: "GA", Admit: 2, Seq: 1},
            {TicketID: "0002", Type: model.TypePublic, Category: "GA", Admit: 2, Seq: 1},
            {TicketID: "0003", Type: model.TypeGuest, Category: "VIP", Admit: 4, Seq: 2},
        },
        menu: []model.MenuEntry{
            {Type: model.TypePublic, Category: "GA"},
            {Type: model.TypeGuest, Category: "VIP"},
        },
    }
    engine := inventory.New(store, adminSecret)

    hash, err := bcrypt.GenerateFromPassword([]byte("operator-pass"), bcrypt.MinCost)
    require.NoError(t, err)
    cfg := config.Config{
        JWTSecret:        jwtSecret,
        AdminSecret:      adminSecret,
        OperatorUser:     "operator",
        OperatorPassHash: string(hash),
        AccessTTLMin:     5,
    }

    app := &testApp{e: echo.New(), store: store}
    office := handler.NewOfficeHandler(engine, nil)
    office.Publish = func(ctx context.Context, ev queue.TicketSoldEvent) error {
        app.published = append(app.published, ev)
        return nil
    }
    router.RegisterRoutes(app.e)
    router.RegisterOffice(app.e, handler.NewAuthHandler(cfg), office, jwtSecret, nil)
    return app
}

func (a *testApp) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
    t.Helper()
    var rd *strings.Reader
    if body == "" {
        rd = strings.NewReader("")
    } else {
        rd = strings.NewReader(body)
    }
    req := httptest.NewRequest(method, path, rd)
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    if token != "" {
        req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    a.e.ServeHTTP(rec, req)
    return rec
}

func operatorToken(t *testing.T) string {
    t.Helper()
    tok, err := utils.NewAccessToken(jwtSecret, "operator", handler.RoleOperator, 5)
    require.NoError(t, err)
    return tok.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var out map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    return out
}

func TestHealth(t *testing.T) {
    app := newTestApp(t)
    rec := app.request(t, http.MethodGet, "/healthz", "", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
}

func TestLogin(t *testing.T) {
    app := newTestApp(t)

    rec := app.request(t, http.MethodPost, "/v1/auth/login", "",
        `{"username":"operator","password":"operator-pass"}`)
    require.Equal(t, http.StatusOK, rec.Code)
    body := decode(t, rec)
    assert.NotEmpty(t, body["access_token"])
    assert.NotEmpty(t, body["expires_at"])

    rec = app.request(t, http.MethodPost, "/v1/auth/login", "",
        `{"username":"operator","password":"nope"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    rec = app.request(t, http.MethodPost, "/v1/auth/login", "", `{"username":"operator"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellRequiresToken(t *testing.T) {
    app := newTestApp(t)
    rec := app.request(t, http.MethodPost, "/v1/sales", "",
        `{"ticket_id":"0001","customer":"Bob"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.False(t, app.store.tickets[0].Sold)
}

func TestSellFlow(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)

    rec := app.request(t, http.MethodPost, "/v1/sales", token,
        `{"ticket_id":"0001","customer":"Bob"}`)
    require.Equal(t, http.StatusOK, rec.Code)
    body := decode(t, rec)
    assert.Equal(t, "0001", body["ticket_id"])
    assert.Equal(t, true, body["sold"])
    assert.Equal(t, "Bob", body["customer"])
    assert.NotNil(t, body["sold_at"])

    require.Len(t, app.published, 1)
    assert.Equal(t, "0001", app.published[0].TicketID)
    assert.Equal(t, "Bob", app.published[0].Customer)

    // Selling the same ticket again is a conflict and changes nothing.
    rec = app.request(t, http.MethodPost, "/v1/sales", token,
        `{"ticket_id":"0001","customer":"Carol"}`)
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Equal(t, "Bob", app.store.tickets[0].Customer)
    assert.Len(t, app.published, 1)

    rec = app.request(t, http.MethodPost, "/v1/sales", token,
        `{"ticket_id":"9999","customer":"Bob"}`)
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReverseSaleFlow(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)

    rec := app.request(t, http.MethodPost, "/v1/sales/reverse", token, `{"ticket_id":"0001"}`)
    assert.Equal(t, http.StatusConflict, rec.Code) // not sold yet

    app.request(t, http.MethodPost, "/v1/sales", token, `{"ticket_id":"0001","customer":"Bob"}`)
    rec = app.request(t, http.MethodPost, "/v1/sales/reverse", token, `{"ticket_id":"0001"}`)
    require.Equal(t, http.StatusOK, rec.Code)
    body := decode(t, rec)
    assert.Equal(t, false, body["sold"])
    assert.Equal(t, "", body["customer"])
    assert.Nil(t, body["sold_at"])
}

func TestCheckInFlow(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)

    app.request(t, http.MethodPost, "/v1/sales", token, `{"ticket_id":"0001","customer":"Bob"}`)

    rec := app.request(t, http.MethodPost, "/v1/visitors/checkin", token,
        `{"ticket_id":"0001","seats_used":2}`)
    require.Equal(t, http.StatusOK, rec.Code)
    body := decode(t, rec)
    assert.Equal(t, true, body["visited"])
    assert.Equal(t, float64(2), body["visitor_seats"])

    // Admit is 2, so three seats must be rejected.
    rec = app.request(t, http.MethodPost, "/v1/visitors/checkin", token,
        `{"ticket_id":"0001","seats_used":3}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = app.request(t, http.MethodPost, "/v1/visitors/checkin", token,
        `{"ticket_id":"0001"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = app.request(t, http.MethodPost, "/v1/visitors/checkin", token,
        `{"ticket_id":"0002","seats_used":1}`)
    assert.Equal(t, http.StatusConflict, rec.Code) // not sold
}

func TestResetFlow(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)

    app.request(t, http.MethodPost, "/v1/sales", token, `{"ticket_id":"0001","customer":"Bob"}`)

    rec := app.request(t, http.MethodPost, "/v1/admin/reset", token, `{"secret":"wrong"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.True(t, app.store.tickets[0].Sold)

    rec = app.request(t, http.MethodPost, "/v1/admin/reset", token,
        fmt.Sprintf(`{"secret":%q}`, adminSecret))
    require.Equal(t, http.StatusOK, rec.Code)
    for _, tk := range app.store.tickets {
        assert.False(t, tk.Sold)
        assert.Empty(t, tk.Customer)
    }
}

func TestSummaryEndpoint(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)
    app.request(t, http.MethodPost, "/v1/sales", token, `{"ticket_id":"0001","customer":"Bob"}`)

    rec := app.request(t, http.MethodGet, "/v1/dashboard/summary", "", "")
    require.Equal(t, http.StatusOK, rec.Code)

    var body struct {
        Rows []inventory.SummaryRow `json:"rows"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    require.Len(t, body.Rows, 3) // two groups plus total
    assert.Equal(t, "GA", body.Rows[0].Category)
    assert.Equal(t, 1, body.Rows[0].TicketsSold)
    assert.Equal(t, inventory.TotalLabel, body.Rows[2].Seq)
    assert.Equal(t, 3, body.Rows[2].TotalTickets)
}

func TestAvailabilityEndpoints(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)
    app.request(t, http.MethodPost, "/v1/sales", token, `{"ticket_id":"0001","customer":"Bob"}`)

    rec := app.request(t, http.MethodGet, "/v1/tickets/available?type=Public&category=GA", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    body := decode(t, rec)
    assert.Equal(t, []any{"0002"}, body["ticket_ids"])

    rec = app.request(t, http.MethodGet, "/v1/tickets/sold?type=Public&category=GA", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    body = decode(t, rec)
    assert.Equal(t, []any{"0001"}, body["ticket_ids"])

    rec = app.request(t, http.MethodGet, "/v1/tickets/available?type=Staff&category=GA", "", "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenuEndpoints(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)

    rec := app.request(t, http.MethodGet, "/v1/menu", "", "")
    require.Equal(t, http.StatusOK, rec.Code)

    rec = app.request(t, http.MethodPut, "/v1/menu", token, fmt.Sprintf(
        `{"secret":%q,"entries":[{"type":"Public","category":"GA"},{"type":"Public","category":"Balcony"}]}`, adminSecret))
    require.Equal(t, http.StatusOK, rec.Code)
    require.Len(t, app.store.menu, 2)
    assert.Equal(t, "Balcony", app.store.menu[1].Category)

    rec = app.request(t, http.MethodPut, "/v1/menu", token, fmt.Sprintf(
        `{"secret":%q,"entries":[{"type":"Staff","category":"X"}]}`, adminSecret))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentSalesEndpoint(t *testing.T) {
    app := newTestApp(t)
    token := operatorToken(t)
    app.request(t, http.MethodPost, "/v1/sales", token, `{"ticket_id":"0001","customer":"Bob"}`)
    app.request(t, http.MethodPost, "/v1/sales", token, `{"ticket_id":"0003","customer":"Carol"}`)

    rec := app.request(t, http.MethodGet, "/v1/sales/recent", "", "")
    require.Equal(t, http.StatusOK, rec.Code)

    var body struct {
        Sales []inventory.SaleRecord `json:"sales"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    require.Len(t, body.Sales, 2)
    assert.Equal(t, 1, body.Sales[0].Sno)
    assert.Equal(t, 2, body.Sales[1].Sno)
}
