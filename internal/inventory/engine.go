package inventory

import (
    "context"
    "crypto/subtle"
    "fmt"
    "strings"
    "time"

    "github.com/iliyamo/event-ticket-office/internal/model"
)

// Store is the persistence collaborator the engine runs against.  It
// must load the full ticket and menu collections (already normalized)
// and atomically replace them; the engine never asks for row-level
// updates.  *repository.TicketRepo satisfies this in production and the
// tests supply an in-memory fake.
type Store interface {
    LoadAll(ctx context.Context) ([]model.Ticket, []model.MenuEntry, error)
    ReplaceTickets(ctx context.Context, tickets []model.Ticket) error
    ReplaceAll(ctx context.Context, tickets []model.Ticket, menu []model.MenuEntry) error
}

// Engine applies operator actions to the inventory.  Each operation is
// one read-modify-persist cycle over the whole collection: load a fresh
// snapshot, validate, mutate the one affected ticket (or all, for
// reset), then write the entire collection back.  A mutation counts as
// committed only once the store accepts the replace; on any failure the
// caller-visible state is unchanged.  Two operators racing get
// last-write-wins, which is accepted for this deployment.
type Engine struct {
    store       Store
    adminSecret string
    now         func() time.Time // injected for tests
}

// New constructs an Engine over the given store.  adminSecret gates
// ResetAll and ReplaceMenu.
func New(store Store, adminSecret string) *Engine {
    if store == nil {
        panic("nil store passed to inventory.New")
    }
    return &Engine{store: store, adminSecret: adminSecret, now: time.Now}
}

// Sell marks the ticket as sold to the named customer and stamps the
// sale time.  The visit fields are untouched: check-in is a separate
// step.  Fails with ErrTicketNotFound or ErrAlreadySold.
func (e *Engine) Sell(ctx context.Context, ticketID, customer string) (model.Ticket, error) {
    tickets, _, err := e.store.LoadAll(ctx)
    if err != nil {
        return model.Ticket{}, fmt.Errorf("load inventory: %w", err)
    }
    idx := findTicket(tickets, ticketID)
    if idx < 0 {
        return model.Ticket{}, ErrTicketNotFound
    }
    if tickets[idx].Sold {
        return model.Ticket{}, ErrAlreadySold
    }
    t := tickets[idx]
    t.Sold = true
    t.Customer = strings.TrimSpace(customer)
    ts := e.now().UTC()
    t.SoldAt = &ts
    tickets[idx] = t
    if err := e.store.ReplaceTickets(ctx, tickets); err != nil {
        return model.Ticket{}, fmt.Errorf("persist sale: %w", err)
    }
    return t, nil
}

// ReverseSale returns a sold ticket to the unsold baseline: customer,
// visit fields and sale time are all cleared, whatever their current
// values.  Fails with ErrTicketNotFound or ErrNotSold.
func (e *Engine) ReverseSale(ctx context.Context, ticketID string) (model.Ticket, error) {
    tickets, _, err := e.store.LoadAll(ctx)
    if err != nil {
        return model.Ticket{}, fmt.Errorf("load inventory: %w", err)
    }
    idx := findTicket(tickets, ticketID)
    if idx < 0 {
        return model.Ticket{}, ErrTicketNotFound
    }
    if !tickets[idx].Sold {
        return model.Ticket{}, ErrNotSold
    }
    tickets[idx] = resetToBaseline(tickets[idx])
    if err := e.store.ReplaceTickets(ctx, tickets); err != nil {
        return model.Ticket{}, fmt.Errorf("persist reversal: %w", err)
    }
    return tickets[idx], nil
}

// CheckIn records how many of the ticket's admitted seats were actually
// used.  Calling it again on a visited ticket overwrites the seat count;
// that is the supported way to correct a mistaken entry.  seatsUsed must
// be within [0, Admit].  Fails with ErrTicketNotFound, ErrNotSold or
// ErrValidation.
func (e *Engine) CheckIn(ctx context.Context, ticketID string, seatsUsed int) (model.Ticket, error) {
    if seatsUsed < 0 {
        return model.Ticket{}, fmt.Errorf("%w: seats_used must not be negative", ErrValidation)
    }
    tickets, _, err := e.store.LoadAll(ctx)
    if err != nil {
        return model.Ticket{}, fmt.Errorf("load inventory: %w", err)
    }
    idx := findTicket(tickets, ticketID)
    if idx < 0 {
        return model.Ticket{}, ErrTicketNotFound
    }
    if !tickets[idx].Sold {
        return model.Ticket{}, ErrNotSold
    }
    if seatsUsed > tickets[idx].Admit {
        return model.Ticket{}, fmt.Errorf("%w: seats_used %d exceeds admit %d", ErrValidation, seatsUsed, tickets[idx].Admit)
    }
    t := tickets[idx]
    t.Visited = true
    t.VisitorSeats = seatsUsed
    tickets[idx] = t
    if err := e.store.ReplaceTickets(ctx, tickets); err != nil {
        return model.Ticket{}, fmt.Errorf("persist check-in: %w", err)
    }
    return t, nil
}

// ResetAll wipes every ticket back to the unsold baseline in one atomic
// replace.  The secret is checked in constant time; on mismatch nothing
// is read or written and ErrUnauthorized is returned.
func (e *Engine) ResetAll(ctx context.Context, secret string) error {
    if !e.authorized(secret) {
        return ErrUnauthorized
    }
    tickets, _, err := e.store.LoadAll(ctx)
    if err != nil {
        return fmt.Errorf("load inventory: %w", err)
    }
    for i := range tickets {
        tickets[i] = resetToBaseline(tickets[i])
    }
    if err := e.store.ReplaceTickets(ctx, tickets); err != nil {
        return fmt.Errorf("persist reset: %w", err)
    }
    return nil
}

// ReplaceMenu swaps in a new set of valid (type, category) pairs,
// persisted atomically together with the untouched ticket collection.
// Removing a category never touches existing tickets.  Fails with
// ErrUnauthorized or ErrValidation.
func (e *Engine) ReplaceMenu(ctx context.Context, secret string, entries []model.MenuEntry) error {
    if !e.authorized(secret) {
        return ErrUnauthorized
    }
    seen := make(map[model.MenuEntry]bool, len(entries))
    for _, m := range entries {
        if !model.ValidType(m.Type) {
            return fmt.Errorf("%w: unknown ticket type %q", ErrValidation, m.Type)
        }
        if strings.TrimSpace(m.Category) == "" {
            return fmt.Errorf("%w: empty category", ErrValidation)
        }
        if seen[m] {
            return fmt.Errorf("%w: duplicate menu entry %s/%s", ErrValidation, m.Type, m.Category)
        }
        seen[m] = true
    }
    tickets, _, err := e.store.LoadAll(ctx)
    if err != nil {
        return fmt.Errorf("load inventory: %w", err)
    }
    if err := e.store.ReplaceAll(ctx, tickets, entries); err != nil {
        return fmt.Errorf("persist menu: %w", err)
    }
    return nil
}

// Snapshot returns the current ticket and menu collections for the read
// endpoints (dashboard, recent sales, availability).
func (e *Engine) Snapshot(ctx context.Context) ([]model.Ticket, []model.MenuEntry, error) {
    tickets, menu, err := e.store.LoadAll(ctx)
    if err != nil {
        return nil, nil, fmt.Errorf("load inventory: %w", err)
    }
    return tickets, menu, nil
}

// AvailableIDs lists unsold ticket IDs in the given category, feeding
// the manual sale form.
func (e *Engine) AvailableIDs(ctx context.Context, typ model.TicketType, category string) ([]string, error) {
    return e.filterIDs(ctx, typ, category, false)
}

// SoldIDs lists sold ticket IDs in the given category, feeding the
// reverse-sale form.
func (e *Engine) SoldIDs(ctx context.Context, typ model.TicketType, category string) ([]string, error) {
    return e.filterIDs(ctx, typ, category, true)
}

func (e *Engine) filterIDs(ctx context.Context, typ model.TicketType, category string, sold bool) ([]string, error) {
    tickets, _, err := e.store.LoadAll(ctx)
    if err != nil {
        return nil, fmt.Errorf("load inventory: %w", err)
    }
    ids := make([]string, 0, len(tickets))
    for _, t := range tickets {
        if t.Type == typ && t.Category == category && t.Sold == sold {
            ids = append(ids, t.TicketID)
        }
    }
    return ids, nil
}

func (e *Engine) authorized(secret string) bool {
    return subtle.ConstantTimeCompare([]byte(secret), []byte(e.adminSecret)) == 1
}

// resetToBaseline restores the unsold invariant: an unsold ticket has no
// customer, no visit record and no sale time.
func resetToBaseline(t model.Ticket) model.Ticket {
    t.Sold = false
    t.Customer = ""
    t.Visited = false
    t.VisitorSeats = 0
    t.SoldAt = nil
    return t
}

// findTicket locates a ticket by ID after zero-padding the argument, so
// operators may type "7" for ticket "0007".
func findTicket(tickets []model.Ticket, ticketID string) int {
    id := model.PadTicketID(ticketID)
    for i := range tickets {
        if tickets[i].TicketID == id {
            return i
        }
    }
    return -1
}
