package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/iliyamo/event-ticket-office/internal/model"
)

// TicketRepo owns the tickets and menu tables.  The inventory is small
// (hundreds to low thousands of rows) and fixed per run, so the repo
// deliberately exposes whole-collection operations only: LoadAll reads
// everything, and the Replace methods rewrite an entire table inside one
// transaction.  There are no row-level updates; correctness never
// depends on merging partial writes.  Concurrent writers therefore get
// last-write-wins semantics, which is the documented behavior for this
// single-admin deployment.
//
// A Redis snapshot cache (see snapshot.go) may sit in front of LoadAll.
// Every replace drops the cached snapshot before reporting success so a
// caller that writes and immediately re-reads observes its own write.
type TicketRepo struct {
    db    *sql.DB
    cache *SnapshotCache // nil when caching is disabled
}

// NewTicketRepo returns a TicketRepo bound to the given database.  Pass
// a cache built with NewSnapshotCache to enable cached reads, or nil to
// read straight from MySQL.
func NewTicketRepo(db *sql.DB, cache *SnapshotCache) *TicketRepo {
    return &TicketRepo{db: db, cache: cache}
}

// LoadAll returns the full ticket and menu collections.  Tickets pass
// through model.Ticket.Normalized exactly once here; everything
// downstream assumes normalized records.  Results may come from the
// snapshot cache and be up to its TTL stale relative to another
// process's writes.
func (r *TicketRepo) LoadAll(ctx context.Context) ([]model.Ticket, []model.MenuEntry, error) {
    if r.cache != nil {
        if snap, ok := r.cache.get(ctx); ok {
            return snap.Tickets, snap.Menu, nil
        }
    }

    const ticketQ = `SELECT ticket_id, type, category, admit, seq, sold, customer, visited, visitor_seats, sold_at
                     FROM tickets ORDER BY ticket_id`
    rows, err := r.db.QueryContext(ctx, ticketQ)
    if err != nil {
        return nil, nil, fmt.Errorf("load tickets: %w", err)
    }
    defer rows.Close()

    tickets := make([]model.Ticket, 0, 256)
    for rows.Next() {
        var row ticketRow
        if err := rows.Scan(
            &row.ticketID, &row.typ, &row.category, &row.admit, &row.seq,
            &row.sold, &row.customer, &row.visited, &row.visitorSeats, &row.soldAt,
        ); err != nil {
            return nil, nil, fmt.Errorf("scan ticket: %w", err)
        }
        tickets = append(tickets, row.ticket())
    }
    if err := rows.Err(); err != nil {
        return nil, nil, fmt.Errorf("iterate tickets: %w", err)
    }

    const menuQ = `SELECT type, category FROM menu ORDER BY type, category`
    mrows, err := r.db.QueryContext(ctx, menuQ)
    if err != nil {
        return nil, nil, fmt.Errorf("load menu: %w", err)
    }
    defer mrows.Close()

    menu := make([]model.MenuEntry, 0, 16)
    for mrows.Next() {
        var m model.MenuEntry
        if err := mrows.Scan(&m.Type, &m.Category); err != nil {
            return nil, nil, fmt.Errorf("scan menu entry: %w", err)
        }
        menu = append(menu, m)
    }
    if err := mrows.Err(); err != nil {
        return nil, nil, fmt.Errorf("iterate menu: %w", err)
    }

    if r.cache != nil {
        r.cache.set(ctx, snapshot{Tickets: tickets, Menu: menu})
    }
    return tickets, menu, nil
}

// ticketRow mirrors one tickets row as scanned.  Inventories imported
// from upstream sheets leave columns NULL, so every field except the
// primary key scans through a nullable type.
type ticketRow struct {
    ticketID     string
    typ          sql.NullString
    category     sql.NullString
    admit        sql.NullInt64
    seq          sql.NullInt64
    sold         sql.NullBool
    customer     sql.NullString
    visited      sql.NullBool
    visitorSeats sql.NullInt64
    soldAt       sql.NullTime
}

// ticket converts the scanned row to a normalized model.Ticket.  NULLs
// collapse to the zero value and model.Ticket.Normalized then applies
// the load-boundary defaults (Admit at least 1, VisitorSeats at least 0,
// zero-padded ID).
func (row ticketRow) ticket() model.Ticket {
    t := model.Ticket{
        TicketID:     row.ticketID,
        Type:         model.TicketType(row.typ.String),
        Category:     row.category.String,
        Admit:        int(row.admit.Int64),
        Seq:          row.seq.Int64,
        Sold:         row.sold.Bool,
        Customer:     row.customer.String,
        Visited:      row.visited.Bool,
        VisitorSeats: int(row.visitorSeats.Int64),
    }
    if row.soldAt.Valid {
        ts := row.soldAt.Time.UTC()
        t.SoldAt = &ts
    }
    return t.Normalized()
}

// ReplaceTickets atomically overwrites the entire tickets table with the
// given collection.  The delete and re-insert run in one transaction, so
// no reader ever observes a half-written table.
func (r *TicketRepo) ReplaceTickets(ctx context.Context, tickets []model.Ticket) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return fmt.Errorf("begin replace: %w", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := r.replaceTicketsTx(ctx, tx, tickets); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return fmt.Errorf("commit replace: %w", err)
    }
    committed = true
    if r.cache != nil {
        r.cache.drop(ctx)
    }
    return nil
}

// ReplaceAll atomically overwrites both the tickets and the menu tables
// in a single transaction.  Used by menu editing, which must keep the
// two collections consistent with each other.
func (r *TicketRepo) ReplaceAll(ctx context.Context, tickets []model.Ticket, menu []model.MenuEntry) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return fmt.Errorf("begin replace: %w", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := r.replaceTicketsTx(ctx, tx, tickets); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM menu`); err != nil {
        return fmt.Errorf("clear menu: %w", err)
    }
    if len(menu) > 0 {
        query := `INSERT INTO menu (type, category) VALUES `
        args := make([]interface{}, 0, len(menu)*2)
        for i, m := range menu {
            if i > 0 {
                query += ","
            }
            query += "(?, ?)"
            args = append(args, string(m.Type), m.Category)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return fmt.Errorf("insert menu: %w", err)
        }
    }
    if err := tx.Commit(); err != nil {
        return fmt.Errorf("commit replace: %w", err)
    }
    committed = true
    if r.cache != nil {
        r.cache.drop(ctx)
    }
    return nil
}

// DropSnapshot discards the cached snapshot so the next LoadAll hits the
// database.  Backs the admin "refresh" endpoint; a no-op without a cache.
func (r *TicketRepo) DropSnapshot(ctx context.Context) {
    if r.cache != nil {
        r.cache.drop(ctx)
    }
}

// replaceTicketsTx rewrites the tickets table within an existing
// transaction.  A zero Seq is stored as NULL to match inventories loaded
// from upstream sheets where the column is simply absent.
func (r *TicketRepo) replaceTicketsTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
    if _, err := tx.ExecContext(ctx, `DELETE FROM tickets`); err != nil {
        return fmt.Errorf("clear tickets: %w", err)
    }
    if len(tickets) == 0 {
        return nil
    }
    query := `INSERT INTO tickets (ticket_id, type, category, admit, seq, sold, customer, visited, visitor_seats, sold_at) VALUES `
    args := make([]interface{}, 0, len(tickets)*10)
    for i, t := range tickets {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
        var seq interface{}
        if t.Seq != 0 {
            seq = t.Seq
        }
        var soldAt interface{}
        if t.SoldAt != nil {
            soldAt = t.SoldAt.UTC()
        }
        args = append(args, t.TicketID, string(t.Type), t.Category, t.Admit, seq,
            t.Sold, t.Customer, t.Visited, t.VisitorSeats, soldAt)
    }
    if _, err := tx.ExecContext(ctx, query, args...); err != nil {
        return fmt.Errorf("insert tickets: %w", err)
    }
    return nil
}
