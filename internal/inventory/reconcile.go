package inventory

import (
    "math"
    "sort"
    "strconv"
    "time"

    "github.com/iliyamo/event-ticket-office/internal/model"
)

// SummaryRow is one line of the reconciliation report: the aggregates
// for a single (seq, type, category, admit) group, or the trailing grand
// total whose Seq column carries the literal "Total".
//
// BalanceVisitors is seats paid for but not yet checked in.  It can go
// negative when recorded visitor seats exceed seats sold; that is a
// data-quality signal and is reported as-is.
type SummaryRow struct {
    Seq             string `json:"seq"`
    Type            string `json:"type"`
    Category        string `json:"category"`
    Admit           int    `json:"admit"`
    TotalTickets    int    `json:"total_tickets"`
    TicketsSold     int    `json:"tickets_sold"`
    TotalSeats      int    `json:"total_seats"`
    SeatsSold       int    `json:"seats_sold"`
    TotalVisitors   int    `json:"total_visitors"`
    BalanceTickets  int    `json:"balance_tickets"`
    BalanceSeats    int    `json:"balance_seats"`
    BalanceVisitors int    `json:"balance_visitors"`
}

// TotalLabel is the Seq value of the grand-total row.
const TotalLabel = "Total"

// groupKey identifies one summary group.  Admit is part of the key so a
// category sold at two admission sizes reconciles per size.
type groupKey struct {
    seq      int64
    typ      model.TicketType
    category string
    admit    int
}

// Summarize reduces the ticket collection to ordered summary rows plus a
// grand total.  Groups are ordered by Seq ascending with zero (unset)
// sorting after every numbered group, so miscellaneous rows trail the
// dashboard without being renumbered.  The total row sums every numeric
// column across all groups and is always last.
func Summarize(tickets []model.Ticket) []SummaryRow {
    groups := make(map[groupKey]*SummaryRow)
    keys := make([]groupKey, 0)
    for _, t := range tickets {
        k := groupKey{seq: t.Seq, typ: t.Type, category: t.Category, admit: t.Admit}
        row, ok := groups[k]
        if !ok {
            row = &SummaryRow{
                Seq:      strconv.FormatInt(t.Seq, 10),
                Type:     string(t.Type),
                Category: t.Category,
                Admit:    t.Admit,
            }
            groups[k] = row
            keys = append(keys, k)
        }
        row.TotalTickets++
        if t.Sold {
            row.TicketsSold++
        }
        row.TotalVisitors += t.VisitorSeats
    }

    sort.Slice(keys, func(i, j int) bool {
        a, b := keys[i], keys[j]
        as, bs := seqSortKey(a.seq), seqSortKey(b.seq)
        if as != bs {
            return as < bs
        }
        if a.typ != b.typ {
            return a.typ < b.typ
        }
        if a.category != b.category {
            return a.category < b.category
        }
        return a.admit < b.admit
    })

    out := make([]SummaryRow, 0, len(keys)+1)
    var total SummaryRow
    total.Seq = TotalLabel
    for _, k := range keys {
        row := *groups[k]
        row.TotalSeats = row.TotalTickets * row.Admit
        row.SeatsSold = row.TicketsSold * row.Admit
        row.BalanceTickets = row.TotalTickets - row.TicketsSold
        row.BalanceSeats = row.TotalSeats - row.SeatsSold
        row.BalanceVisitors = row.SeatsSold - row.TotalVisitors
        out = append(out, row)

        total.Admit += row.Admit
        total.TotalTickets += row.TotalTickets
        total.TicketsSold += row.TicketsSold
        total.TotalSeats += row.TotalSeats
        total.SeatsSold += row.SeatsSold
        total.TotalVisitors += row.TotalVisitors
        total.BalanceTickets += row.BalanceTickets
        total.BalanceSeats += row.BalanceSeats
        total.BalanceVisitors += row.BalanceVisitors
    }
    return append(out, total)
}

// seqSortKey maps an unset Seq to a sentinel above every real sequence
// value so those groups sort last.
func seqSortKey(seq int64) int64 {
    if seq == 0 {
        return math.MaxInt64
    }
    return seq
}

// SaleRecord is one line of the recent-sales view.
type SaleRecord struct {
    Sno      int       `json:"sno"`
    TicketID string    `json:"ticket_id"`
    Category string    `json:"category"`
    Customer string    `json:"customer"`
    SoldAt   time.Time `json:"sold_at"`
}

// RecentSales lists sold tickets newest sale first, each annotated with
// a 1-based display number.  A sold ticket missing its sale time sorts
// last; the sort is stable so equal timestamps keep inventory order.
func RecentSales(tickets []model.Ticket) []SaleRecord {
    sold := make([]model.Ticket, 0, len(tickets))
    for _, t := range tickets {
        if t.Sold {
            sold = append(sold, t)
        }
    }
    sort.SliceStable(sold, func(i, j int) bool {
        a, b := sold[i].SoldAt, sold[j].SoldAt
        switch {
        case a == nil:
            return false
        case b == nil:
            return true
        default:
            return a.After(*b)
        }
    })
    out := make([]SaleRecord, 0, len(sold))
    for i, t := range sold {
        rec := SaleRecord{
            Sno:      i + 1,
            TicketID: t.TicketID,
            Category: t.Category,
            Customer: t.Customer,
        }
        if t.SoldAt != nil {
            rec.SoldAt = *t.SoldAt
        }
        out = append(out, rec)
    }
    return out
}
