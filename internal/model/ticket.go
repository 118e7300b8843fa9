package model

import (
	"strings"
	"time"
)

// TicketType distinguishes the two admission namespaces.  Categories for
// Public and Guest tickets are independent of each other: "GA" under
// Public and "GA" under Guest are different groups everywhere in the
// system.
type TicketType string

const (
	TypePublic TicketType = "Public" // tickets.type = 'Public'
	TypeGuest  TicketType = "Guest"  // tickets.type = 'Guest'
)

// ValidType reports whether t is one of the known ticket types.
func ValidType(t TicketType) bool {
	return t == TypePublic || t == TypeGuest
}

// Ticket is a single admission unit in the fixed inventory.  Tickets are
// never created or deleted at runtime; only the sale and visit fields
// change.
//
// Fields:
//  TicketID     – unique identifier, zero-padded to 4 digits.
//  Type         – Public or Guest.
//  Category     – price tier or grouping within the type.
//  Admit        – seats a single ticket grants, always >= 1.
//  Seq          – display-order key for the dashboard; 0 means unset
//                 and sorts after every numbered group.
//  Sold         – whether the ticket has been sold.
//  Customer     – buyer name, empty while unsold.
//  Visited      – whether visitors have been checked in against it.
//  VisitorSeats – seats actually used at check-in, 0 while unsold.
//  SoldAt       – sale time, nil while unsold.
type Ticket struct {
	TicketID     string     // tickets.ticket_id
	Type         TicketType // tickets.type
	Category     string     // tickets.category
	Admit        int        // tickets.admit
	Seq          int64      // tickets.seq (0 = unset)
	Sold         bool       // tickets.sold
	Customer     string     // tickets.customer
	Visited      bool       // tickets.visited
	VisitorSeats int        // tickets.visitor_seats
	SoldAt       *time.Time // tickets.sold_at (nullable)
}

// Normalized returns a copy of the ticket with the load-boundary
// coercions applied: Admit below 1 becomes 1, negative VisitorSeats and
// Seq become 0, and the TicketID is zero-padded to four characters.
// Every ticket coming out of persistence passes through this exactly
// once; downstream code assumes already-normalized records and never
// re-checks.
func (t Ticket) Normalized() Ticket {
	if t.Admit < 1 {
		t.Admit = 1
	}
	if t.VisitorSeats < 0 {
		t.VisitorSeats = 0
	}
	if t.Seq < 0 {
		t.Seq = 0
	}
	t.TicketID = PadTicketID(t.TicketID)
	return t
}

// PadTicketID left-pads an identifier with zeros to a width of four, so
// "7" and "0007" name the same ticket.  Longer identifiers pass through
// unchanged.
func PadTicketID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= 4 {
		return id
	}
	return strings.Repeat("0", 4-len(id)) + id
}
