// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketSoldEvent is published when a ticket sale is accepted and
// persisted.  It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type TicketSoldEvent struct {
    TicketID string `json:"ticket_id"`
    Type     string `json:"type"`
    Category string `json:"category"`
    Customer string `json:"customer"`
    Admit    int    `json:"admit"`
    SoldAt   string `json:"sold_at"`
}
