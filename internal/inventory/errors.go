// Package inventory implements the ticket office core: the state
// transitions a ticket can make (unsold -> sold -> visited, and the
// reversible sold -> unsold) and the reconciliation report derived from
// the raw ticket set.  Every failure mode an operator can trigger is a
// sentinel below; handlers match them with errors.Is to pick a status
// code.  Anything else coming out of the engine is a persistence
// failure, and in that case the mutation is not committed.
package inventory

import "errors"

// ErrTicketNotFound is returned when no ticket carries the requested ID.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrAlreadySold is returned by Sell when the ticket is already sold.
var ErrAlreadySold = errors.New("ticket already sold")

// ErrNotSold is returned by ReverseSale and CheckIn when the ticket has
// not been sold yet.  Visitors can only be recorded against a sold
// ticket.
var ErrNotSold = errors.New("ticket not sold")

// ErrUnauthorized is returned when the supplied admin secret does not
// match the configured one.
var ErrUnauthorized = errors.New("unauthorized")

// ErrValidation is returned when an operation argument would violate an
// inventory invariant, e.g. a negative seat count at check-in.  The
// wrapped message names the offending argument.
var ErrValidation = errors.New("validation failed")
