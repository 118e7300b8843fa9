package model

// MenuEntry declares one valid (type, category) pair.  The menu drives
// the selection forms in the front end and defines the category
// namespace the reconciliation report groups by.  Menu entries carry no
// state of their own.
type MenuEntry struct {
	Type     TicketType // menu.type
	Category string     // menu.category
}
