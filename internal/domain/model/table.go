package model

// TableStatus describes the allocation state of a physical table.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "AVAILABLE"
	TableStatusReserved  TableStatus = "RESERVED"
	TableStatusOccupied  TableStatus = "OCCUPIED"
	TableStatusCleaning  TableStatus = "CLEANING"
)

// Table represents a physical dine-in table.
type Table struct {
	ID     int64
	Name   string
	Status TableStatus
}

// ValidOverride reports whether an operator may set the status manually.
// OCCUPIED is derived from active orders and is never set by hand.
func ValidOverride(s TableStatus) bool {
	switch s {
	case TableStatusAvailable, TableStatusReserved, TableStatusCleaning:
		return true
	}
	return false
}
