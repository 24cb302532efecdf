package model

// Menu is a catalog entry used only to snapshot unit prices at checkout.
type Menu struct {
	ID        int64
	Name      string
	Price     float64
	Available bool
}
