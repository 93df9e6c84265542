package entity

import "time"

// Client comprador referenciado por las ventas. El núcleo transaccional no lo muta.
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
