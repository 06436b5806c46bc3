package clients

import "time"

// Client is a customer record. The order workflow treats clients as
// read-only reference data; rows are provisioned by the seed tooling.
type Client struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customerName"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postalCode"`
	CreatedAt    time.Time `json:"createdAt"`
}
