package catalog

import "time"

// Item is a catalog entry. Unit prices are snapshotted into order lines at
// order-write time, so editing the catalog never reprices existing orders.
type Item struct {
	ID          int64     `json:"id"`
	ItemCode    string    `json:"itemCode"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}
