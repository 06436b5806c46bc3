package orders

import "time"

// SalesOrder is the persisted order header plus its owned lines. The header
// and lines are always written together as one aggregate.
type SalesOrder struct {
	ID              int64            `json:"id"`
	OrderNumber     string           `json:"orderNumber"`
	ClientID        int64            `json:"clientId"`
	OrderDate       time.Time        `json:"orderDate"`
	DeliveryAddress string           `json:"deliveryAddress"`
	City            string           `json:"city"`
	PostalCode      string           `json:"postalCode"`
	TotalExclAmount float64          `json:"totalExclAmount"`
	TotalTaxAmount  float64          `json:"totalTaxAmount"`
	TotalInclAmount float64          `json:"totalInclAmount"`
	CreatedAt       time.Time        `json:"createdAt"`
	ModifiedAt      *time.Time       `json:"modifiedAt,omitempty"`
	Lines           []SalesOrderLine `json:"lines,omitempty"`
}

// SalesOrderLine is one (item, quantity, tax rate) entry within an order.
// Price is the unit price captured from the catalog when the line was built;
// the three amounts are fully determined by (Quantity, Price, TaxRate).
type SalesOrderLine struct {
	ID           int64   `json:"id"`
	SalesOrderID int64   `json:"salesOrderId"`
	ItemID       int64   `json:"itemId"`
	Note         string  `json:"note"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	TaxRate      float64 `json:"taxRate"`
	ExclAmount   float64 `json:"exclAmount"`
	TaxAmount    float64 `json:"taxAmount"`
	InclAmount   float64 `json:"inclAmount"`
}
