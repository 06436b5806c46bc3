package orders

import (
	"time"

	"github.com/orderdesk/orderdesk/internal/catalog"
	"github.com/orderdesk/orderdesk/internal/clients"
)

// CreateSalesOrderRequest is the write command shared by create and update.
type CreateSalesOrderRequest struct {
	ClientID        int64                     `json:"clientId" validate:"required,gt=0"`
	OrderDate       time.Time                 `json:"orderDate" validate:"required"`
	DeliveryAddress string                    `json:"deliveryAddress" validate:"required"`
	City            string                    `json:"city" validate:"required"`
	PostalCode      string                    `json:"postalCode" validate:"required"`
	Lines           []CreateSalesOrderLineReq `json:"lines" validate:"dive"`
}

type CreateSalesOrderLineReq struct {
	ItemID   int64   `json:"itemId" validate:"required,gt=0"`
	Note     string  `json:"note"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	TaxRate  float64 `json:"taxRate" validate:"gte=0"`
}

// SalesOrderResponse is the denormalized read-model returned to callers,
// with the client's display name and each line's catalog fields inlined.
type SalesOrderResponse struct {
	ID              int64                    `json:"id"`
	OrderNumber     string                   `json:"orderNumber"`
	ClientID        int64                    `json:"clientId"`
	CustomerName    string                   `json:"customerName"`
	OrderDate       time.Time                `json:"orderDate"`
	DeliveryAddress string                   `json:"deliveryAddress"`
	City            string                   `json:"city"`
	PostalCode      string                   `json:"postalCode"`
	TotalExclAmount float64                  `json:"totalExclAmount"`
	TotalTaxAmount  float64                  `json:"totalTaxAmount"`
	TotalInclAmount float64                  `json:"totalInclAmount"`
	CreatedAt       time.Time                `json:"createdAt"`
	ModifiedAt      *time.Time               `json:"modifiedAt"`
	Lines           []SalesOrderLineResponse `json:"lines"`
}

// newSalesOrderResponse builds the read-model from the stored aggregate and
// the already-resolved client and catalog entries. Pure; no I/O.
func newSalesOrderResponse(o SalesOrder, client clients.Client, items map[int64]catalog.Item) SalesOrderResponse {
	resp := SalesOrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		ClientID:        o.ClientID,
		CustomerName:    client.CustomerName,
		OrderDate:       o.OrderDate,
		DeliveryAddress: o.DeliveryAddress,
		City:            o.City,
		PostalCode:      o.PostalCode,
		TotalExclAmount: o.TotalExclAmount,
		TotalTaxAmount:  o.TotalTaxAmount,
		TotalInclAmount: o.TotalInclAmount,
		CreatedAt:       o.CreatedAt,
		ModifiedAt:      o.ModifiedAt,
		Lines:           make([]SalesOrderLineResponse, 0, len(o.Lines)),
	}
	for _, line := range o.Lines {
		item := items[line.ItemID]
		resp.Lines = append(resp.Lines, SalesOrderLineResponse{
			ID:          line.ID,
			ItemID:      line.ItemID,
			ItemCode:    item.ItemCode,
			Description: item.Description,
			Note:        line.Note,
			Quantity:    line.Quantity,
			Price:       line.Price,
			TaxRate:     line.TaxRate,
			ExclAmount:  line.ExclAmount,
			TaxAmount:   line.TaxAmount,
			InclAmount:  line.InclAmount,
		})
	}
	return resp
}

type SalesOrderLineResponse struct {
	ID          int64   `json:"id"`
	ItemID      int64   `json:"itemId"`
	ItemCode    string  `json:"itemCode"`
	Description string  `json:"description"`
	Note        string  `json:"note"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	TaxRate     float64 `json:"taxRate"`
	ExclAmount  float64 `json:"exclAmount"`
	TaxAmount   float64 `json:"taxAmount"`
	InclAmount  float64 `json:"inclAmount"`
}
