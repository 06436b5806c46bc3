package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orderdesk/orderdesk/internal/catalog"
	"github.com/orderdesk/orderdesk/internal/clients"
	"github.com/orderdesk/orderdesk/internal/platform/httpx"
)

// dropUnknownItems controls what happens to a requested line whose item id
// does not resolve against the catalog: true drops the line and keeps the
// order, false rejects the whole command. Single policy point so the
// behavior can be flipped without touching the workflow.
const dropUnknownItems = true

// Service orchestrates the order pricing and persistence workflow.
type Service struct {
	repo       Repository
	clientRepo clients.Repository
	itemRepo   catalog.Repository

	now func() time.Time
}

func NewService(repo Repository, clientRepo clients.Repository, itemRepo catalog.Repository) *Service {
	return &Service{
		repo:       repo,
		clientRepo: clientRepo,
		itemRepo:   itemRepo,
		now:        time.Now,
	}
}

// List returns every order as a resolved read-model, newest order date first.
func (s *Service) List(ctx context.Context) ([]SalesOrderResponse, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	result := make([]SalesOrderResponse, 0, len(all))
	for _, o := range all {
		resp, err := s.project(ctx, o)
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

// Get returns the read-model for one order.
func (s *Service) Get(ctx context.Context, id int64) (*SalesOrderResponse, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("sales order %d: %w", id, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return s.project(ctx, *o)
}

// Create prices the requested lines, assigns an order number and persists the
// aggregate in one transaction. The response is re-read from storage so it
// reflects exactly what was stored, including any dropped lines.
func (s *Service) Create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	if _, err := s.verifyClient(ctx, req.ClientID); err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	totals := AggregateTotals(lines)

	order := SalesOrder{
		ClientID:        req.ClientID,
		OrderDate:       req.OrderDate,
		DeliveryAddress: req.DeliveryAddress,
		City:            req.City,
		PostalCode:      req.PostalCode,
		TotalExclAmount: totals.Excl,
		TotalTaxAmount:  totals.Tax,
		TotalInclAmount: totals.Incl,
	}

	var orderID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		// The order number derives from the highest assigned id, read just
		// before the insert. Concurrent creators can still observe the same
		// maximum and collide; order numbers are advisory, id is the identity.
		highest, err := repo.HighestOrderID(ctx)
		if err != nil {
			return fmt.Errorf("highest order id: %w", err)
		}
		order.OrderNumber = formatOrderNumber(s.now(), highest+1)

		id, err := repo.Create(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		orderID = id

		for _, line := range lines {
			line.SalesOrderID = orderID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, orderID)
}

// Update overwrites the mutable header fields and replaces the entire line
// set, recomputing totals. Order number and creation timestamp are preserved.
func (s *Service) Update(ctx context.Context, id int64, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("sales order %d: %w", id, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if _, err := s.verifyClient(ctx, req.ClientID); err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	totals := AggregateTotals(lines)

	header := SalesOrder{
		ClientID:        req.ClientID,
		OrderDate:       req.OrderDate,
		DeliveryAddress: req.DeliveryAddress,
		City:            req.City,
		PostalCode:      req.PostalCode,
		TotalExclAmount: totals.Excl,
		TotalTaxAmount:  totals.Tax,
		TotalInclAmount: totals.Incl,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateHeader(ctx, existing.ID, header); err != nil {
			return fmt.Errorf("update order header: %w", err)
		}
		if err := repo.DeleteLines(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
		for _, line := range lines {
			line.SalesOrderID = existing.ID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, existing.ID)
}

// Delete removes the order and its lines. The second value distinguishes
// "deleted" from "did not exist"; the latter is not an error.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	return deleted, nil
}

func (s *Service) verifyClient(ctx context.Context, clientID int64) (*clients.Client, error) {
	client, err := s.clientRepo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, fmt.Errorf("client %d: %w", clientID, httpx.ErrInvalidReference)
		}
		return nil, fmt.Errorf("verify client: %w", err)
	}
	return client, nil
}

// buildLines resolves the requested items, captures their current prices and
// runs the calculator. Requested line ordering is preserved.
func (s *Service) buildLines(ctx context.Context, reqs []CreateSalesOrderLineReq) ([]SalesOrderLine, error) {
	lines := make([]SalesOrderLine, 0, len(reqs))
	for i, lr := range reqs {
		if lr.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be greater than zero: %w", i+1, httpx.ErrValidation)
		}
		if lr.TaxRate < 0 {
			return nil, fmt.Errorf("line %d: tax rate must not be negative: %w", i+1, httpx.ErrValidation)
		}

		item, err := s.itemRepo.Get(ctx, lr.ItemID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				if dropUnknownItems {
					continue
				}
				return nil, fmt.Errorf("item %d: %w", lr.ItemID, httpx.ErrInvalidReference)
			}
			return nil, fmt.Errorf("resolve item %d: %w", lr.ItemID, err)
		}

		excl, tax, incl := ComputeLineAmounts(lr.Quantity, item.Price, lr.TaxRate)
		lines = append(lines, SalesOrderLine{
			ItemID:     lr.ItemID,
			Note:       lr.Note,
			Quantity:   lr.Quantity,
			Price:      item.Price,
			TaxRate:    lr.TaxRate,
			ExclAmount: excl,
			TaxAmount:  tax,
			InclAmount: incl,
		})
	}
	return lines, nil
}

// project joins the client name and catalog display fields into the
// read-model. Lookups happen up front; no lazy loading inside the mapping.
func (s *Service) project(ctx context.Context, o SalesOrder) (*SalesOrderResponse, error) {
	client, err := s.clientRepo.Get(ctx, o.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client %d: %w", o.ClientID, err)
	}

	items := make(map[int64]catalog.Item, len(o.Lines))
	for _, line := range o.Lines {
		if _, ok := items[line.ItemID]; ok {
			continue
		}
		item, err := s.itemRepo.Get(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve item %d: %w", line.ItemID, err)
		}
		items[line.ItemID] = *item
	}

	resp := newSalesOrderResponse(o, *client, items)
	return &resp, nil
}

func formatOrderNumber(date time.Time, next int64) string {
	return fmt.Sprintf("SO%s%04d", date.Format("20060102"), next)
}
