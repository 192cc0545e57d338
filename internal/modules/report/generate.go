package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/inventory"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/order"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/sale"
)

// Sales lists recorded sales.
type Sales interface {
	ListSales(ctx context.Context, f sale.ListFilter) ([]sale.Sale, error)
}

// Orders lists purchase orders.
type Orders interface {
	ListOrders(ctx context.Context, f order.ListFilter) ([]order.Order, error)
}

// Stock lists inventory.
type Stock interface {
	List(ctx context.Context, f inventory.ListFilter) ([]inventory.Item, error)
	LowStock(ctx context.Context) ([]inventory.Item, error)
}

// Generator computes report figures from the live collections.
type Generator struct {
	sales  Sales
	orders Orders
	stock  Stock
}

func NewGenerator(sales Sales, orders Orders, stock Stock) *Generator {
	return &Generator{sales: sales, orders: orders, stock: stock}
}

// Compute reads the three sources concurrently.
//
// Revenue is the amount of completed sales sold within the period. Expenses are the totals of
// orders delivered within the period. Inventory value is quantity times cost, or price when an
// item has no cost, and reflects stock at generation time.
func (g *Generator) Compute(ctx context.Context, start, end time.Time) (Data, error) {
	var (
		sales    []sale.Sale
		orders   []order.Order
		items    []inventory.Item
		lowStock []inventory.Item
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		sales, err = g.sales.ListSales(ctx, sale.ListFilter{From: start, To: end})
		return err
	})
	eg.Go(func() (err error) {
		orders, err = g.orders.ListOrders(ctx, order.ListFilter{Status: order.StatusDelivered})
		return err
	})
	eg.Go(func() (err error) {
		items, err = g.stock.List(ctx, inventory.ListFilter{})
		return err
	})
	eg.Go(func() (err error) {
		lowStock, err = g.stock.LowStock(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return Data{}, fmt.Errorf("failed to read report sources: %w", err)
	}

	var d Data
	for _, s := range sales {
		switch s.Status {
		case sale.StatusCompleted:
			d.SalesCount++
			d.Revenue += s.Amount
		case sale.StatusRefunded:
			d.RefundCount++
		}
	}
	for _, o := range orders {
		if o.DeliveredAt == nil || o.DeliveredAt.Before(start) || o.DeliveredAt.After(end) {
			continue
		}
		d.OrderCount++
		d.Expenses += o.TotalAmount
	}
	for _, item := range items {
		unit := item.Cost
		if unit == 0 {
			unit = item.Price
		}
		d.InventoryValue += unit * float64(item.Quantity)
	}
	d.ItemCount = len(items)
	d.LowStockCount = len(lowStock)

	d.Revenue = currency.Round2(d.Revenue)
	d.Expenses = currency.Round2(d.Expenses)
	d.Profit = currency.Round2(d.Revenue - d.Expenses)
	d.InventoryValue = currency.Round2(d.InventoryValue)
	return d, nil
}
