package orders

import (
	"fmt"
	"strings"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// NoOrderHistory is returned when an order reference cannot be matched.
// A missing order is not an error; it only degrades the context handed to
// the classifier.
const NoOrderHistory = "No order history found."

// Lookup resolves an order reference to a human-readable context line.
type Lookup interface {
	Lookup(orderID string) string
}

// CatalogLookup serves order context from a fixed catalog.
type CatalogLookup struct {
	orders map[string]domain.Order
}

// NewCatalogLookup builds a lookup over the given orders.
func NewCatalogLookup(catalog []domain.Order) *CatalogLookup {
	orders := make(map[string]domain.Order, len(catalog))
	for _, order := range catalog {
		orders[order.ID] = order
	}
	return &CatalogLookup{orders: orders}
}

// NewDemoLookup builds a lookup over the sample shop catalog.
func NewDemoLookup() *CatalogLookup {
	return NewCatalogLookup([]domain.Order{
		{ID: "ORD-1001", Items: []string{"Wireless Headphones", "USB-C Cable"}, Total: 89.99, Date: "2023-10-15", Status: "Delivered"},
		{ID: "ORD-1002", Items: []string{"Gaming Mouse", "Mechanical Keyboard"}, Total: 150.00, Date: "2023-10-20", Status: "Shipped"},
		{ID: "ORD-1003", Items: []string{"4K Monitor"}, Total: 399.99, Date: "2023-10-01", Status: "Delivered"},
	})
}

// Lookup returns the order context line or the NoOrderHistory sentinel.
func (l *CatalogLookup) Lookup(orderID string) string {
	order, ok := l.orders[orderID]
	if !ok {
		return NoOrderHistory
	}
	return fmt.Sprintf("Order ID: %s, Items: %s, Total: $%.2f, Date: %s, Status: %s",
		order.ID, strings.Join(order.Items, ", "), order.Total, order.Date, order.Status)
}
