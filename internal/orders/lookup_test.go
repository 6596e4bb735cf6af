package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

func TestLookupKnownOrder(t *testing.T) {
	lookup := NewDemoLookup()

	line := lookup.Lookup("ORD-1001")
	assert.NotEqual(t, NoOrderHistory, line)
	assert.Contains(t, line, "ORD-1001")
	assert.Contains(t, line, "Wireless Headphones, USB-C Cable")
	assert.Contains(t, line, "$89.99")
	assert.Contains(t, line, "Delivered")
}

func TestLookupUnknownOrder(t *testing.T) {
	lookup := NewDemoLookup()
	assert.Equal(t, NoOrderHistory, lookup.Lookup("ORD-9999"))
	assert.Equal(t, NoOrderHistory, lookup.Lookup(""))
}

func TestLookupCustomCatalog(t *testing.T) {
	lookup := NewCatalogLookup([]domain.Order{
		{ID: "ORD-7", Items: []string{"Desk Lamp"}, Total: 25.50, Date: "2024-01-02", Status: "Delivered"},
	})
	line := lookup.Lookup("ORD-7")
	assert.Equal(t, "Order ID: ORD-7, Items: Desk Lamp, Total: $25.50, Date: 2024-01-02, Status: Delivered", line)
}
