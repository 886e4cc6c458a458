package cart

import (
	"github.com/jscartlabs/cart-service/internal/catalog"
	"github.com/jscartlabs/cart-service/internal/model"
)

// Summarize derives the cart totals from one line snapshot. All price
// arithmetic is integer minor units; decimal formatting happens only
// at the presentation boundary. An empty snapshot yields zeros.
func Summarize(cat *catalog.Catalog, lines []model.CartLine) model.Summary {
	var sum model.Summary
	for _, ln := range lines {
		p, ok := cat.Get(ln.ProductID)
		if !ok {
			// Store invariant: lines always reference the catalog.
			continue
		}
		sum.TotalQuantity += ln.Quantity
		sum.TotalPrice += ln.Quantity * p.Price
	}
	return sum
}
