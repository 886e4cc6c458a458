// Package catalog holds the immutable product list loaded at startup.
package catalog

import (
	"github.com/jscartlabs/cart-service/internal/model"
	"github.com/jscartlabs/cart-service/internal/money"
)

// Record is the raw shape of one catalog source entry. Price stays a
// decimal string until validation converts it to minor units.
type Record struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

// Catalog is a read-only product lookup. It is safe for concurrent use
// once constructed because it is never mutated afterwards.
type Catalog struct {
	byID  map[string]model.Product
	order []string
}

// New validates records and builds the catalog.
func New(records []Record) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]model.Product, len(records))}
	for i, r := range records {
		if r.ID == "" {
			return nil, &MalformedEntryError{Index: i, Field: "id", Reason: "is required"}
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, &MalformedEntryError{Index: i, Field: "id", Reason: "is a duplicate"}
		}
		if r.Name == "" {
			return nil, &MalformedEntryError{Index: i, Field: "name", Reason: "is required"}
		}
		if r.Stock < 0 {
			return nil, &MalformedEntryError{Index: i, Field: "stock", Reason: "is negative"}
		}
		price, err := money.ParsePrice(r.Price)
		if err != nil {
			return nil, &MalformedEntryError{Index: i, Field: "price", Reason: err.Error()}
		}
		c.byID[r.ID] = model.Product{ID: r.ID, Name: r.Name, Price: price, Stock: r.Stock}
		c.order = append(c.order, r.ID)
	}
	return c, nil
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id string) (model.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns every product in load order.
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.order) }
