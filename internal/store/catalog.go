// Package store holds the immutable in-memory snapshots the browse pipeline
// ranks over: the product catalog and the purchase ledger. Both are built once
// at boot from their repositories and are safe for concurrent reads.
package store

import "freshmind/internal/domain"

// Catalog is the static product set in catalog order. Catalog order is the
// tiebreak for every stable sort in the pipeline.
type Catalog struct {
	products []domain.Product
	byID     map[int]int // product ID -> index in products
}

// NewCatalog builds a catalog snapshot. The input slice is copied; later
// mutation of the argument does not affect the catalog.
func NewCatalog(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Products returns the catalog in catalog order. Callers must not mutate the
// returned slice or its elements.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id int) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Contains reports whether the catalog has a product with the given ID.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Categories returns the distinct category names in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}
