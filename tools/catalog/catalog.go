// Package catalog provides the product catalog and the search tools the
// sales assistant is bound with. The catalog is loaded from a TOML file at
// startup and held in memory; tools only read it.
package catalog

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Product is one sellable item in the catalog.
type Product struct {
	SKU         string  `toml:"sku" json:"sku"`
	Name        string  `toml:"name" json:"name"`
	Category    string  `toml:"category" json:"category"`
	Price       float64 `toml:"price" json:"price"`
	Description string  `toml:"description" json:"description"`
	InStock     bool    `toml:"in_stock" json:"in_stock"`
}

// Catalog is an immutable set of products.
type Catalog struct {
	Products []Product `toml:"products"`
}

// New creates a catalog from the given products.
func New(products ...Product) *Catalog {
	return &Catalog{Products: products}
}

// LoadFile reads a catalog from a TOML file.
func LoadFile(path string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, errors.Wrapf(err, "failed to load catalog from %s", path)
	}
	return &c, nil
}

// Search returns products whose name, category, or description contains the
// query, case-insensitive. An empty query matches nothing.
func (c *Catalog) Search(query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []Product
	for _, p := range c.Products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Category), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Filter returns products matching the structured criteria. A zero value
// for a criterion means it is not applied.
func (c *Catalog) Filter(category string, maxPrice float64, inStockOnly bool) []Product {
	category = strings.ToLower(strings.TrimSpace(category))
	var matches []Product
	for _, p := range c.Products {
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		if maxPrice > 0 && p.Price > maxPrice {
			continue
		}
		if inStockOnly && !p.InStock {
			continue
		}
		matches = append(matches, p)
	}
	return matches
}

// Get returns the product with the given SKU.
func (c *Catalog) Get(sku string) (Product, bool) {
	for _, p := range c.Products {
		if strings.EqualFold(p.SKU, sku) {
			return p, true
		}
	}
	return Product{}, false
}
