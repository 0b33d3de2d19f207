package repos

import (
	"github.com/asaskevich/EventBus"

	"github.com/ruruk/palcofon/internal/domain"
)

// Catalog bundles the three collection files that make up the product
// database: categories.json, products.json and applications.json under the
// configured data directory.
type Catalog struct {
	Categories   *Collection[domain.Category]
	Products     *Collection[domain.Product]
	Applications *Collection[domain.Application]
}

func OpenCatalog(dir string, bus EventBus.Bus) *Catalog {
	return &Catalog{
		Categories:   NewCollection[domain.Category](dir, "categories", bus),
		Products:     NewCollection[domain.Product](dir, "products", bus),
		Applications: NewCollection[domain.Application](dir, "applications", bus),
	}
}
