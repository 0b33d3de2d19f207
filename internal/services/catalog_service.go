package services

import (
	"strings"
	"sync"

	"github.com/asaskevich/EventBus"

	"github.com/ruruk/palcofon/internal/domain"
	"github.com/ruruk/palcofon/internal/repos"
)

// ProductFilter narrows the product list. Filters combine with logical AND;
// an empty id slice or blank search text means "no restriction", never
// "match nothing".
type ProductFilter struct {
	CategoryIDs    []string
	ApplicationIDs []string
	SearchText     string
}

// FilterProducts applies f over a product snapshot. Pure: the input slice is
// never mutated and the result is a fresh slice in the input's order.
func FilterProducts(products []domain.Product, f ProductFilter) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(f.SearchText))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if len(f.CategoryIDs) > 0 && !contains(f.CategoryIDs, p.CategoryID) {
			continue
		}
		if len(f.ApplicationIDs) > 0 && !intersects(f.ApplicationIDs, p.ApplicationIDs) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// RelatedProducts returns the products tagged with the given application,
// in snapshot order.
func RelatedProducts(products []domain.Product, applicationID string) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range products {
		if contains(p.ApplicationIDs, applicationID) {
			out = append(out, p)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(set, vals []string) bool {
	for _, v := range vals {
		if contains(set, v) {
			return true
		}
	}
	return false
}

// CatalogService answers read-only queries over the collection files and
// keeps a derived per-category product count that is rebuilt after catalog
// mutations (invalidated via the event bus).
type CatalogService struct {
	cat *repos.Catalog

	mu     sync.Mutex
	gen    uint64
	counts map[string]int // nil = stale
}

func NewCatalogService(cat *repos.Catalog, bus EventBus.Bus) *CatalogService {
	s := &CatalogService{cat: cat}
	_ = bus.Subscribe(repos.CatalogTopic("products"), func(string) { s.invalidateCounts() })
	return s
}

func (s *CatalogService) invalidateCounts() {
	s.mu.Lock()
	s.gen++
	s.counts = nil
	s.mu.Unlock()
}

func (s *CatalogService) Categories() ([]domain.Category, error) {
	return s.cat.Categories.All()
}

func (s *CatalogService) Category(id string) (domain.Category, bool, error) {
	return s.cat.Categories.Get(id)
}

func (s *CatalogService) Products() ([]domain.Product, error) {
	return s.cat.Products.All()
}

func (s *CatalogService) Product(id string) (domain.Product, bool, error) {
	return s.cat.Products.Get(id)
}

func (s *CatalogService) Applications() ([]domain.Application, error) {
	return s.cat.Applications.All()
}

func (s *CatalogService) Application(id string) (domain.Application, bool, error) {
	return s.cat.Applications.Get(id)
}

func (s *CatalogService) Filter(f ProductFilter) ([]domain.Product, error) {
	products, err := s.cat.Products.All()
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, f), nil
}

func (s *CatalogService) Related(applicationID string) ([]domain.Product, error) {
	products, err := s.cat.Products.All()
	if err != nil {
		return nil, err
	}
	return RelatedProducts(products, applicationID), nil
}

// CategoryNames maps category id to display name, for resolving soft
// references; callers fall back to "Uncategorized" on a miss.
func (s *CatalogService) CategoryNames() (map[string]string, error) {
	cats, err := s.cat.Categories.All()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

// ProductCountForCategory reads the collection without holding s.mu: the
// bus delivers invalidations synchronously from inside catalog mutations,
// so holding s.mu across a collection read would invert the lock order.
// The generation counter drops a rebuild that raced a newer invalidation.
func (s *CatalogService) ProductCountForCategory(categoryID string) (int, error) {
	s.mu.Lock()
	counts := s.counts
	gen := s.gen
	s.mu.Unlock()

	if counts == nil {
		products, err := s.cat.Products.All()
		if err != nil {
			return 0, err
		}
		counts = make(map[string]int)
		for _, p := range products {
			counts[p.CategoryID]++
		}
		s.mu.Lock()
		if s.gen == gen {
			s.counts = counts
		}
		s.mu.Unlock()
	}
	return counts[categoryID], nil
}
