package services_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"

	"github.com/ruruk/palcofon/internal/domain"
	"github.com/ruruk/palcofon/internal/repos"
	"github.com/ruruk/palcofon/internal/services"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Omega Floodlight", Description: "for yards", CategoryID: "flood", ApplicationIDs: []string{"sports"}},
		{ID: "p2", Name: "Titan Highbay", Description: "warehouse aisles", CategoryID: "highbay", ApplicationIDs: []string{"warehousing"}},
		{ID: "p3", Name: "Vega Streetlight", Description: "road optic", CategoryID: "street", ApplicationIDs: []string{"roadways", "warehousing"}},
	}
}

func TestFilterProductsEmptyFilterReturnsAll(t *testing.T) {
	got := services.FilterProducts(sampleProducts(), services.ProductFilter{})
	if len(got) != 3 {
		t.Fatalf("empty filter must return everything, got %d", len(got))
	}
	for i, id := range []string{"p1", "p2", "p3"} {
		if got[i].ID != id {
			t.Fatalf("order not preserved at %d: %s", i, got[i].ID)
		}
	}
}

func TestFilterProductsByCategory(t *testing.T) {
	got := services.FilterProducts(sampleProducts(), services.ProductFilter{
		CategoryIDs: []string{"flood", "street"},
	})
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p3" {
		t.Fatalf("want [p1 p3], got %+v", got)
	}
}

func TestFilterProductsByApplication(t *testing.T) {
	got := services.FilterProducts(sampleProducts(), services.ProductFilter{
		ApplicationIDs: []string{"warehousing"},
	})
	if len(got) != 2 || got[0].ID != "p2" || got[1].ID != "p3" {
		t.Fatalf("want [p2 p3], got %+v", got)
	}
}

func TestFilterProductsSearchIsCaseInsensitive(t *testing.T) {
	got := services.FilterProducts(sampleProducts(), services.ProductFilter{SearchText: "TITAN"})
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("want [p2], got %+v", got)
	}
	// Description matches too.
	got = services.FilterProducts(sampleProducts(), services.ProductFilter{SearchText: "road"})
	if len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("want [p3], got %+v", got)
	}
}

func TestFilterProductsFiltersCombineWithAND(t *testing.T) {
	got := services.FilterProducts(sampleProducts(), services.ProductFilter{
		ApplicationIDs: []string{"warehousing"},
		SearchText:     "vega",
	})
	if len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("want [p3], got %+v", got)
	}
}

func TestFilterProductsDoesNotMutateInput(t *testing.T) {
	in := sampleProducts()
	_ = services.FilterProducts(in, services.ProductFilter{CategoryIDs: []string{"flood"}})
	if len(in) != 3 || in[0].ID != "p1" || in[2].ID != "p3" {
		t.Fatalf("input slice mutated: %+v", in)
	}
}

func TestRelatedProducts(t *testing.T) {
	got := services.RelatedProducts(sampleProducts(), "warehousing")
	if len(got) != 2 || got[0].ID != "p2" || got[1].ID != "p3" {
		t.Fatalf("want [p2 p3], got %+v", got)
	}
	if got = services.RelatedProducts(sampleProducts(), "nope"); len(got) != 0 {
		t.Fatalf("unknown application should relate to nothing, got %+v", got)
	}
}

func newCatalogService(t *testing.T) (*services.CatalogService, *repos.Catalog) {
	t.Helper()
	bus := EventBus.New()
	cat := repos.OpenCatalog(t.TempDir(), bus)
	return services.NewCatalogService(cat, bus), cat
}

func TestProductCountForCategoryRebuildsAfterMutation(t *testing.T) {
	svc, cat := newCatalogService(t)
	if err := cat.Products.Create(domain.Product{ID: "p1", Name: "P1", CategoryID: "flood"}); err != nil {
		t.Fatal(err)
	}

	n, err := svc.ProductCountForCategory("flood")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1, got %d", n)
	}

	// A catalog mutation must invalidate the derived counts.
	if err := cat.Products.Create(domain.Product{ID: "p2", Name: "P2", CategoryID: "flood"}); err != nil {
		t.Fatal(err)
	}
	n, err = svc.ProductCountForCategory("flood")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("stale count after mutation: want 2, got %d", n)
	}
}

// Creates publish invalidations on the bus while counts rebuild from the
// same collection; the two sides must never wait on each other's lock.
func TestCreateAndCountConcurrently(t *testing.T) {
	svc, cat := newCatalogService(t)

	const writers, perWriter, reads = 4, 25, 100
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				p := domain.Product{ID: fmt.Sprintf("p-%d-%d", w, i), Name: "P", CategoryID: "flood"}
				if err := cat.Products.Create(p); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < reads; i++ {
				if _, err := svc.ProductCountForCategory("flood"); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("create and count did not finish")
	}

	n, err := svc.ProductCountForCategory("flood")
	if err != nil {
		t.Fatal(err)
	}
	if n != writers*perWriter {
		t.Fatalf("want %d, got %d", writers*perWriter, n)
	}
}

func TestCategoryNames(t *testing.T) {
	svc, cat := newCatalogService(t)
	if err := cat.Categories.Create(domain.Category{ID: "flood", Name: "Floodlights"}); err != nil {
		t.Fatal(err)
	}
	names, err := svc.CategoryNames()
	if err != nil {
		t.Fatal(err)
	}
	if names["flood"] != "Floodlights" {
		t.Fatalf("want Floodlights, got %q", names["flood"])
	}
	if names["missing"] != "" {
		t.Fatalf("missing id should map to empty string, got %q", names["missing"])
	}
}
