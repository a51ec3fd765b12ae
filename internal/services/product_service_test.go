package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/models"
	"pos-service/internal/realtime"
)

type fakeProductRepo struct {
	products map[uint]*models.Product
	nextID   uint

	getAvailableCalls int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*models.Product)}
}

func (r *fakeProductRepo) Create(product *models.Product) error {
	r.nextID++
	product.ID = r.nextID
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *fakeProductRepo) Update(product *models.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return errors.New("record not found")
	}
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *fakeProductRepo) SetAvailability(productID uint, available bool) error {
	p, ok := r.products[productID]
	if !ok {
		return errors.New("record not found")
	}
	p.Available = available
	return nil
}

func (r *fakeProductRepo) Delete(productID uint) error {
	delete(r.products, productID)
	return nil
}

func (r *fakeProductRepo) GetByID(productID uint) (*models.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) GetByIDs(productIDs []uint) ([]models.Product, error) {
	matched := make([]models.Product, 0, len(productIDs))
	for _, id := range productIDs {
		if p, ok := r.products[id]; ok {
			matched = append(matched, *p)
		}
	}
	return matched, nil
}

func (r *fakeProductRepo) GetAll() ([]models.Product, error) {
	all := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, *p)
	}
	return all, nil
}

func (r *fakeProductRepo) GetAvailable() ([]models.Product, error) {
	r.getAvailableCalls++
	available := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Available {
			available = append(available, *p)
		}
	}
	return available, nil
}

func newProductServiceUnderTest(repo *fakeProductRepo) (*ProductService, *frameRecorder) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := realtime.NewRegistry(logger)
	hub := realtime.NewHub(registry, nil, "test-instance", logger)
	c := cache.New(logger)
	notifier := realtime.NewNotifier(hub, c, nil, logger)

	recorder := &frameRecorder{}
	registry.Register("observer", realtime.Identity{Role: realtime.RoleAdmin}, recorder)

	return NewProductService(repo, c, notifier, time.Minute), recorder
}

func TestCreateProductDefaultsToAvailable(t *testing.T) {
	svc, recorder := newProductServiceUnderTest(newFakeProductRepo())

	created, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Banh mi", Price: 4.5})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !created.Available {
		t.Error("New product must default to available")
	}
	events := recorder.events(t)
	if len(events) != 1 || events[0] != realtime.EventProductCreated {
		t.Errorf("Expected one productCreated event, got %v", events)
	}
}

func TestSetAvailability(t *testing.T) {
	repo := newFakeProductRepo()
	svc, recorder := newProductServiceUnderTest(repo)

	created, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Banh mi", Price: 4.5})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	updated, err := svc.SetAvailability(created.ID, false)
	if err != nil {
		t.Fatalf("SetAvailability failed: %v", err)
	}
	if updated.Available {
		t.Error("Expected product marked sold out")
	}
	if stored, _ := repo.GetByID(created.ID); stored.Available {
		t.Error("Repo not updated")
	}
	events := recorder.events(t)
	if events[len(events)-1] != realtime.EventProductAvailabilityChanged {
		t.Errorf("Expected productAvailabilityChanged, got %v", events)
	}

	if _, err := svc.SetAvailability(999, true); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestGetMenuGroupsByCategory(t *testing.T) {
	repo := newFakeProductRepo()
	svc, _ := newProductServiceUnderTest(repo)

	seed := []models.CreateProductRequest{
		{Name: "Pho", Price: 6.5, Category: "soup"},
		{Name: "Bun bo", Price: 7.0, Category: "soup"},
		{Name: "Iced coffee", Price: 2.5, Category: "drinks"},
	}
	var soldOut uint
	for i := range seed {
		p, err := svc.CreateProduct(&seed[i])
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if p.Name == "Bun bo" {
			soldOut = p.ID
		}
	}
	if _, err := svc.SetAvailability(soldOut, false); err != nil {
		t.Fatalf("SetAvailability failed: %v", err)
	}

	menu, err := svc.GetMenu(context.Background())
	if err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}
	if len(menu.Categories["soup"]) != 1 {
		t.Errorf("Sold-out product must not appear on the menu, got %+v", menu.Categories["soup"])
	}
	if len(menu.Categories["drinks"]) != 1 {
		t.Errorf("Expected 1 drink, got %+v", menu.Categories["drinks"])
	}
}

func TestListAvailableCachesUntilMutation(t *testing.T) {
	repo := newFakeProductRepo()
	svc, _ := newProductServiceUnderTest(repo)

	created, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Pho", Price: 6.5})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	ctx := context.Background()
	if _, err := svc.ListAvailable(ctx); err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if _, err := svc.ListAvailable(ctx); err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if repo.getAvailableCalls != 1 {
		t.Fatalf("Second list within TTL must hit the cache, got %d repo calls", repo.getAvailableCalls)
	}

	// Any catalog mutation invalidates the available_products dataset
	if _, err := svc.SetAvailability(created.ID, false); err != nil {
		t.Fatalf("SetAvailability failed: %v", err)
	}
	listed, err := svc.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if repo.getAvailableCalls != 2 {
		t.Errorf("Expected recompute after mutation, got %d repo calls", repo.getAvailableCalls)
	}
	if len(listed) != 0 {
		t.Errorf("Expected no available products, got %d", len(listed))
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := newFakeProductRepo()
	svc, recorder := newProductServiceUnderTest(repo)

	created, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Pho", Price: 6.5})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if err := svc.DeleteProduct(created.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	events := recorder.events(t)
	if events[len(events)-1] != realtime.EventProductDeleted {
		t.Errorf("Expected productDeleted, got %v", events)
	}
	if err := svc.DeleteProduct(created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound on double delete, got %v", err)
	}
}
