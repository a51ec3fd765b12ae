package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/models"
	"pos-service/internal/realtime"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the slice of the backing store the catalog needs.
type ProductRepository interface {
	Create(product *models.Product) error
	Update(product *models.Product) error
	SetAvailability(productID uint, available bool) error
	Delete(productID uint) error
	GetByID(productID uint) (*models.Product, error)
	GetByIDs(productIDs []uint) ([]models.Product, error)
	GetAll() ([]models.Product, error)
	GetAvailable() ([]models.Product, error)
}

// ProductService manages the catalog. List reads go through the cache layer;
// every mutation notifies, which invalidates all product datasets.
type ProductService struct {
	products    ProductRepository
	cache       *cache.Cache
	notifier    *realtime.Notifier
	productsTTL time.Duration
}

func NewProductService(products ProductRepository, c *cache.Cache, notifier *realtime.Notifier, productsTTL time.Duration) *ProductService {
	return &ProductService{
		products:    products,
		cache:       c,
		notifier:    notifier,
		productsTTL: productsTTL,
	}
}

func (s *ProductService) CreateProduct(req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if err := s.products.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.notifier.NotifyProductCreated(product)
	return product, nil
}

func (s *ProductService) UpdateProduct(productID uint, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if err := s.products.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.notifier.NotifyProductUpdated(product)
	return product, nil
}

func (s *ProductService) DeleteProduct(productID uint) error {
	if _, err := s.products.GetByID(productID); err != nil {
		return ErrProductNotFound
	}
	if err := s.products.Delete(productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.notifier.NotifyProductDeleted(productID)
	return nil
}

func (s *ProductService) SetAvailability(productID uint, available bool) (*models.Product, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if err := s.products.SetAvailability(productID, available); err != nil {
		return nil, fmt.Errorf("failed to set availability: %w", err)
	}
	product.Available = available

	s.notifier.NotifyProductAvailabilityChanged(productID, available)
	return product, nil
}

// ListAll returns every catalog entry, available or not, for admin screens.
func (s *ProductService) ListAll(ctx context.Context) ([]models.ProductResponse, error) {
	value, err := s.cache.GetOrCompute(ctx, cache.KeyAllProducts, s.productsTTL, func(ctx context.Context) (interface{}, error) {
		products, err := s.products.GetAll()
		if err != nil {
			return nil, err
		}
		return toResponses(products), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.ProductResponse), nil
}

// ListAvailable returns only the products currently orderable.
func (s *ProductService) ListAvailable(ctx context.Context) ([]models.ProductResponse, error) {
	value, err := s.cache.GetOrCompute(ctx, cache.KeyAvailableProducts, s.productsTTL, func(ctx context.Context) (interface{}, error) {
		products, err := s.products.GetAvailable()
		if err != nil {
			return nil, err
		}
		return toResponses(products), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.ProductResponse), nil
}

// GetMenu returns the available products grouped by category for the counter
// screen.
func (s *ProductService) GetMenu(ctx context.Context) (*models.MenuResponse, error) {
	value, err := s.cache.GetOrCompute(ctx, cache.KeyProducts, s.productsTTL, func(ctx context.Context) (interface{}, error) {
		products, err := s.products.GetAvailable()
		if err != nil {
			return nil, err
		}
		menu := &models.MenuResponse{Categories: make(map[string][]models.ProductResponse)}
		for i := range products {
			category := products[i].Category
			menu.Categories[category] = append(menu.Categories[category], products[i].ToResponse())
		}
		return menu, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.MenuResponse), nil
}

func toResponses(products []models.Product) []models.ProductResponse {
	responses := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, products[i].ToResponse())
	}
	return responses
}
