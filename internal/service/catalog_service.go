package service

import (
	"errors"
	"sync"

	"catalog-admin/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// CatalogService keeps products in memory, one catalog per API path
type CatalogService interface {
	List(apiPath string) []domain.Product
	Create(apiPath string, payload domain.ProductPayload) domain.Product
	Update(apiPath, id string, payload domain.ProductPayload) (domain.Product, error)
	Delete(apiPath, id string) error
	Seed(apiPath string, products ...domain.Product)
}

type catalogService struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]domain.Product
	order    map[string][]string
}

// NewCatalogService creates an empty catalog
func NewCatalogService() CatalogService {
	return &catalogService{
		catalogs: make(map[string]map[string]domain.Product),
		order:    make(map[string][]string),
	}
}

// List returns products in creation order
func (s *catalogService) List(apiPath string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.order[apiPath]))
	for _, id := range s.order[apiPath] {
		products = append(products, s.catalogs[apiPath][id])
	}
	return products
}

// Create stores a payload under a fresh id
func (s *catalogService) Create(apiPath string, payload domain.ProductPayload) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := payload.ToProduct()
	product.ID = uuid.NewString()

	if s.catalogs[apiPath] == nil {
		s.catalogs[apiPath] = make(map[string]domain.Product)
	}
	s.catalogs[apiPath][product.ID] = product
	s.order[apiPath] = append(s.order[apiPath], product.ID)

	return product
}

// Update replaces the product with id, keeping its id
func (s *catalogService) Update(apiPath, id string, payload domain.ProductPayload) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogs[apiPath][id]; !ok {
		return domain.Product{}, ErrProductNotFound
	}

	product := payload.ToProduct()
	product.ID = id
	s.catalogs[apiPath][id] = product

	return product, nil
}

// Delete removes the product with id
func (s *catalogService) Delete(apiPath, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogs[apiPath][id]; !ok {
		return ErrProductNotFound
	}

	delete(s.catalogs[apiPath], id)
	order := s.order[apiPath]
	for i, existing := range order {
		if existing == id {
			s.order[apiPath] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

// Seed stores products as given, keeping their ids. Products without an id get one.
func (s *catalogService) Seed(apiPath string, products ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalogs[apiPath] == nil {
		s.catalogs[apiPath] = make(map[string]domain.Product)
	}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, exists := s.catalogs[apiPath][p.ID]; !exists {
			s.order[apiPath] = append(s.order[apiPath], p.ID)
		}
		s.catalogs[apiPath][p.ID] = p
	}
}
