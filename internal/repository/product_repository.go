package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/domain"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrMissingID = errors.New("product id is required")
)

// ProductRepository defines the interface for product data access.
// Every call carries the session it is made under.
type ProductRepository interface {
	List(ctx context.Context, sess domain.Session) ([]domain.Product, error)
	Create(ctx context.Context, sess domain.Session, payload domain.ProductPayload) error
	Update(ctx context.Context, sess domain.Session, id string, payload domain.ProductPayload) error
	Delete(ctx context.Context, sess domain.Session, id string) error
}

type listResponse struct {
	Products []domain.Product `json:"products"`
}

type productRepository struct {
	client *apiclient.Client
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(client *apiclient.Client) ProductRepository {
	return &productRepository{client: client}
}

// List fetches every product visible to the admin
func (r *productRepository) List(ctx context.Context, sess domain.Session) ([]domain.Product, error) {
	var resp listResponse
	if err := r.client.Do(ctx, fiber.MethodGet, r.client.ProductsURL(), sess.Token, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if resp.Products == nil {
		resp.Products = []domain.Product{}
	}
	return resp.Products, nil
}

// Create submits a new product
func (r *productRepository) Create(ctx context.Context, sess domain.Session, payload domain.ProductPayload) error {
	body := domain.ProductEnvelope{Data: payload}
	if err := r.client.Do(ctx, fiber.MethodPost, r.client.ProductURL(""), sess.Token, body, nil); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the product addressed by id
func (r *productRepository) Update(ctx context.Context, sess domain.Session, id string, payload domain.ProductPayload) error {
	if id == "" {
		return ErrMissingID
	}

	body := domain.ProductEnvelope{Data: payload}
	if err := r.client.Do(ctx, fiber.MethodPut, r.client.ProductURL(id), sess.Token, body, nil); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete removes the product addressed by id
func (r *productRepository) Delete(ctx context.Context, sess domain.Session, id string) error {
	if id == "" {
		return ErrMissingID
	}

	if err := r.client.Do(ctx, fiber.MethodDelete, r.client.ProductURL(id), sess.Token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
