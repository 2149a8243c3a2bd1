package memory

import (
	"fmt"

	"github.com/vsinha/demandplan/pkg/domain/entities"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
)

// ProductRepository provides in-memory product catalog storage
type ProductRepository struct {
	products    []entities.Product
	productsMap map[entities.ProductID]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]entities.Product, 0, expectedProducts),
		productsMap: make(map[entities.ProductID]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository, rejecting duplicate ids
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	for _, p := range products {
		if _, exists := r.productsMap[p.ID]; exists {
			return fmt.Errorf("duplicate product id: %s", p.ID)
		}
		r.productsMap[p.ID] = len(r.products)
		r.products = append(r.products, *p)
	}
	return nil
}

// GetProduct returns the catalog entry for a product id
func (r *ProductRepository) GetProduct(id entities.ProductID) (*entities.Product, error) {
	index, exists := r.productsMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownProduct, id)
	}
	return &r.products[index], nil
}

// GetAllProducts returns all products in load order
func (r *ProductRepository) GetAllProducts() ([]*entities.Product, error) {
	products := make([]*entities.Product, 0, len(r.products))
	for i := range r.products {
		products = append(products, &r.products[i])
	}
	return products, nil
}
