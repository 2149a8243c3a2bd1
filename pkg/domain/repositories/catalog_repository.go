package repositories

import "github.com/vsinha/demandplan/pkg/domain/entities"

// ProductRepository provides access to the product catalog
type ProductRepository interface {
	GetProduct(id entities.ProductID) (*entities.Product, error)
	GetAllProducts() ([]*entities.Product, error)
	LoadProducts(products []*entities.Product) error
}

// PartnerRepository provides access to the reseller partner catalog
type PartnerRepository interface {
	GetPartner(id entities.PartnerID) (*entities.Partner, error)
	GetAllPartners() ([]*entities.Partner, error)
	LoadPartners(partners []*entities.Partner) error
}
