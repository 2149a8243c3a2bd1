package memory

import (
	"fmt"

	"github.com/vsinha/demandplan/pkg/domain/entities"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
)

// PartnerRepository provides in-memory partner catalog storage
type PartnerRepository struct {
	partners    []entities.Partner
	partnersMap map[entities.PartnerID]int
}

// NewPartnerRepository creates a new in-memory partner repository
func NewPartnerRepository(expectedPartners int) *PartnerRepository {
	return &PartnerRepository{
		partners:    make([]entities.Partner, 0, expectedPartners),
		partnersMap: make(map[entities.PartnerID]int, expectedPartners),
	}
}

var _ repositories.PartnerRepository = (*PartnerRepository)(nil)

// LoadPartners loads partners into the repository, rejecting duplicate ids
func (r *PartnerRepository) LoadPartners(partners []*entities.Partner) error {
	for _, p := range partners {
		if _, exists := r.partnersMap[p.ID]; exists {
			return fmt.Errorf("duplicate partner id: %s", p.ID)
		}
		r.partnersMap[p.ID] = len(r.partners)
		r.partners = append(r.partners, *p)
	}
	return nil
}

// GetPartner returns the catalog entry for a partner id
func (r *PartnerRepository) GetPartner(id entities.PartnerID) (*entities.Partner, error) {
	index, exists := r.partnersMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownPartner, id)
	}
	return &r.partners[index], nil
}

// GetAllPartners returns all partners in load order
func (r *PartnerRepository) GetAllPartners() ([]*entities.Partner, error) {
	partners := make([]*entities.Partner, 0, len(r.partners))
	for i := range r.partners {
		partners = append(partners, &r.partners[i])
	}
	return partners, nil
}
