package analytics

import (
	"sort"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// RiskWindowWeeks is how far back from the latest actuals the matrix looks
const RiskWindowWeeks = 4

// RiskCell places one SKU-partner pair on the likelihood/impact matrix
type RiskCell struct {
	ProductID     entities.ProductID `json:"product_id"`
	PartnerID     entities.PartnerID `json:"partner_id"`
	ProductName   string             `json:"product_name"`
	PartnerName   string             `json:"partner_name"`
	ProductFamily entities.Family    `json:"product_family"`
	Likelihood    float64            `json:"likelihood"`
	RevenueImpact float64            `json:"revenue_impact"`
	Label         string             `json:"label"`
}

type riskAccumulator struct {
	wos, inStock, revenue float64
	rows, inStockRows     int
}

// RiskMatrix scores stock-out risk over the recent window. Likelihood grows
// as weeks of supply fall below six and as in-stock rate falls; impact is four
// weeks of average revenue weighted by likelihood. Pairs with no defined
// in-stock rate in the window are left out.
func RiskMatrix(actuals []entities.DemandActual, products []*entities.Product, partners []*entities.Partner) []RiskCell {
	if len(actuals) == 0 {
		return nil
	}
	cutoff := latestDate(actuals).AddDate(0, 0, -7*RiskWindowWeeks)

	productByID := make(map[entities.ProductID]*entities.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	partnerByID := make(map[entities.PartnerID]*entities.Partner, len(partners))
	for _, p := range partners {
		partnerByID[p.ID] = p
	}

	type pair struct {
		product entities.ProductID
		partner entities.PartnerID
	}
	acc := make(map[pair]*riskAccumulator)
	for _, a := range actuals {
		if a.Date.Before(cutoff) {
			continue
		}
		key := pair{a.ProductID, a.PartnerID}
		r, ok := acc[key]
		if !ok {
			r = &riskAccumulator{}
			acc[key] = r
		}
		r.rows++
		r.wos += a.WeeksOfSupply
		r.revenue += a.Revenue.InexactFloat64()
		if a.InStockRate.Valid {
			r.inStock += a.InStockRate.Float64
			r.inStockRows++
		}
	}

	cells := make([]RiskCell, 0, len(acc))
	for key, r := range acc {
		product, okProduct := productByID[key.product]
		partner, okPartner := partnerByID[key.partner]
		if !okProduct || !okPartner || r.inStockRows == 0 {
			continue
		}
		avgWOS := r.wos / float64(r.rows)
		avgInStock := r.inStock / float64(r.inStockRows)
		avgRevenue := r.revenue / float64(r.rows)

		likelihood := dataset.Round(clamp01(1-avgWOS/6)*0.6+clamp01(1-avgInStock)*0.4, 4)
		cells = append(cells, RiskCell{
			ProductID:     key.product,
			PartnerID:     key.partner,
			ProductName:   product.Name,
			PartnerName:   partner.Name,
			ProductFamily: product.Family,
			Likelihood:    likelihood,
			RevenueImpact: dataset.Round(avgRevenue*4*likelihood, 2),
			Label:         truncate(product.Name, 25) + " / " + truncate(partner.Name, 15),
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].ProductID != cells[j].ProductID {
			return cells[i].ProductID < cells[j].ProductID
		}
		return cells[i].PartnerID < cells[j].PartnerID
	})
	return cells
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
