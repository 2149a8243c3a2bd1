package simulation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

type productSpec struct {
	id        string
	name      string
	family    entities.Family
	category  string
	launch    time.Time
	asp       int64
	lifecycle entities.LifecycleStage
	priority  entities.PriorityTier
}

type partnerSpec struct {
	name     string
	country  string
	region   string
	tier     entities.PartnerTier
	revenueM float64
	stores   int
	digital  int
}

var productSpecs = []productSpec{
	// iPhone 16 series
	{"IPHONE-16-PRO-MAX-256", "iPhone 16 Pro Max 256GB", entities.FamilyPhone, "iPhone Pro Max", date(2025, 9, 1), 1299, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-PRO-MAX-512", "iPhone 16 Pro Max 512GB", entities.FamilyPhone, "iPhone Pro Max", date(2025, 9, 1), 1499, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-PRO-MAX-1TB", "iPhone 16 Pro Max 1TB", entities.FamilyPhone, "iPhone Pro Max", date(2025, 9, 1), 1749, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-PRO-128", "iPhone 16 Pro 128GB", entities.FamilyPhone, "iPhone Pro", date(2025, 9, 1), 1099, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-PRO-256", "iPhone 16 Pro 256GB", entities.FamilyPhone, "iPhone Pro", date(2025, 9, 1), 1199, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-PRO-512", "iPhone 16 Pro 512GB", entities.FamilyPhone, "iPhone Pro", date(2025, 9, 1), 1399, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-128", "iPhone 16 128GB", entities.FamilyPhone, "iPhone", date(2025, 9, 1), 929, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-256", "iPhone 16 256GB", entities.FamilyPhone, "iPhone", date(2025, 9, 1), 1029, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-PLUS-128", "iPhone 16 Plus 128GB", entities.FamilyPhone, "iPhone Plus", date(2025, 9, 1), 1079, entities.StageLaunch, entities.Tier1},
	{"IPHONE-16-PLUS-256", "iPhone 16 Plus 256GB", entities.FamilyPhone, "iPhone Plus", date(2025, 9, 1), 1179, entities.StageLaunch, entities.Tier1},
	// iPhone 15 series
	{"IPHONE-15-PRO-128", "iPhone 15 Pro 128GB", entities.FamilyPhone, "iPhone Pro", date(2024, 9, 15), 849, entities.StageMaturity, entities.Tier1},
	{"IPHONE-15-PRO-256", "iPhone 15 Pro 256GB", entities.FamilyPhone, "iPhone Pro", date(2024, 9, 15), 949, entities.StageMaturity, entities.Tier1},
	{"IPHONE-15-128", "iPhone 15 128GB", entities.FamilyPhone, "iPhone", date(2024, 9, 15), 729, entities.StageDecline, entities.Tier1},
	{"IPHONE-15-256", "iPhone 15 256GB", entities.FamilyPhone, "iPhone", date(2024, 9, 15), 829, entities.StageDecline, entities.Tier1},
	// iPad
	{"IPAD-AIR-M3-11-128", `iPad Air 11" M3 128GB WiFi`, entities.FamilyTablet, "iPad Air", date(2025, 3, 1), 699, entities.StageGrowth, entities.Tier2},
	{"IPAD-AIR-M3-13-256", `iPad Air 13" M3 256GB WiFi`, entities.FamilyTablet, "iPad Air", date(2025, 3, 1), 999, entities.StageGrowth, entities.Tier2},
	{"IPAD-PRO-M4-11-256", `iPad Pro 11" M4 256GB WiFi`, entities.FamilyTablet, "iPad Pro", date(2024, 5, 15), 1099, entities.StageMaturity, entities.Tier2},
	{"IPAD-PRO-M4-13-256", `iPad Pro 13" M4 256GB WiFi`, entities.FamilyTablet, "iPad Pro", date(2024, 5, 15), 1399, entities.StageMaturity, entities.Tier2},
	{"IPAD-10-64", "iPad 10th Gen 64GB WiFi", entities.FamilyTablet, "iPad", date(2023, 10, 1), 449, entities.StageDecline, entities.Tier2},
	{"IPAD-MINI-7-128", "iPad mini 7 128GB WiFi", entities.FamilyTablet, "iPad mini", date(2024, 10, 1), 599, entities.StageMaturity, entities.Tier2},
	// Mac
	{"MBP-14-M4-16GB", `MacBook Pro 14" M4 16GB`, entities.FamilyComputer, "MacBook Pro", date(2024, 11, 1), 2399, entities.StageGrowth, entities.Tier2},
	{"MBP-14-M4PRO-24GB", `MacBook Pro 14" M4 Pro 24GB`, entities.FamilyComputer, "MacBook Pro", date(2024, 11, 1), 2999, entities.StageGrowth, entities.Tier2},
	{"MBP-16-M4PRO-24GB", `MacBook Pro 16" M4 Pro 24GB`, entities.FamilyComputer, "MacBook Pro", date(2024, 11, 1), 3499, entities.StageGrowth, entities.Tier2},
	{"MBA-M3-8GB-256", `MacBook Air 13" M3 8GB`, entities.FamilyComputer, "MacBook Air", date(2024, 3, 1), 1299, entities.StageMaturity, entities.Tier2},
	{"MBA-M3-16GB-512", `MacBook Air 13" M3 16GB`, entities.FamilyComputer, "MacBook Air", date(2024, 3, 1), 1699, entities.StageMaturity, entities.Tier2},
	// Watch
	{"AW-ULTRA-2-49", "Apple Watch Ultra 2 49mm", entities.FamilyWearable, "Watch Ultra", date(2024, 9, 15), 899, entities.StageMaturity, entities.Tier2},
	{"AW-S10-42-AL", "Apple Watch Series 10 42mm Aluminium", entities.FamilyWearable, "Watch Series", date(2024, 9, 15), 449, entities.StageMaturity, entities.Tier2},
	{"AW-S10-46-AL", "Apple Watch Series 10 46mm Aluminium", entities.FamilyWearable, "Watch Series", date(2024, 9, 15), 479, entities.StageMaturity, entities.Tier2},
	{"AW-SE-40-AL", "Apple Watch SE 40mm Aluminium", entities.FamilyWearable, "Watch SE", date(2024, 9, 15), 279, entities.StageMaturity, entities.Tier2},
	{"AW-SE-44-AL", "Apple Watch SE 44mm Aluminium", entities.FamilyWearable, "Watch SE", date(2024, 9, 15), 299, entities.StageMaturity, entities.Tier2},
	// AirPods
	{"AIRPODS-4-ANC", "AirPods 4 with ANC", entities.FamilyAudio, "AirPods", date(2024, 9, 15), 179, entities.StageGrowth, entities.Tier2},
	{"AIRPODS-4", "AirPods 4", entities.FamilyAudio, "AirPods", date(2024, 9, 15), 149, entities.StageGrowth, entities.Tier2},
	{"AIRPODS-PRO-2", "AirPods Pro 2nd Gen", entities.FamilyAudio, "AirPods Pro", date(2023, 9, 15), 279, entities.StageMaturity, entities.Tier2},
	{"AIRPODS-MAX-USB-C", "AirPods Max USB-C", entities.FamilyAudio, "AirPods Max", date(2024, 9, 15), 549, entities.StageGrowth, entities.Tier2},
	// Accessories
	{"ACC-MCASE-16PRO-CLEAR", "iPhone 16 Pro Clear Case", entities.FamilyAccessory, "Cases", date(2025, 9, 1), 59, entities.StageLaunch, entities.Tier3},
	{"ACC-MCASE-16-SILICON", "iPhone 16 Silicone Case", entities.FamilyAccessory, "Cases", date(2025, 9, 1), 59, entities.StageLaunch, entities.Tier3},
	{"ACC-MCASE-16PRO-FINE", "iPhone 16 Pro FineWoven Case", entities.FamilyAccessory, "Cases", date(2025, 9, 1), 79, entities.StageLaunch, entities.Tier3},
	{"ACC-MSTAND", "MagSafe Duo Charger", entities.FamilyAccessory, "Chargers", date(2021, 11, 1), 149, entities.StageMaturity, entities.Tier3},
	{"ACC-APPLECARE-IPHONE", "AppleCare+ for iPhone 16", entities.FamilyAccessory, "AppleCare", date(2025, 9, 1), 199, entities.StageLaunch, entities.Tier3},
	{"ACC-LIGHTNING-USBC", "USB-C to MagSafe 3 Cable", entities.FamilyAccessory, "Cables", date(2023, 6, 1), 49, entities.StageMaturity, entities.Tier3},
}

// Partner ids are assigned PARTNER-001.. in this order
var partnerSpecs = []partnerSpec{
	{"MediaMarkt DE", "DE", "DACH", entities.Platinum, 28.5, 417, 9},
	{"Currys UK", "GB", "UK&I", entities.Platinum, 22.1, 305, 8},
	{"Fnac FR", "FR", "France", entities.Gold, 11.4, 102, 7},
	{"Euronics IT", "IT", "South EU", entities.Gold, 8.9, 258, 6},
	{"El Corte Inglés ES", "ES", "South EU", entities.Gold, 7.2, 88, 6},
	{"Elkjøp NO", "NO", "Nordic", entities.Gold, 6.8, 197, 7},
	{"Saturn DE", "DE", "DACH", entities.Gold, 10.3, 158, 8},
	{"Coolblue NL", "NL", "Benelux", entities.Gold, 5.5, 24, 10},
	{"Expert SE", "SE", "Nordic", entities.Silver, 3.1, 152, 6},
	{"Darty FR", "FR", "France", entities.Silver, 3.8, 213, 5},
	{"Power DK", "DK", "Nordic", entities.Silver, 2.4, 54, 6},
	{"Komplett NO", "NO", "Nordic", entities.Silver, 1.8, 0, 10},
	{"Harvey Norman IE", "IE", "UK&I", entities.Silver, 1.4, 33, 5},
}

// Catalog is the static product and partner master data of a run
type Catalog struct {
	Products []*entities.Product
	Partners []*entities.Partner
	// PartnerWeights holds each partner's revenue share, aligned with Partners
	PartnerWeights []float64
}

// BuildCatalog returns the fixed product and partner catalogs
func BuildCatalog(today time.Time) (*Catalog, error) {
	products := make([]*entities.Product, 0, len(productSpecs))
	seen := make(map[entities.ProductID]bool, len(productSpecs))
	for _, s := range productSpecs {
		p, err := entities.NewProduct(
			entities.ProductID(s.id),
			s.name,
			s.family,
			s.category,
			s.launch,
			decimal.NewFromInt(s.asp),
			s.lifecycle,
			s.priority,
			today,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create product %s: %w", s.id, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id: %s", p.ID)
		}
		seen[p.ID] = true
		products = append(products, p)
	}

	partners := make([]*entities.Partner, 0, len(partnerSpecs))
	revenue := make([]float64, 0, len(partnerSpecs))
	for i, s := range partnerSpecs {
		p, err := entities.NewPartner(
			entities.PartnerID(fmt.Sprintf("PARTNER-%03d", i+1)),
			s.name,
			s.country,
			s.region,
			s.tier,
			decimal.NewFromFloat(s.revenueM).Mul(decimal.NewFromInt(1_000_000)),
			s.stores,
			s.digital,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create partner %s: %w", s.name, err)
		}
		partners = append(partners, p)
		revenue = append(revenue, p.AvgMonthlyRevenue.InexactFloat64())
	}

	return &Catalog{
		Products:       products,
		Partners:       partners,
		PartnerWeights: normalize(revenue),
	}, nil
}

// PartnerByName returns the partner with the given display name
func (c *Catalog) PartnerByName(name string) (*entities.Partner, error) {
	for _, p := range c.Partners {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", entities.ErrUnknownPartner, name)
}

// NPIProducts returns the products flagged as new introductions, in catalog order
func (c *Catalog) NPIProducts() []*entities.Product {
	var npi []*entities.Product
	for _, p := range c.Products {
		if p.IsNPI {
			npi = append(npi, p)
		}
	}
	return npi
}

func normalize(values []float64) []float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = safeRatio(v, total)
	}
	return out
}

func unknownProduct(id entities.ProductID) error {
	return fmt.Errorf("%w: %s", entities.ErrUnknownProduct, id)
}

func unknownPartner(id entities.PartnerID) error {
	return fmt.Errorf("%w: %s", entities.ErrUnknownPartner, id)
}
