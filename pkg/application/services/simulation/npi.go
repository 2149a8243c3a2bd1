package simulation

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

var npiTierWeight = map[entities.PartnerTier]float64{
	entities.Platinum: 1.0,
	entities.Gold:     0.55,
	entities.Silver:   0.25,
}

const (
	silverNPISkip    = 0.3
	genericRedReason = "Significantly below plan - escalate to Account Manager"
)

// NPITrackerGenerator produces weekly launch-velocity rows for new products
type NPITrackerGenerator struct {
	logger   *zap.Logger
	scenario Scenario
}

// NewNPITrackerGenerator creates an NPI tracker generator
func NewNPITrackerGenerator(logger *zap.Logger, scenario Scenario) *NPITrackerGenerator {
	return &NPITrackerGenerator{logger: logger, scenario: scenario}
}

// Generate produces one row per week since launch, capped at NPIMaxWeeks,
// for every NPI product at every partner carrying it
func (g *NPITrackerGenerator) Generate(catalog *Catalog, stream *Stream) ([]entities.NPITrackerRow, error) {
	npiProducts := catalog.NPIProducts()
	var rows []entities.NPITrackerRow
	red := 0

	for _, product := range npiProducts {
		for _, partner := range catalog.Partners {
			if partner.Tier == entities.Silver && stream.Chance(silverNPISkip) {
				continue
			}
			weeksLive := entities.DaysBetween(product.LaunchDate, Today) / 7
			if weeksLive > entities.NPIMaxWeeks {
				weeksLive = entities.NPIMaxWeeks
			}
			if weeksLive <= 0 {
				continue
			}

			basePlan := basePlanUnits(npiTierWeight[partner.Tier], product.ASPFloat())
			for week := 1; week <= weeksLive; week++ {
				planned := int64(float64(basePlan) * math.Max(0.3, 1-0.07*float64(week-1)))
				noise := stream.Normal(0, 0.08)
				row, err := g.trackWeek(week, product, partner, planned, noise)
				if err != nil {
					return nil, err
				}
				if row.RiskFlag == entities.RiskRed {
					red++
				}
				rows = append(rows, row)
			}
		}
	}

	g.logger.Info("npi tracker generated",
		zap.Int("rows", len(rows)),
		zap.Int("npi_products", len(npiProducts)),
		zap.Int("red_rows", red),
	)
	return rows, nil
}

// basePlanUnits allocates more launch units to bigger partners and cheaper products
func basePlanUnits(tierWeight, asp float64) int64 {
	plan := int64(400 * tierWeight / (1 + 0.1*asp/500))
	if plan < 10 {
		plan = 10
	}
	return plan
}

// launchVelocity is the velocity factor for a launch week before clipping.
// It decays slowly after launch and carries the scripted partner effects.
func (g *NPITrackerGenerator) launchVelocity(week int, partnerName string, product entities.ProductID, noise float64) float64 {
	v := math.Max(0.4, 1-0.05*float64(week-1)) + noise
	return clip(v*g.scenario.VelocityFactor(partnerName, product), 0.2, 1.4)
}

func (g *NPITrackerGenerator) trackWeek(
	week int,
	product *entities.Product,
	partner *entities.Partner,
	planned int64,
	noise float64,
) (entities.NPITrackerRow, error) {
	velocity := g.launchVelocity(week, partner.Name, product.ID, noise)
	if math.IsNaN(velocity) {
		return entities.NPITrackerRow{}, fmt.Errorf("%w: launch velocity for %s at %s", ErrNumericDefect, product.ID, partner.ID)
	}
	actual := roundHalfEven(float64(planned) * velocity)
	ratio := round(safeRatio(float64(actual), math.Max(1, float64(planned))), 4)
	flag := entities.ClassifyVelocity(ratio)

	return entities.NPITrackerRow{
		WeekNumber:      week,
		ProductID:       product.ID,
		PartnerID:       partner.ID,
		PlannedUnits:    entities.Quantity(planned),
		ActualUnits:     entities.Quantity(actual),
		VelocityVsPlan:  ratio,
		SellThroughRate: round(clip(velocity*0.92, 0.15, 0.99), 4),
		RiskFlag:        flag,
		RiskReason:      entities.NullText(g.riskReason(flag, ratio, partner.Name, product.ID)),
	}, nil
}

func (g *NPITrackerGenerator) riskReason(flag entities.RiskFlag, ratio float64, partnerName string, product entities.ProductID) string {
	switch flag {
	case entities.RiskAmber:
		return fmt.Sprintf("Tracking %d%% below launch plan - monitor closely", int(math.RoundToEven((1-ratio)*100)))
	case entities.RiskRed:
		if g.scenario.isLagging(partnerName, product) {
			return g.scenario.LaggingReason
		}
		return genericRedReason
	}
	return ""
}
