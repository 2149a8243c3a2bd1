package simulation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// RandomAlertCount is the number of templated alerts per run
const RandomAlertCount = 52

type alertTemplate struct {
	alertType entities.AlertType
	severity  entities.Severity
	metric    string
	threshold float64
	// below marks metrics that breach by falling under the threshold
	below     bool
	action    string
	revenueLo float64
	revenueHi float64
}

var alertTemplates = []alertTemplate{
	{entities.AlertLowStock, entities.SeverityCritical, "weeks_of_supply", 2.0, true,
		"Increase allocation by {units} units to {partner}", 200_000, 900_000},
	{entities.AlertLowStock, entities.SeverityWarning, "weeks_of_supply", 3.0, true,
		"Monitor closely - request expedited shipment from supply chain", 50_000, 250_000},
	{entities.AlertExcessInventory, entities.SeverityWarning, "weeks_of_supply", 8.0, false,
		"Reduce next week order by {units} units; consider sell-through promo", 30_000, 150_000},
	{entities.AlertDemandSpike, entities.SeverityInfo, "demand_vs_avg", 1.25, false,
		"Pre-position additional {units} units to capture demand upside", 100_000, 500_000},
	{entities.AlertDemandDrop, entities.SeverityCritical, "demand_vs_avg", 0.70, true,
		"Engage Account Manager - verify with {partner} within 48hrs", 80_000, 400_000},
	{entities.AlertNPIUnderperformance, entities.SeverityWarning, "velocity_vs_plan", 0.80, true,
		"Escalate to RM - review marketing execution with partner", 60_000, 300_000},
	{entities.AlertDeliveryDelay, entities.SeverityCritical, "on_time_delivery", 0.85, true,
		"Escalate to logistics team - re-route {units} units", 100_000, 600_000},
}

var (
	alertStatuses      = []entities.AlertStatus{entities.AlertOpen, entities.AlertInProgress, entities.AlertResolved}
	alertStatusWeights = []float64{0.55, 0.25, 0.20}
)

// AlertGenerator produces the business alert feed
type AlertGenerator struct {
	logger   *zap.Logger
	scenario Scenario
}

// NewAlertGenerator creates an alert generator
func NewAlertGenerator(logger *zap.Logger, scenario Scenario) *AlertGenerator {
	return &AlertGenerator{logger: logger, scenario: scenario}
}

// Generate round-robins RandomAlertCount alerts over the templates, appends
// the scripted headline alerts and sorts newest first. npi is read only to
// quote the lagging launch's latest velocity in its headline alert.
func (g *AlertGenerator) Generate(catalog *Catalog, npi []entities.NPITrackerRow, stream *Stream) ([]entities.Alert, error) {
	productPicks := make([]*entities.Product, RandomAlertCount)
	for i := range productPicks {
		productPicks[i] = catalog.Products[stream.IntBetween(0, len(catalog.Products)-1)]
	}
	partnerPicks := make([]*entities.Partner, RandomAlertCount)
	for i := range partnerPicks {
		partnerPicks[i] = catalog.Partners[stream.IntBetween(0, len(catalog.Partners)-1)]
	}

	alerts := make([]entities.Alert, 0, RandomAlertCount+3)
	for i := 0; i < RandomAlertCount; i++ {
		alert, err := g.templated(alertTemplates[i%len(alertTemplates)], productPicks[i], partnerPicks[i], stream)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	headlines, err := g.headlines(catalog, npi)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, headlines...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})

	critical := 0
	atRisk := decimal.Zero
	for _, a := range alerts {
		if a.Severity == entities.SeverityCritical {
			critical++
		}
		atRisk = atRisk.Add(a.RevenueImpact)
	}
	g.logger.Info("alerts generated",
		zap.Int("alerts", len(alerts)),
		zap.Int("critical", critical),
		zap.Float64("revenue_at_risk_m", round(atRisk.InexactFloat64()/1e6, 1)),
	)
	return alerts, nil
}

func (g *AlertGenerator) templated(
	t alertTemplate,
	product *entities.Product,
	partner *entities.Partner,
	stream *Stream,
) (entities.Alert, error) {
	var value float64
	if t.below {
		value = round(t.threshold*stream.Uniform(0.4, 0.95), 2)
	} else {
		value = round(t.threshold*stream.Uniform(1.1, 1.5), 2)
	}

	units := stream.IntBetween(50, 499)
	action := strings.NewReplacer(
		"{partner}", partner.Name,
		"{units}", strconv.Itoa(units),
	).Replace(t.action)

	impact, err := entities.NewMoney(stream.Uniform(t.revenueLo, t.revenueHi))
	if err != nil {
		return entities.Alert{}, fmt.Errorf("%w: alert revenue impact: %v", ErrNumericDefect, err)
	}
	generated := AlertClock.Add(-time.Duration(stream.IntBetween(1, 95)) * time.Hour)

	id, err := uuid.NewRandomFromReader(stream)
	if err != nil {
		return entities.Alert{}, fmt.Errorf("failed to draw alert id: %w", err)
	}

	return entities.Alert{
		AlertID:           "ALT-" + strings.ToUpper(id.String()[:8]),
		Timestamp:         generated,
		AlertType:         t.alertType,
		Severity:          t.severity,
		ProductID:         product.ID,
		PartnerID:         partner.ID,
		MetricName:        t.metric,
		MetricValue:       value,
		Threshold:         t.threshold,
		RecommendedAction: action,
		RevenueImpact:     impact,
		Status:            alertStatuses[stream.Choice(alertStatusWeights)],
	}, nil
}

// headlines builds the scripted alerts from the shared scenario
func (g *AlertGenerator) headlines(catalog *Catalog, npi []entities.NPITrackerRow) ([]entities.Alert, error) {
	s := g.scenario
	products := productIndex(catalog.Products)

	lagging, err := catalog.PartnerByName(s.LaggingPartner)
	if err != nil {
		return nil, err
	}
	short, err := catalog.PartnerByName(s.ShortPartner)
	if err != nil {
		return nil, err
	}
	gap, err := catalog.PartnerByName(s.GapPartner)
	if err != nil {
		return nil, err
	}

	lookup := func(id entities.ProductID) (*entities.Product, error) {
		p, ok := products[id]
		if !ok {
			return nil, unknownProduct(id)
		}
		return p, nil
	}
	laggingProduct, err := lookup(s.LaggingAlert.Product)
	if err != nil {
		return nil, err
	}
	shortProduct, err := lookup(s.ShortProduct)
	if err != nil {
		return nil, err
	}
	gapProduct, err := lookup(s.GapProduct)
	if err != nil {
		return nil, err
	}

	laggingAlert := s.LaggingAlert
	if v, ok := latestVelocity(npi, laggingProduct.ID, lagging.ID); ok && v < laggingAlert.Threshold {
		laggingAlert.MetricValue = round(v, 2)
	}

	return []entities.Alert{
		headlineAlert(laggingAlert, lagging.ID, s.laggingAction()),
		headlineAlert(s.ShortAlert, short.ID, s.shortAction(shortProduct)),
		headlineAlert(s.GapAlert, gap.ID, s.gapAction(gapProduct)),
	}, nil
}

func headlineAlert(h HeadlineAlert, partner entities.PartnerID, action string) entities.Alert {
	return entities.Alert{
		AlertID:           h.ID,
		Timestamp:         h.Timestamp,
		AlertType:         h.Type,
		Severity:          h.Severity,
		ProductID:         h.Product,
		PartnerID:         partner,
		MetricName:        h.MetricName,
		MetricValue:       h.MetricValue,
		Threshold:         h.Threshold,
		RecommendedAction: action,
		RevenueImpact:     h.RevenueImpact.Round(2),
		Status:            entities.AlertOpen,
	}
}

// latestVelocity returns the velocity of the most recent tracked week for a pair
func latestVelocity(npi []entities.NPITrackerRow, product entities.ProductID, partner entities.PartnerID) (float64, bool) {
	week, velocity := 0, 0.0
	for _, row := range npi {
		if row.ProductID == product && row.PartnerID == partner && row.WeekNumber > week {
			week, velocity = row.WeekNumber, row.VelocityVsPlan
		}
	}
	return velocity, week > 0
}
