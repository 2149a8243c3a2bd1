package analytics

import (
	"sort"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// LaunchKPIs summarises launch tracking across all NPI products
type LaunchKPIs struct {
	Rows            int     `json:"rows"`
	OverallVelocity float64 `json:"overall_velocity"`
	RedFlags        int     `json:"red_flags"`
	AmberFlags      int     `json:"amber_flags"`
	GreenFlags      int     `json:"green_flags"`
}

// NPILaunchKPIs averages velocity-to-plan (as a percentage) over tracker rows
// of products flagged as NPI and counts the risk flags
func NPILaunchKPIs(npi []entities.NPITrackerRow, products []*entities.Product) LaunchKPIs {
	isNPI := make(map[entities.ProductID]bool, len(products))
	for _, p := range products {
		isNPI[p.ID] = p.IsNPI
	}

	var kpis LaunchKPIs
	var velocity float64
	for _, row := range npi {
		if !isNPI[row.ProductID] {
			continue
		}
		kpis.Rows++
		velocity += row.VelocityVsPlan
		switch row.RiskFlag {
		case entities.RiskRed:
			kpis.RedFlags++
		case entities.RiskAmber:
			kpis.AmberFlags++
		case entities.RiskGreen:
			kpis.GreenFlags++
		}
	}
	kpis.OverallVelocity = dataset.Round(ratio(velocity, float64(kpis.Rows))*100, 1)
	return kpis
}

// ScorecardRow is the latest launch week of one partner for one product
type ScorecardRow struct {
	PartnerName    string               `json:"partner_name"`
	PartnerTier    entities.PartnerTier `json:"partner_tier"`
	Country        string               `json:"country"`
	WeekNumber     int                  `json:"week_number"`
	PlannedUnits   entities.Quantity    `json:"units_planned"`
	ActualUnits    entities.Quantity    `json:"units_actual"`
	VelocityPct    float64              `json:"velocity_pct"`
	SellThroughPct float64              `json:"sell_through_pct"`
	RiskFlag       entities.RiskFlag    `json:"risk_flag"`
	RiskReason     string               `json:"risk_reason,omitempty"`
}

// PartnerNPIScorecard keeps the latest tracked week of productID per partner,
// fastest partners first
func PartnerNPIScorecard(npi []entities.NPITrackerRow, partners []*entities.Partner, productID entities.ProductID) []ScorecardRow {
	partnerByID := make(map[entities.PartnerID]*entities.Partner, len(partners))
	for _, p := range partners {
		partnerByID[p.ID] = p
	}

	latest := make(map[entities.PartnerID]entities.NPITrackerRow)
	var order []entities.PartnerID
	for _, row := range npi {
		if row.ProductID != productID {
			continue
		}
		current, seen := latest[row.PartnerID]
		if !seen {
			order = append(order, row.PartnerID)
		}
		if !seen || row.WeekNumber > current.WeekNumber {
			latest[row.PartnerID] = row
		}
	}

	scorecard := make([]ScorecardRow, 0, len(order))
	for _, id := range order {
		row := latest[id]
		entry := ScorecardRow{
			WeekNumber:     row.WeekNumber,
			PlannedUnits:   row.PlannedUnits,
			ActualUnits:    row.ActualUnits,
			VelocityPct:    dataset.Round(row.VelocityVsPlan*100, 1),
			SellThroughPct: dataset.Round(row.SellThroughRate*100, 1),
			RiskFlag:       row.RiskFlag,
			RiskReason:     row.RiskReason.String,
		}
		if p, ok := partnerByID[id]; ok {
			entry.PartnerName, entry.PartnerTier, entry.Country = p.Name, p.Tier, p.Country
		}
		scorecard = append(scorecard, entry)
	}

	sort.SliceStable(scorecard, func(i, j int) bool {
		return scorecard[i].VelocityPct > scorecard[j].VelocityPct
	})
	return scorecard
}

// WaterfallStep is one partner's contribution to the gap between launch plan
// and actual sell-through
type WaterfallStep struct {
	PartnerName string `json:"partner_name"`
	Plan        int64  `json:"plan"`
	Actual      int64  `json:"actual"`
	Variance    int64  `json:"variance"`
}

// NPIWaterfall totals planned and actual units of productID per partner,
// largest shortfall first. Rows for partners outside the catalog are ignored.
func NPIWaterfall(npi []entities.NPITrackerRow, partners []*entities.Partner, productID entities.ProductID) []WaterfallStep {
	nameOf := make(map[entities.PartnerID]string, len(partners))
	for _, p := range partners {
		nameOf[p.ID] = p.Name
	}

	totals := make(map[string]*WaterfallStep)
	for _, row := range npi {
		if row.ProductID != productID {
			continue
		}
		name, ok := nameOf[row.PartnerID]
		if !ok {
			continue
		}
		step, ok := totals[name]
		if !ok {
			step = &WaterfallStep{PartnerName: name}
			totals[name] = step
		}
		step.Plan += int64(row.PlannedUnits)
		step.Actual += int64(row.ActualUnits)
	}

	steps := make([]WaterfallStep, 0, len(totals))
	for _, step := range totals {
		step.Variance = step.Actual - step.Plan
		steps = append(steps, *step)
	}
	sort.Slice(steps, func(i, j int) bool {
		if steps[i].Variance != steps[j].Variance {
			return steps[i].Variance < steps[j].Variance
		}
		return steps[i].PartnerName < steps[j].PartnerName
	})
	return steps
}
