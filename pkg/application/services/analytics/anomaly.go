package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// Anomaly detection defaults
const (
	DefaultZThreshold    = 2.5
	DefaultIQRMultiplier = 1.5

	AnomalySpike = "spike"
	AnomalyDrop  = "drop"

	anomalyWindow     = 8
	anomalyMinPeriods = 4
	anomalyRecent     = 4
)

// DemandAnomaly is one recent week whose sell-out broke from its history
type DemandAnomaly struct {
	Date          time.Time          `json:"date"`
	ProductID     entities.ProductID `json:"product_id"`
	PartnerID     entities.PartnerID `json:"partner_id"`
	ProductName   string             `json:"product_name"`
	PartnerName   string             `json:"partner_name"`
	ProductFamily entities.Family    `json:"product_family"`
	UnitsActual   entities.Quantity  `json:"units_actual"`
	UnitsExpected float64            `json:"units_expected"`
	PctChange     float64            `json:"pct_change"`
	AnomalyType   string             `json:"anomaly_type"`
	ZScore        float64            `json:"z_score"`
	Narrative     string             `json:"narrative"`
}

// DemandAnomalies checks the last four weeks of every SKU-partner series with
// at least eight weeks of history. A week is flagged when its units sold sit
// more than zThreshold standard deviations from the trailing eight-week mean,
// or outside the series' interquartile fence widened by iqrMultiplier. The
// result is newest first.
func DemandAnomalies(actuals []entities.DemandActual, products []*entities.Product, partners []*entities.Partner, zThreshold, iqrMultiplier float64) []DemandAnomaly {
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
	series := make(map[pair][]entities.DemandActual)
	var keys []pair
	for _, a := range actuals {
		key := pair{a.ProductID, a.PartnerID}
		if _, ok := series[key]; !ok {
			keys = append(keys, key)
		}
		series[key] = append(series[key], a)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].product != keys[j].product {
			return keys[i].product < keys[j].product
		}
		return keys[i].partner < keys[j].partner
	})

	var anomalies []DemandAnomaly
	for _, key := range keys {
		rows := series[key]
		if len(rows) < anomalyWindow {
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

		units := make([]float64, len(rows))
		for i, r := range rows {
			units[i] = float64(r.UnitsSold)
		}
		q1, q3 := quantile(units, 0.25), quantile(units, 0.75)
		iqr := q3 - q1
		lower, upper := q1-iqrMultiplier*iqr, q3+iqrMultiplier*iqr

		productName, partnerName := string(key.product), string(key.partner)
		var family entities.Family
		if p, ok := productByID[key.product]; ok {
			productName, family = p.Name, p.Family
		}
		if p, ok := partnerByID[key.partner]; ok {
			partnerName = p.Name
		}

		for i := len(rows) - anomalyRecent; i < len(rows); i++ {
			mean, std, ok := trailingStats(units, i)
			if !ok {
				continue
			}
			x := units[i]
			z := 0.0
			if std > 0 {
				z = (x - mean) / std
			}
			if math.Abs(z) <= zThreshold && x >= lower && x <= upper {
				continue
			}

			direction := AnomalyDrop
			if x > mean {
				direction = AnomalySpike
			}
			pct := (x - mean) / math.Max(1, mean) * 100
			anomalies = append(anomalies, DemandAnomaly{
				Date:          rows[i].Date,
				ProductID:     key.product,
				PartnerID:     key.partner,
				ProductName:   productName,
				PartnerName:   partnerName,
				ProductFamily: family,
				UnitsActual:   rows[i].UnitsSold,
				UnitsExpected: math.RoundToEven(mean),
				PctChange:     dataset.Round(pct, 1),
				AnomalyType:   direction,
				ZScore:        dataset.Round(z, 2),
				Narrative:     anomalyNarrative(direction, productName, partnerName, pct),
			})
		}
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Date.After(anomalies[j].Date)
	})
	return anomalies
}

func anomalyNarrative(direction, product, partner string, pct float64) string {
	if direction == AnomalySpike {
		return fmt.Sprintf("↑ Demand spike: %s at %s exceeded 8-week average by %.0f%%. Recommend: verify with Account Manager within 48 hours.",
			product, partner, math.Abs(pct))
	}
	return fmt.Sprintf("↓ Demand drop: %s at %s fell 8-week average by %.0f%%. Recommend: verify with Account Manager within 48 hours.",
		product, partner, math.Abs(pct))
}

// trailingStats returns the mean and sample standard deviation of up to eight
// values before index i, requiring at least four
func trailingStats(values []float64, i int) (mean, std float64, ok bool) {
	start := i - anomalyWindow
	if start < 0 {
		start = 0
	}
	window := values[start:i]
	if len(window) < anomalyMinPeriods {
		return 0, 0, false
	}
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	var ss float64
	for _, v := range window {
		ss += (v - mean) * (v - mean)
	}
	std = math.Sqrt(ss / float64(len(window)-1))
	return mean, std, true
}

// quantile interpolates linearly between the closest ranks
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
