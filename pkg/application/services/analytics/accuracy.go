// Package analytics computes the planning KPIs shown on top of a generated
// run: forecast accuracy, order book health, launch tracking, partner
// snapshots and the inventory risk matrix.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// AccuracyReport compares one forecast model against realised sales
type AccuracyReport struct {
	Model    entities.ForecastModel `json:"model"`
	Matched  int                    `json:"matched"`
	MAPE     float64                `json:"mape"`
	WMAPE    float64                `json:"wmape"`
	Bias     float64                `json:"bias"`
	Accuracy float64                `json:"accuracy"`
}

type actualKey struct {
	date      time.Time
	productID entities.ProductID
	partnerID entities.PartnerID
}

// ForecastAccuracy matches forecasts of one model to actuals on date, product
// and partner. Percentages are on a 0-100 scale; with no matches every figure
// is zero.
func ForecastAccuracy(actuals []entities.DemandActual, forecasts []entities.Forecast, model entities.ForecastModel) AccuracyReport {
	report := AccuracyReport{Model: model}

	sold := make(map[actualKey][]entities.Quantity, len(actuals))
	for _, a := range actuals {
		key := actualKey{a.Date, a.ProductID, a.PartnerID}
		sold[key] = append(sold[key], a.UnitsSold)
	}

	var (
		sumAbs, sumErr, sumSold float64
		sumPct                  float64
		pctRows                 int
	)
	for _, f := range forecasts {
		if f.Model != model {
			continue
		}
		for _, units := range sold[actualKey{f.Date, f.ProductID, f.PartnerID}] {
			actual := float64(units)
			diff := float64(f.Units) - actual
			report.Matched++
			sumErr += diff
			sumAbs += math.Abs(diff)
			sumSold += actual
			if actual > 0 {
				sumPct += math.Abs(diff) / actual
				pctRows++
			}
		}
	}
	if report.Matched == 0 {
		return report
	}

	if pctRows > 0 {
		report.MAPE = dataset.Round(sumPct/float64(pctRows)*100, 2)
	}
	if sumSold > 0 {
		wmape := sumAbs / sumSold * 100
		report.WMAPE = dataset.Round(wmape, 2)
		report.Bias = dataset.Round(sumErr/sumSold*100, 2)
		report.Accuracy = dataset.Round(100-wmape, 1)
	}
	return report
}

// ModelScore is the mean trailing MAPE a model reports across its forecasts
type ModelScore struct {
	Model    entities.ForecastModel `json:"model"`
	MeanMAPE float64                `json:"mean_mape"`
	Rows     int                    `json:"rows"`
}

// ModelLeaderboard ranks forecast models by mean trailing MAPE, best first
func ModelLeaderboard(forecasts []entities.Forecast) []ModelScore {
	sums := make(map[entities.ForecastModel]float64)
	counts := make(map[entities.ForecastModel]int)
	for _, f := range forecasts {
		sums[f.Model] += f.MAPETrailing
		counts[f.Model]++
	}

	scores := make([]ModelScore, 0, len(counts))
	for model, n := range counts {
		scores = append(scores, ModelScore{
			Model:    model,
			MeanMAPE: dataset.Round(sums[model]/float64(n), 4),
			Rows:     n,
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].MeanMAPE != scores[j].MeanMAPE {
			return scores[i].MeanMAPE < scores[j].MeanMAPE
		}
		return scores[i].Model < scores[j].Model
	})
	return scores
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
