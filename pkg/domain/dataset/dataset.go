// Package dataset holds the output of one generation run and describes its
// tables in a sink-neutral form.
package dataset

import (
	"time"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// Dataset is the complete, immutable output of one generation run
type Dataset struct {
	RunID string
	Seed  int64
	Today time.Time

	Products  []*entities.Product
	Partners  []*entities.Partner
	Actuals   []entities.DemandActual
	Forecasts []entities.Forecast
	Orders    []entities.Order
	NPI       []entities.NPITrackerRow
	Alerts    []entities.Alert

	DemandFeatures  []entities.DemandFeature
	ForecastResults []entities.Forecast
	AlertSummary    []entities.AlertRollup
}

// RowCounts returns the row count of every table keyed by table name
func (ds *Dataset) RowCounts() map[string]int {
	return map[string]int{
		TableProducts:        len(ds.Products),
		TablePartners:        len(ds.Partners),
		TableDemandActuals:   len(ds.Actuals),
		TableForecasts:       len(ds.Forecasts),
		TableOrderBook:       len(ds.Orders),
		TableNPITracker:      len(ds.NPI),
		TableAlerts:          len(ds.Alerts),
		TableDemandFeatures:  len(ds.DemandFeatures),
		TableForecastResults: len(ds.ForecastResults),
		TableAlertSummary:    len(ds.AlertSummary),
	}
}

// ProductIndex maps product ids to catalog entries
func (ds *Dataset) ProductIndex() map[entities.ProductID]*entities.Product {
	index := make(map[entities.ProductID]*entities.Product, len(ds.Products))
	for _, p := range ds.Products {
		index[p.ID] = p
	}
	return index
}

// PartnerIndex maps partner ids to catalog entries
func (ds *Dataset) PartnerIndex() map[entities.PartnerID]*entities.Partner {
	index := make(map[entities.PartnerID]*entities.Partner, len(ds.Partners))
	for _, p := range ds.Partners {
		index[p.ID] = p
	}
	return index
}
