package entities

import (
	"fmt"
	"time"
)

// ForecastModel tags which synthetic model produced a forecast row
type ForecastModel string

const (
	ModelARIMA    ForecastModel = "ARIMA"
	ModelProphet  ForecastModel = "Prophet"
	ModelRF       ForecastModel = "RF"
	ModelEnsemble ForecastModel = "Ensemble"
)

// DefaultModel is the model every summary reads
const DefaultModel = ModelEnsemble

// Forecast is one model's projection for a SKU at a partner in a future week
type Forecast struct {
	Date         time.Time     `db:"date" json:"date"`
	ProductID    ProductID     `db:"product_id" json:"product_id"`
	PartnerID    PartnerID     `db:"partner_id" json:"partner_id"`
	Model        ForecastModel `db:"forecast_model" json:"forecast_model"`
	Units        Quantity      `db:"forecast_units" json:"forecast_units"`
	Lower        Quantity      `db:"forecast_lower" json:"forecast_lower"`
	Upper        Quantity      `db:"forecast_upper" json:"forecast_upper"`
	MAPETrailing float64       `db:"forecast_accuracy_mape" json:"forecast_accuracy_mape"`
}

// Validate checks the interval ordering
func (f Forecast) Validate() error {
	if f.Lower < 0 || f.Lower > f.Units || f.Units > f.Upper {
		return fmt.Errorf("forecast %s/%s/%s/%s: expected 0 <= lower <= units <= upper, got %d/%d/%d",
			f.Date.Format("2006-01-02"), f.ProductID, f.PartnerID, f.Model, f.Lower, f.Units, f.Upper)
	}
	if f.MAPETrailing < 0 {
		return fmt.Errorf("forecast %s/%s/%s/%s: negative trailing mape %v",
			f.Date.Format("2006-01-02"), f.ProductID, f.PartnerID, f.Model, f.MAPETrailing)
	}
	return nil
}
