package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
)

// Validate checks every table of a dataset against its invariants and the
// catalogs. Unknown ids are reported with ErrUnknownProduct/ErrUnknownPartner,
// everything else with ErrInvariantViolation.
func Validate(ds *dataset.Dataset, products repositories.ProductRepository, partners repositories.PartnerRepository) error {
	refs := refChecker{products: products, partners: partners}

	for _, a := range ds.Actuals {
		if err := refs.check(a.ProductID, a.PartnerID); err != nil {
			return err
		}
		if err := a.Validate(); err != nil {
			return violation(err)
		}
		if a.InStockRate.Valid && math.IsNaN(a.InStockRate.Float64) {
			return fmt.Errorf("%w: in-stock rate NaN must be stored as undefined", ErrNumericDefect)
		}
	}

	if err := validateForecasts(ds.Forecasts, refs); err != nil {
		return err
	}

	seenOrders := make(map[string]bool, len(ds.Orders))
	for _, o := range ds.Orders {
		if err := refs.check(o.ProductID, o.PartnerID); err != nil {
			return err
		}
		if seenOrders[o.OrderID] {
			return violation(fmt.Errorf("duplicate order id %s", o.OrderID))
		}
		seenOrders[o.OrderID] = true
		if err := o.Validate(); err != nil {
			return violation(err)
		}
	}

	for _, n := range ds.NPI {
		if err := refs.check(n.ProductID, n.PartnerID); err != nil {
			return err
		}
		product, _ := products.GetProduct(n.ProductID)
		if !product.IsNPI {
			return violation(fmt.Errorf("npi row references non-NPI product %s", n.ProductID))
		}
		if err := n.Validate(); err != nil {
			return violation(err)
		}
	}

	seenAlerts := make(map[string]bool, len(ds.Alerts))
	for i, a := range ds.Alerts {
		if err := refs.check(a.ProductID, a.PartnerID); err != nil {
			return err
		}
		if seenAlerts[a.AlertID] {
			return violation(fmt.Errorf("duplicate alert id %s", a.AlertID))
		}
		seenAlerts[a.AlertID] = true
		if err := a.Validate(); err != nil {
			return violation(err)
		}
		if i > 0 && a.Timestamp.After(ds.Alerts[i-1].Timestamp) {
			return violation(fmt.Errorf("alerts not sorted newest first at %s", a.AlertID))
		}
	}
	return nil
}

type forecastKey struct {
	date    time.Time
	product entities.ProductID
	partner entities.PartnerID
}

func validateForecasts(forecasts []entities.Forecast, refs refChecker) error {
	type modelKey struct {
		forecastKey
		model entities.ForecastModel
	}
	seen := make(map[modelKey]bool, len(forecasts))
	mapes := make(map[forecastKey]map[entities.ForecastModel]float64)

	for _, f := range forecasts {
		if err := refs.check(f.ProductID, f.PartnerID); err != nil {
			return err
		}
		if err := f.Validate(); err != nil {
			return violation(err)
		}
		k := forecastKey{f.Date, f.ProductID, f.PartnerID}
		mk := modelKey{k, f.Model}
		if seen[mk] {
			return violation(fmt.Errorf("duplicate forecast %s/%s/%s/%s",
				f.Date.Format(dataset.DateLayout), f.ProductID, f.PartnerID, f.Model))
		}
		seen[mk] = true
		if mapes[k] == nil {
			mapes[k] = make(map[entities.ForecastModel]float64, len(forecastModels))
		}
		mapes[k][f.Model] = f.MAPETrailing
	}

	for k, byModel := range mapes {
		ensemble, ok := byModel[entities.ModelEnsemble]
		if !ok || len(byModel) != len(forecastModels) {
			return violation(fmt.Errorf("forecast %s/%s/%s: expected %d models including Ensemble, got %d",
				k.date.Format(dataset.DateLayout), k.product, k.partner, len(forecastModels), len(byModel)))
		}
		for model, mape := range byModel {
			if model != entities.ModelEnsemble && mape <= ensemble {
				return violation(fmt.Errorf("forecast %s/%s/%s: %s mape %v not above Ensemble %v",
					k.date.Format(dataset.DateLayout), k.product, k.partner, model, mape, ensemble))
			}
		}
	}
	return nil
}

type refChecker struct {
	products repositories.ProductRepository
	partners repositories.PartnerRepository
}

func (r refChecker) check(product entities.ProductID, partner entities.PartnerID) error {
	if _, err := r.products.GetProduct(product); err != nil {
		return unknownProduct(product)
	}
	if _, err := r.partners.GetPartner(partner); err != nil {
		return unknownPartner(partner)
	}
	return nil
}

func violation(err error) error {
	return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
}
