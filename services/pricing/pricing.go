package pricing

import (
	"errors"
	"fmt"

	"courier-booking/models/shipment"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidWeight  = errors.New("weight must be greater than zero")
	ErrUnknownService = errors.New("unknown service type")
)

// Tariff in rupees. Weight is billed per started half kilogram.
var (
	BaseCharge      = decimal.NewFromInt(20)
	HalfKgRate      = decimal.NewFromInt(45)
	ExpressCharge   = decimal.NewFromInt(50)
	TaxRate         = decimal.RequireFromString("0.18")
	billingUnitSize = decimal.RequireFromString("0.5")
)

// Quote is the priced result of a booking request
type Quote struct {
	WeightUnits int64           `json:"weight_units"`
	NetPrice    decimal.Decimal `json:"net_price"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}

// WeightUnits returns the number of started half-kilogram units, at least one.
func WeightUnits(weightKg float64) (int64, error) {
	if weightKg <= 0 {
		return 0, ErrInvalidWeight
	}
	units := decimal.NewFromFloat(weightKg).Div(billingUnitSize).Ceil().IntPart()
	if units < 1 {
		units = 1
	}
	return units, nil
}

// TaxFor applies the fixed tax rate rounded half-up to paise
func TaxFor(net decimal.Decimal) decimal.Decimal {
	return net.Mul(TaxRate).Round(2)
}

// Calculate prices a package for the given service tier
func Calculate(service shipment.ServiceTier, weightKg float64) (Quote, error) {
	if !service.IsValid() {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	units, err := WeightUnits(weightKg)
	if err != nil {
		return Quote{}, err
	}

	net := BaseCharge.Add(HalfKgRate.Mul(decimal.NewFromInt(units)))
	if service == shipment.ServiceExpress {
		net = net.Add(ExpressCharge)
	}
	net = net.Round(2)
	tax := TaxFor(net)

	return Quote{
		WeightUnits: units,
		NetPrice:    net,
		TaxAmount:   tax,
		Total:       net.Add(tax),
	}, nil
}

// Apply stamps the quote onto a shipment
func Apply(s *shipment.Shipment) error {
	q, err := Calculate(s.ServiceType, s.Package.Weight)
	if err != nil {
		return err
	}
	s.NetPrice = q.NetPrice
	s.TaxAmount = q.TaxAmount
	s.Total = q.Total
	return nil
}
