package main

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/ivacruce/pkg/csv"
	"github.com/yurifrl/ivacruce/pkg/models"
)

type filters struct {
	comprobante string
	pointOfSale int64
	minTotal    float64
	maxTotal    float64
	razonSocial string
}

func (f *filters) toFilterFunc() csv.FilterFunc {
	if *f == (filters{}) {
		return nil
	}
	return func(r models.Row) bool {
		if f.comprobante != "" && !strings.EqualFold(r.Comprobante, f.comprobante) {
			return false
		}
		if f.pointOfSale != 0 && r.PV != f.pointOfSale {
			return false
		}
		if f.minTotal != 0 && r.Total.LessThan(decimal.NewFromFloat(f.minTotal)) {
			return false
		}
		if f.maxTotal != 0 && r.Total.GreaterThan(decimal.NewFromFloat(f.maxTotal)) {
			return false
		}
		if f.razonSocial != "" && !strings.Contains(strings.ToLower(r.RazonSocial), strings.ToLower(f.razonSocial)) {
			return false
		}
		return true
	}
}
