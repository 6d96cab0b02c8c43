package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yurifrl/ivacruce/pkg/models"
)

func TestFilters(t *testing.T) {
	row := models.Row{Comprobante: "NC", PV: 2, RazonSocial: "Peña y Cía", Total: decimal.RequireFromString("-121")}

	assert.Nil(t, (&filters{}).toFilterFunc())

	tests := []struct {
		name string
		f    filters
		want bool
	}{
		{"comprobante", filters{comprobante: "nc"}, true},
		{"other comprobante", filters{comprobante: "FC"}, false},
		{"point of sale", filters{pointOfSale: 3}, false},
		{"min", filters{minTotal: -100}, false},
		{"max", filters{maxTotal: -100}, true},
		{"razon", filters{razonSocial: "PEÑA"}, true},
		{"combined", filters{comprobante: "NC", razonSocial: "acme"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.toFilterFunc()(row))
		})
	}
}
