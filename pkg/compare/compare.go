package compare

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	PointOfSaleWidth   = 5
	InvoiceNumberWidth = 8
)

// NormalizeNumber truncates val to an integer and zero-pads it to width.
// Values such as "2", "00002" and "2.0" all normalize to "00002"; blank or
// non-numeric values become width zeros.
func NormalizeNumber(val string, width int) string {
	s := strings.TrimSpace(val)
	if s == "" {
		return strings.Repeat("0", width)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return strings.Repeat("0", width)
	}
	return fmt.Sprintf("%0*d", width, int64(f))
}

// Key builds the cross-source invoice key "PPPPP-NNNNNNNN".
func Key(pointOfSale, invoiceNumber string) string {
	return NormalizeNumber(pointOfSale, PointOfSaleWidth) + "-" + NormalizeNumber(invoiceNumber, InvoiceNumberWidth)
}
