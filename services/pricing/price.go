// Package pricing computes unit prices of phone configurations and the shipping fee of a cart.
package pricing

import (
	"slices"

	"github.com/shopspring/decimal"
)

const (
	// TierSurcharge is added for every step a selected storage or RAM option is above the first one
	TierSurcharge = 50
	// MaxLineQuantity caps a single cart line, next to the available stock
	MaxLineQuantity = 10
	// BaseShippingFee is charged for the first unit of a non-empty cart
	BaseShippingFee = 5.99
	// PerItemShippingFee is charged for every unit after the first
	PerItemShippingFee = 1.50
)

var (
	baseShippingFee    = decimal.NewFromFloat(BaseShippingFee)
	perItemShippingFee = decimal.NewFromFloat(PerItemShippingFee)
	hundred            = decimal.NewFromInt(100)
)

// CalculatePrice returns the discounted unit price of a configuration, rounded to cents.
// Selections that are empty or not part of the options carry no surcharge.
func CalculatePrice(basePrice float64, discountPercentage float64, storageOptions []string, selectedStorage string, ramOptions []string, selectedRam string) float64 {
	price := decimal.NewFromFloat(basePrice)
	if discountPercentage != 0 {
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPercentage).Div(hundred))
		price = price.Mul(factor)
	}
	price = price.Add(surcharge(storageOptions, selectedStorage))
	price = price.Add(surcharge(ramOptions, selectedRam))

	return toAmount(price)
}

// CalculateOriginalPrice is CalculatePrice without the discount, used to show the pre-discount price
func CalculateOriginalPrice(basePrice float64, storageOptions []string, selectedStorage string, ramOptions []string, selectedRam string) float64 {
	return CalculatePrice(basePrice, 0, storageOptions, selectedStorage, ramOptions, selectedRam)
}

func surcharge(options []string, selected string) decimal.Decimal {
	if selected == "" {
		return decimal.Zero
	}
	idx := slices.Index(options, selected)
	if idx <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(idx * TierSurcharge))
}

// ShippingFee is derived from the total number of units in a cart
func ShippingFee(totalQuantity int) float64 {
	if totalQuantity <= 0 {
		return 0
	}
	fee := baseShippingFee.Add(perItemShippingFee.Mul(decimal.NewFromInt(int64(totalQuantity - 1))))
	return toAmount(fee)
}

// MaxQuantity is the highest quantity a line of a product with the given stock may hold
func MaxQuantity(stock int) int {
	if stock < 0 {
		return 0
	}
	return min(stock, MaxLineQuantity)
}

// LineTotal is the price of quantity units, rounded to cents
func LineTotal(unitPrice float64, quantity int) float64 {
	return toAmount(decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))))
}

// Sum adds amounts without accumulating floating point drift
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return toAmount(total)
}

// Cents converts an amount to the minor unit used by payment providers
func Cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

func toAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
