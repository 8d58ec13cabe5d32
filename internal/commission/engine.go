// Package commission allocates an earned commission pool across the items of
// a closed comanda. The pool itself (group_commission_total per item-type
// group) is supplied by the external calculation function — this engine only
// distributes it proportionally.
package commission

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warklp/saasBarber-sub001/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ItemAllocation is the computed commission share for one comanda item.
type ItemAllocation struct {
	ItemID     uuid.UUID
	Value      decimal.Decimal
	Percentage decimal.Decimal
}

// SplitByType partitions items into the services group and the products group.
func SplitByType(items []model.ComandaItem) (services, products []model.ComandaItem) {
	for _, item := range items {
		if item.IsService() {
			services = append(services, item)
		} else {
			products = append(products, item)
		}
	}
	return services, products
}

// Allocate distributes groupCommissionTotal across the group's items in
// proportion to each item's share of the group's total price.
//
// A group whose total price is zero yields zero allocations for every item —
// the divide-by-zero guard. Each item's percentage is its commission value
// relative to its own total price, rounded to 2 decimals.
func Allocate(group []model.ComandaItem, groupCommissionTotal decimal.Decimal) []ItemAllocation {
	allocations := make([]ItemAllocation, 0, len(group))

	groupTotal := decimal.Zero
	for _, item := range group {
		groupTotal = groupTotal.Add(item.TotalPrice)
	}

	if groupTotal.IsZero() {
		for _, item := range group {
			allocations = append(allocations, ItemAllocation{ItemID: item.ID})
		}
		return allocations
	}

	for _, item := range group {
		value := item.TotalPrice.Div(groupTotal).Mul(groupCommissionTotal).Round(2)

		percentage := decimal.Zero
		if !item.TotalPrice.IsZero() {
			percentage = value.Div(item.TotalPrice).Mul(hundred).Round(2)
		}

		allocations = append(allocations, ItemAllocation{
			ItemID:     item.ID,
			Value:      value,
			Percentage: percentage,
		})
	}
	return allocations
}

// Sum adds up the allocated values of a group.
func Sum(allocations []ItemAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Value)
	}
	return total
}
