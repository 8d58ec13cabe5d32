package commission

import (
	"testing"

	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(price string, service bool) model.ComandaItem {
	it := model.ComandaItem{
		ID:         uuid.New(),
		TotalPrice: decimal.RequireFromString(price),
	}
	if service {
		id := uuid.New()
		it.ServiceID = &id
	} else {
		id := uuid.New()
		it.ProductID = &id
	}
	return it
}

func TestSplitByType(t *testing.T) {
	items := []model.ComandaItem{
		item("50.00", true),
		item("20.00", false),
		item("30.00", true),
	}

	services, products := SplitByType(items)
	assert.Len(t, services, 2)
	assert.Len(t, products, 1)
}

func TestAllocateProportionalSplit(t *testing.T) {
	// 60/40 split of a 20.00 pool → 12.00 / 8.00
	a := item("60.00", true)
	b := item("40.00", true)

	allocations := Allocate([]model.ComandaItem{a, b}, decimal.RequireFromString("20.00"))
	require.Len(t, allocations, 2)

	assert.True(t, allocations[0].Value.Equal(decimal.RequireFromString("12.00")),
		"got %s", allocations[0].Value)
	assert.True(t, allocations[1].Value.Equal(decimal.RequireFromString("8.00")),
		"got %s", allocations[1].Value)

	// percentage = value / item total × 100 — both items at 20%
	assert.True(t, allocations[0].Percentage.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, allocations[1].Percentage.Equal(decimal.RequireFromString("20.00")))
}

func TestAllocateSingleItemGetsWholePool(t *testing.T) {
	a := item("35.50", true)

	allocations := Allocate([]model.ComandaItem{a}, decimal.RequireFromString("7.10"))
	require.Len(t, allocations, 1)
	assert.True(t, allocations[0].Value.Equal(decimal.RequireFromString("7.10")))
}

func TestAllocateZeroGroupTotal(t *testing.T) {
	// All-free items: no division by zero, every allocation is zero.
	a := item("0.00", false)
	b := item("0.00", false)

	allocations := Allocate([]model.ComandaItem{a, b}, decimal.RequireFromString("10.00"))
	require.Len(t, allocations, 2)
	for _, alloc := range allocations {
		assert.True(t, alloc.Value.IsZero())
		assert.True(t, alloc.Percentage.IsZero())
	}
}

func TestAllocateRounding(t *testing.T) {
	// Three equal items sharing 10.00: each share rounds to 3.33.
	items := []model.ComandaItem{item("10.00", true), item("10.00", true), item("10.00", true)}

	allocations := Allocate(items, decimal.RequireFromString("10.00"))
	require.Len(t, allocations, 3)
	for _, alloc := range allocations {
		assert.True(t, alloc.Value.Equal(decimal.RequireFromString("3.33")), "got %s", alloc.Value)
	}
	assert.True(t, Sum(allocations).Equal(decimal.RequireFromString("9.99")))
}

func TestSumEmpty(t *testing.T) {
	assert.True(t, Sum(nil).IsZero())
}
