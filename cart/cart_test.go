package cart

import (
	"testing"

	"attira/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shirt = &models.Product{
	ProductID: "p1",
	Name:      "Oxford Shirt",
	Image:     "oxford.jpg",
	Price:     50000,
}

func TestApplyCartUpdateAddsLineWithSnapshot(t *testing.T) {
	items := applyCartUpdate(nil, shirt, "L", 2)

	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "Oxford Shirt", items[0].Name)
	assert.Equal(t, int64(50000), items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "L", items[0].Size)
	assert.Equal(t, int64(100000), cartTotal(items))
}

func TestApplyCartUpdateReplacesQuantityForSameProductAndSize(t *testing.T) {
	items := applyCartUpdate(nil, shirt, "L", 2)
	items = applyCartUpdate(items, shirt, "L", 5)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestApplyCartUpdateDifferentSizesAreSeparateLines(t *testing.T) {
	items := applyCartUpdate(nil, shirt, "L", 1)
	items = applyCartUpdate(items, shirt, "M", 1)

	assert.Len(t, items, 2)
}

func TestApplyCartUpdateZeroQuantityRemovesLine(t *testing.T) {
	items := applyCartUpdate(nil, shirt, "L", 2)
	items = applyCartUpdate(items, shirt, "L", 0)

	assert.Empty(t, items)
	assert.Equal(t, int64(0), cartTotal(items))
}

func TestApplyCartUpdateNegativeQuantityRemovesLine(t *testing.T) {
	items := applyCartUpdate(nil, shirt, "L", 2)
	items = applyCartUpdate(items, shirt, "L", -1)

	assert.Empty(t, items)
}

func TestApplyCartUpdateZeroQuantityOnAbsentLineIsNoop(t *testing.T) {
	items := applyCartUpdate(nil, shirt, "L", 0)

	assert.Empty(t, items)
}

func TestReAddAfterRemovalCreatesFreshLine(t *testing.T) {
	items := applyCartUpdate(nil, shirt, "L", 3)
	items = applyCartUpdate(items, shirt, "L", 0)
	items = applyCartUpdate(items, shirt, "L", 1)

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartTotalSumsAcrossLines(t *testing.T) {
	jeans := &models.Product{ProductID: "p2", Name: "Jeans", Price: 120000}

	items := applyCartUpdate(nil, shirt, "L", 2)
	items = applyCartUpdate(items, jeans, "32", 1)

	assert.Equal(t, int64(220000), cartTotal(items))
}
