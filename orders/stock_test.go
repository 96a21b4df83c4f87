package orders

import (
	"context"
	"fmt"
	"testing"

	"attira/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type restoredLine struct {
	productID string
	quantity  int
}

func TestReserveStockRollsBackTakenLinesOnShortLine(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "p1", Name: "Shirt", Quantity: 2},
		{ProductID: "p2", Name: "Jeans", Quantity: 1},
	}

	var restored []restoredLine
	dec := func(ctx context.Context, productID string, quantity int) (int, bool, error) {
		if productID == "p2" {
			return 0, false, nil
		}
		return 5, true, nil
	}
	restore := func(ctx context.Context, productID string, quantity int) {
		restored = append(restored, restoredLine{productID, quantity})
	}
	find := finderFor(map[string]*models.Product{
		"p2": {ProductID: "p2", Name: "Jeans", Stock: 0},
	})

	failed := reserveStockWith(context.Background(), items, dec, restore, find)

	require.NotNil(t, failed)
	assert.Equal(t, "p2", failed.ProductID)
	assert.Equal(t, 1, failed.Requested)
	assert.Equal(t, 0, failed.Available)
	require.Len(t, restored, 1)
	assert.Equal(t, restoredLine{"p1", 2}, restored[0])
}

func TestReserveStockTreatsDatabaseFaultAsFailure(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "p1", Name: "Shirt", Quantity: 1},
		{ProductID: "p2", Name: "Jeans", Quantity: 1},
	}

	var restored []restoredLine
	dec := func(ctx context.Context, productID string, quantity int) (int, bool, error) {
		if productID == "p2" {
			return 0, false, fmt.Errorf("connection reset")
		}
		return 3, true, nil
	}
	restore := func(ctx context.Context, productID string, quantity int) {
		restored = append(restored, restoredLine{productID, quantity})
	}
	find := finderFor(map[string]*models.Product{})

	failed := reserveStockWith(context.Background(), items, dec, restore, find)

	require.NotNil(t, failed)
	assert.Equal(t, "p2", failed.ProductID)
	require.Len(t, restored, 1)
	assert.Equal(t, "p1", restored[0].productID)
}

func TestReserveStockAllLinesSatisfied(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
	}

	var taken []string
	dec := func(ctx context.Context, productID string, quantity int) (int, bool, error) {
		taken = append(taken, productID)
		return 1, true, nil
	}
	restore := func(ctx context.Context, productID string, quantity int) {
		t.Fatal("nothing to roll back when every line is satisfied")
	}
	find := finderFor(map[string]*models.Product{})

	failed := reserveStockWith(context.Background(), items, dec, restore, find)

	assert.Nil(t, failed)
	assert.Equal(t, []string{"p1", "p2"}, taken)
}
