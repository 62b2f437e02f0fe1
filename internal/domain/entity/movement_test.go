package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// La convención de signo del kardex: IN suma, OUT resta, ADJUST suma el
// delta con signo.
func TestMovementEntry_Delta(t *testing.T) {
	in := &entity.MovementEntry{Type: entity.MovementTypeIN, Quantity: 5}
	out := &entity.MovementEntry{Type: entity.MovementTypeOUT, Quantity: 3}
	adjNeg := &entity.MovementEntry{Type: entity.MovementTypeADJUST, Quantity: -2}
	adjPos := &entity.MovementEntry{Type: entity.MovementTypeADJUST, Quantity: 4}

	assert.Equal(t, int64(5), in.Delta())
	assert.Equal(t, int64(-3), out.Delta())
	assert.Equal(t, int64(-2), adjNeg.Delta())
	assert.Equal(t, int64(4), adjPos.Delta())
}

func TestMovementEntry_Consistent(t *testing.T) {
	ok := &entity.MovementEntry{
		Type: entity.MovementTypeOUT, Quantity: 3,
		QuantityBefore: 10, QuantityAfter: 7,
	}
	assert.True(t, ok.Consistent())

	corrupto := &entity.MovementEntry{
		Type: entity.MovementTypeOUT, Quantity: 3,
		QuantityBefore: 10, QuantityAfter: 8,
	}
	assert.False(t, corrupto.Consistent())
}

func TestIsStockable(t *testing.T) {
	assert.True(t, entity.IsStockable(entity.ItemKindGood))
	assert.True(t, entity.IsStockable(entity.ItemKindSupply))
	assert.False(t, entity.IsStockable(entity.ItemKindService))
	assert.False(t, entity.IsStockable("OTRA"))
}
