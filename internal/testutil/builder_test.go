package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/basket/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuilder_Purchases(t *testing.T) {
	purchases := NewLogBuilder(t).
		WithFixture(FixtureScenario).
		WithBasket("c4", "tea").
		Purchases()

	require.Len(t, purchases, 7)
	assert.Equal(t, "c1", purchases[0].CustomerID)
	assert.Equal(t, "milk", purchases[0].Item)
	assert.Equal(t, 2, purchases[0].Line)
	assert.Equal(t, "c4", purchases[6].CustomerID)
	assert.Equal(t, 8, purchases[6].Line)
	assert.True(t, purchases[6].Date.After(purchases[0].Date))
}

func TestLogBuilder_WriteCSVRoundTrip(t *testing.T) {
	builder := NewLogBuilder(t).WithFixture(FixturePaired)
	path := builder.WriteCSV()

	loaded, err := loader.Load(context.Background(), path, loader.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, builder.Purchases(), loaded)
}

func TestFixture_BasketsAreCopies(t *testing.T) {
	first := FixturePaired.Baskets()
	first[0].Items[0] = "wine"
	assert.Equal(t, "beer", FixturePaired.Baskets()[0].Items[0])
	assert.Equal(t, "Paired", FixturePaired.Name())
}
