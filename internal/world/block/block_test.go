package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtlasIndex(t *testing.T) {
	_, ok := AirBlockID.AtlasIndex()
	assert.False(t, ok, "У воздуха не должно быть тайла в атласе")

	for id, want := range map[BlockID]int{GrassBlockID: 0, DirtBlockID: 1, StoneBlockID: 2} {
		got, ok := id.AtlasIndex()
		require.True(t, ok, "%s должен иметь тайл", id)
		assert.Equal(t, want, got, "Неверный тайл для %s", id)
	}
}

func TestSolidity(t *testing.T) {
	assert.False(t, AirBlockID.IsSolid())
	assert.True(t, GrassBlockID.IsSolid())
	assert.True(t, DirtBlockID.IsSolid())
	assert.True(t, StoneBlockID.IsSolid())
	assert.True(t, BlockID(999).IsSolid(), "Неизвестный блок считается твёрдым")
	assert.False(t, IsValidBlockID(BlockID(999)))
}

func TestBlockString(t *testing.T) {
	assert.Equal(t, "Stone", StoneBlockID.String())
	assert.Equal(t, "Block(42)", BlockID(42).String())
}

func TestLayerFlip(t *testing.T) {
	assert.Equal(t, LayerBackground, LayerForeground.Flip())
	assert.Equal(t, LayerForeground, LayerBackground.Flip())
	assert.Equal(t, LayerForeground, LayerForeground.Flip().Flip())
}

func TestParseLayer(t *testing.T) {
	l, err := ParseLayer("bg")
	require.NoError(t, err)
	assert.Equal(t, LayerBackground, l)

	l, err = ParseLayer("")
	require.NoError(t, err)
	assert.Equal(t, LayerForeground, l)

	_, err = ParseLayer("ceiling")
	assert.Error(t, err)
}
