package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackMaterialRoundTrip(t *testing.T) {
	for id := uint16(0); id < (1 << blockIDBits); id += 37 {
		for rot := uint8(0); rot < 8; rot++ {
			m := PackMaterial(id, rot)
			require.Equal(t, id, m.BlockID(), "id round trip for id=%d rot=%d", id, rot)
			require.Equal(t, rot, m.Rotation(), "rotation round trip for id=%d rot=%d", id, rot)
		}
	}
}

func TestAirIsZeroAndIsAir(t *testing.T) {
	require.True(t, Air.IsAir())
	require.Equal(t, Material(0), Air)

	m := PackMaterial(0, 3)
	require.True(t, m.IsAir(), "block id 0 is air regardless of rotation")

	m2 := PackMaterial(5, 0)
	require.False(t, m2.IsAir())
}
