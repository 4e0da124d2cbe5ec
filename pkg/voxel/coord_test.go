package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalIndexBijection(t *testing.T) {
	for x := uint8(0); x < Size; x++ {
		for y := uint8(0); y < Size; y++ {
			for z := uint8(0); z < Size; z++ {
				i := LocalIndex(x, y, z)
				require.True(t, i >= 0 && i < Volume)
				got := IndexToLocal(i)
				require.Equal(t, BlockPos{x, y, z}, got)
			}
		}
	}
}

func TestWorldToChunkAndBlockPos(t *testing.T) {
	cases := []struct {
		wx, wy, wz int32
		chunk      ChunkPos
		block      BlockPos
	}{
		{0, 0, 0, ChunkPos{0, 0, 0}, BlockPos{0, 0, 0}},
		{15, 15, 15, ChunkPos{0, 0, 0}, BlockPos{15, 15, 15}},
		{16, 0, 0, ChunkPos{1, 0, 0}, BlockPos{0, 0, 0}},
		{-1, 0, 0, ChunkPos{-1, 0, 0}, BlockPos{15, 0, 0}},
		{-16, 0, 0, ChunkPos{-1, 0, 0}, BlockPos{0, 0, 0}},
	}
	for _, c := range cases {
		require.Equal(t, c.chunk, WorldToChunkPos(c.wx, c.wy, c.wz))
		require.Equal(t, c.block, WorldToBlockPos(c.wx, c.wy, c.wz))
	}
}
