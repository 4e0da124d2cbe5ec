package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
)

func TestChunkPlaceThenRead(t *testing.T) {
	c := NewChunk(voxel.ChunkPos{X: 0, Y: 0, Z: 0})
	m := voxel.PackMaterial(5, 0)

	c.SetBlock(2, 3, 4, m)
	require.True(t, c.SwapBuffers())
	require.Equal(t, uint16(5), c.GetBlock(2, 3, 4).BlockID())
}

func TestChunkReadWriteIndexComplementary(t *testing.T) {
	c := NewChunk(voxel.ChunkPos{})
	for i := 0; i < 5; i++ {
		c.SetBlock(uint8(i), 0, 0, voxel.PackMaterial(uint16(i+1), 0))
		require.Equal(t, uint32(1)-c.readIndex.Load(), c.writeIndex())
		c.SwapBuffers()
		require.Equal(t, uint32(1)-c.readIndex.Load(), c.writeIndex())
	}
}

func TestChunkSnapshotMatchesReadBuffer(t *testing.T) {
	c := NewChunk(voxel.ChunkPos{})
	c.SetBlockDirect(1, 1, 1, voxel.PackMaterial(9, 0))

	snap := c.GetBlockSnapshot()
	require.Equal(t, uint16(9), snap[voxel.LocalIndex(1, 1, 1)].BlockID())
}

func TestChunkGenerationIDMonotone(t *testing.T) {
	c := NewChunk(voxel.ChunkPos{})
	var last uint64
	for i := 0; i < 10; i++ {
		g := c.BumpGenerationID()
		require.Greater(t, g, last)
		last = g
	}
}

func TestChunkSwapBuffersNoopWithoutPendingWrite(t *testing.T) {
	c := NewChunk(voxel.ChunkPos{})
	require.False(t, c.SwapBuffers())
}

func TestChunkFillDirectWritesBothBuffers(t *testing.T) {
	c := NewChunk(voxel.ChunkPos{})
	from := voxel.BlockPos{X: 0, Y: 0, Z: 0}
	to := voxel.BlockPos{X: 1, Y: 1, Z: 1}
	c.FillDirect(from, to, voxel.PackMaterial(3, 0))

	require.Equal(t, uint16(3), c.GetBlock(0, 0, 0).BlockID())
	snap := c.GetBlockSnapshot()
	require.Equal(t, uint16(3), snap[voxel.LocalIndex(1, 1, 1)].BlockID())
}
