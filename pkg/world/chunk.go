package world

import (
	"sync/atomic"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
)

// BlockStorage is one full 16^3 block buffer.
type BlockStorage [voxel.Volume]voxel.Material

// Chunk is a double-buffered 16^3 block grid with a lock-free reader
// protocol: mesh workers copy a consistent snapshot of the read buffer
// while at most one writer stages changes into the write buffer and
// publishes them with swapBuffers.
type Chunk struct {
	position voxel.ChunkPos

	buffers       [2]BlockStorage
	readIndex     atomic.Uint32 // 0 or 1
	activeReaders atomic.Int32
	pendingSwap   atomic.Bool

	state        atomic.Uint32 // ChunkState
	generationID atomic.Uint64
	dirty        atomic.Bool
}

// NewChunk constructs a Chunk at pos in state UNLOADED with generation 0.
func NewChunk(pos voxel.ChunkPos) *Chunk {
	return &Chunk{position: pos}
}

// Position returns the chunk's immutable position.
func (c *Chunk) Position() voxel.ChunkPos { return c.position }

// State returns the chunk's current lifecycle state.
func (c *Chunk) State() ChunkState { return ChunkState(c.state.Load()) }

// SetState transitions the chunk to newState.
func (c *Chunk) SetState(newState ChunkState) { c.state.Store(uint32(newState)) }

// GenerationID returns the chunk's current generation id.
func (c *Chunk) GenerationID() uint64 { return c.generationID.Load() }

// BumpGenerationID increments the generation id, invalidating any
// in-flight job that captured the previous value.
func (c *Chunk) BumpGenerationID() uint64 { return c.generationID.Add(1) }

// Dirty reports whether the chunk has been marked for remeshing.
func (c *Chunk) Dirty() bool { return c.dirty.Load() }

// SetDirty sets or clears the dirty flag.
func (c *Chunk) SetDirty(v bool) { c.dirty.Store(v) }

func (c *Chunk) writeIndex() uint32 { return 1 - c.readIndex.Load() }

// GetBlock reads a single block from the read buffer. Out-of-range
// coordinates are a programming error; callers must pass values
// already known to satisfy voxel.InBounds.
func (c *Chunk) GetBlock(x, y, z uint8) voxel.Material {
	i := voxel.LocalIndex(x, y, z)
	return c.buffers[c.readIndex.Load()][i]
}

// IsAir reports whether the block at x,y,z is air.
func (c *Chunk) IsAir(x, y, z uint8) bool {
	return c.GetBlock(x, y, z).IsAir()
}

// GetBlockSnapshot returns an atomic copy of the entire read buffer:
// load readIndex, mark a reader active, re-check readIndex didn't move
// under us, copy, then release. This is the exclusive input to meshing.
func (c *Chunk) GetBlockSnapshot() BlockStorage {
	for {
		i := c.readIndex.Load()
		c.activeReaders.Add(1)
		if c.readIndex.Load() != i {
			c.activeReaders.Add(-1)
			continue
		}
		snapshot := c.buffers[i]
		c.activeReaders.Add(-1)
		return snapshot
	}
}

// SetBlock stages a write into the write buffer and marks a swap as
// pending. Not visible to readers until SwapBuffers succeeds.
func (c *Chunk) SetBlock(x, y, z uint8, m voxel.Material) {
	i := voxel.LocalIndex(x, y, z)
	c.buffers[c.writeIndex()][i] = m
	c.pendingSwap.Store(true)
}

// Fill stages a solid-fill write over the inclusive local box [from,to]
// into the write buffer.
func (c *Chunk) Fill(from, to voxel.BlockPos, m voxel.Material) {
	c.rangeBox(from, to, func(x, y, z uint8) {
		c.buffers[c.writeIndex()][voxel.LocalIndex(x, y, z)] = m
	})
	c.pendingSwap.Store(true)
}

// SetBlockDirect writes through to both buffers without staging. Used
// by terrain generation and by NeighborAccess during decoration.
func (c *Chunk) SetBlockDirect(x, y, z uint8, m voxel.Material) {
	i := voxel.LocalIndex(x, y, z)
	c.buffers[0][i] = m
	c.buffers[1][i] = m
}

// FillDirect is the direct-write equivalent of Fill.
func (c *Chunk) FillDirect(from, to voxel.BlockPos, m voxel.Material) {
	c.rangeBox(from, to, func(x, y, z uint8) {
		i := voxel.LocalIndex(x, y, z)
		c.buffers[0][i] = m
		c.buffers[1][i] = m
	})
}

func (c *Chunk) rangeBox(from, to voxel.BlockPos, fn func(x, y, z uint8)) {
	for x := from.X; x <= to.X; x++ {
		for y := from.Y; y <= to.Y; y++ {
			for z := from.Z; z <= to.Z; z++ {
				fn(x, y, z)
			}
		}
	}
}

// SwapBuffers publishes a pending staged write: requires pendingSwap,
// spin-waits for active readers to drain, flips readIndex, copies the
// newly-readable buffer into the other slot so future staged writes
// start from current truth, then clears pendingSwap. Returns false if
// there was nothing pending.
func (c *Chunk) SwapBuffers() bool {
	if !c.pendingSwap.Load() {
		return false
	}
	for c.activeReaders.Load() != 0 {
		// cooperative spin: readers hold the flag only for the
		// duration of one snapshot copy.
	}
	oldRead := c.readIndex.Load()
	newRead := 1 - oldRead
	c.readIndex.Store(newRead)
	c.buffers[1-newRead] = c.buffers[newRead]
	c.pendingSwap.Store(false)
	return true
}

// HasPendingSwap reports whether a staged write is waiting to publish.
func (c *Chunk) HasPendingSwap() bool { return c.pendingSwap.Load() }

// FinalizeGeneration publishes any pending staged write. Called once
// decoration finishes for a chunk.
func (c *Chunk) FinalizeGeneration() {
	c.SwapBuffers()
}
