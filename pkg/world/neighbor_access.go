package world

import "github.com/ridgeline-games/voxelworld/pkg/voxel"

// neighborIndex maps a (dx,dy,dz) offset in {-1,0,1}^3 to a flat index
// in [0,27): i = (dx+1) + 3*((dy+1) + 3*(dz+1)).
func neighborIndex(dx, dy, dz int) int {
	return (dx + 1) + 3*((dy+1)+3*(dz+1))
}

// NeighborAccess is a transient 3x3x3 window of raw chunk pointers
// centered on the chunk currently being decorated, plus a 27-bit
// bitmap recording which of those chunks a decoration job has written
// into. Decoration is the only stage that crosses chunk boundaries:
// a tree planted near an edge can spill roots or leaves into an
// adjacent chunk, and that write has to land through this window
// rather than through the owning ChunkManager, which does not exist
// yet for chunks still mid-generation.
type NeighborAccess struct {
	center   voxel.ChunkPos
	chunks   [27]*Chunk
	modified uint32 // bit i set if chunks[i] was written to
}

// NewNeighborAccess builds a window around center. chunks must be
// indexed by neighborIndex(dx,dy,dz) for dx,dy,dz in {-1,0,1}; a nil
// entry means that neighbor chunk does not exist (world edge or not
// yet loaded).
func NewNeighborAccess(center voxel.ChunkPos, chunks [27]*Chunk) *NeighborAccess {
	return &NeighborAccess{center: center, chunks: chunks}
}

// AllNeighborsReady reports whether every one of the 27 chunks exists
// and has finished terrain generation, the precondition for decorating
// the center chunk. A missing chunk below chunk y 0 is tolerated, since
// streaming never loads one there.
func (n *NeighborAccess) AllNeighborsReady() bool {
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				c := n.chunks[neighborIndex(dx, dy, dz)]
				if c == nil {
					if n.center.Y+int32(dy) < 0 {
						continue
					}
					return false
				}
				if !c.State().AtLeast(StateTerrainDone) {
					return false
				}
			}
		}
	}
	return true
}

// locate resolves a local position relative to the center chunk,
// possibly outside its bounds, to the owning chunk and that chunk's
// own local coordinates.
func locate(x, y, z int32) (dx, dy, dz int32, lx, ly, lz uint8) {
	dx = floorDiv(x)
	dy = floorDiv(y)
	dz = floorDiv(z)
	lx = uint8(mod16(x))
	ly = uint8(mod16(y))
	lz = uint8(mod16(z))
	return
}

func floorDiv(v int32) int32 {
	if v >= 0 {
		return v / voxel.Size
	}
	return -((-v + voxel.Size - 1) / voxel.Size)
}

func mod16(v int32) int32 {
	m := v % voxel.Size
	if m < 0 {
		m += voxel.Size
	}
	return m
}

// GetBlock reads a block at a position given relative to the center
// chunk's local origin, which may fall in any of the 27 chunks. It
// returns voxel.Air if the owning chunk is outside the window or
// doesn't exist.
func (n *NeighborAccess) GetBlock(x, y, z int32) voxel.Material {
	dx, dy, dz, lx, ly, lz := locate(x, y, z)
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || dz < -1 || dz > 1 {
		return voxel.Air
	}
	c := n.chunks[neighborIndex(int(dx), int(dy), int(dz))]
	if c == nil {
		return voxel.Air
	}
	return c.GetBlock(lx, ly, lz)
}

// SetBlock writes a block at a position given relative to the center
// chunk's local origin. It is a no-op if the owning chunk is outside
// the window or doesn't exist. Writes use SetBlockDirect, so they land
// in both buffers at once with no swap to publish; a written neighbor
// that is already READY sees the change immediately and is flagged for
// a remesh by MarkDirtyChunks.
func (n *NeighborAccess) SetBlock(x, y, z int32, m voxel.Material) {
	dx, dy, dz, lx, ly, lz := locate(x, y, z)
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || dz < -1 || dz > 1 {
		return
	}
	idx := neighborIndex(int(dx), int(dy), int(dz))
	c := n.chunks[idx]
	if c == nil {
		return
	}
	c.SetBlockDirect(lx, ly, lz, m)
	n.modified |= 1 << uint(idx)
}

// ModifiedChunks returns the chunks this window actually wrote to,
// including the center chunk if it was touched. Callers use this to
// know which neighbors need a dirty flag and a mesh rebuild once the
// center chunk's own decoration completes.
func (n *NeighborAccess) ModifiedChunks() []*Chunk {
	var out []*Chunk
	for i := 0; i < 27; i++ {
		if n.modified&(1<<uint(i)) != 0 {
			out = append(out, n.chunks[i])
		}
	}
	return out
}

// MarkDirtyChunks flags every modified neighbor (other than the center
// chunk itself) that is already READY as dirty, so the chunk manager
// schedules a remesh once that neighbor is otherwise idle. A neighbor
// still mid-generation has no mesh to go stale yet; its own first
// build already reflects this write, so marking it dirty here would
// only force a redundant remesh right after it reaches READY.
func (n *NeighborAccess) MarkDirtyChunks() {
	centerIdx := neighborIndex(0, 0, 0)
	for i := 0; i < 27; i++ {
		if i == centerIdx {
			continue
		}
		if n.modified&(1<<uint(i)) != 0 && n.chunks[i] != nil && n.chunks[i].State() == StateReady {
			n.chunks[i].SetDirty(true)
		}
	}
}

// Center returns the chunk this window is centered on.
func (n *NeighborAccess) Center() *Chunk {
	return n.chunks[neighborIndex(0, 0, 0)]
}
