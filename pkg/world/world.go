package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
)

// MeshScheduler is the subset of ChunkMeshPipeline's contract World
// needs. Declaring it here rather than depending on pkg/mesh directly
// lets the mesh pipeline depend on ChunkManager without a package
// cycle back through World.
type MeshScheduler interface {
	ScheduleMeshing(playerPos mgl32.Vec3)
	UpdateMeshUploads()
}

// World is the single entry point the rest of the engine uses to read
// and write blocks and to drive streaming, meshing, and frustum
// culling once per frame.
type World struct {
	Manager *ChunkManager
	Mesher  MeshScheduler
}

// NewWorld wraps an already-constructed ChunkManager. Call
// AttachMesher once the mesh pipeline (which is built on the same
// ChunkManager) has been constructed.
func NewWorld(manager *ChunkManager) *World {
	return &World{Manager: manager}
}

// AttachMesher wires the mesh pipeline into the facade.
func (w *World) AttachMesher(m MeshScheduler) {
	w.Mesher = m
}

// GetBlock returns the material at a world block coordinate, or Air
// if the owning chunk is not loaded.
func (w *World) GetBlock(wx, wy, wz int32) voxel.Material {
	pos := voxel.WorldToChunkPos(wx, wy, wz)
	local := voxel.WorldToBlockPos(wx, wy, wz)
	c, ok := w.Manager.GetChunk(pos)
	if !ok {
		return voxel.Air
	}
	return c.GetBlock(local.X, local.Y, local.Z)
}

// IsAir reports whether the block at a world coordinate is air.
func (w *World) IsAir(wx, wy, wz int32) bool {
	return w.GetBlock(wx, wy, wz).IsAir()
}

// SetBlock stages a write into the owning chunk, publishes it
// immediately, marks that chunk dirty, and marks any axial neighbor
// sharing the touched face dirty too. A write into an unloaded chunk
// is silently dropped: the player cannot be standing somewhere
// outside the loaded world.
func (w *World) SetBlock(wx, wy, wz int32, m voxel.Material) {
	pos := voxel.WorldToChunkPos(wx, wy, wz)
	local := voxel.WorldToBlockPos(wx, wy, wz)
	c, ok := w.Manager.GetChunk(pos)
	if !ok {
		return
	}
	c.SetBlock(local.X, local.Y, local.Z, m)
	c.SwapBuffers()
	c.SetDirty(true)
	w.Manager.MarkDirtyOnBoundaryEdit(pos, local)
}

// UpdateStreaming requests/evicts chunks around playerPos.
func (w *World) UpdateStreaming(playerPos mgl32.Vec3) {
	w.Manager.UpdateStreaming(playerPos)
}

// UpdateFrustum recomputes the culling planes from a view-projection matrix.
func (w *World) UpdateFrustum(vp mgl32.Mat4) {
	w.Manager.UpdateFrustum(vp)
}

// ScheduleMeshing asks the attached mesh pipeline to schedule mesh
// jobs for any chunk that newly finished decoration or is dirty and
// READY.
func (w *World) ScheduleMeshing(playerPos mgl32.Vec3) {
	if w.Mesher != nil {
		w.Mesher.ScheduleMeshing(playerPos)
	}
}

// UpdateMeshUploads drains completed mesh jobs onto the GPU. Must be
// called from the render thread.
func (w *World) UpdateMeshUploads() {
	if w.Mesher != nil {
		w.Mesher.UpdateMeshUploads()
	}
}

// GetRenderableChunks returns every READY chunk passing the current
// frustum test.
func (w *World) GetRenderableChunks() []*Chunk {
	return w.Manager.GetRenderableChunks()
}
