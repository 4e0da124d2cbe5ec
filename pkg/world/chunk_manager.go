package world

import (
	"context"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
)

// TerrainGenerator is the external collaborator that turns an empty
// chunk into terrain and, once a chunk's full 3x3x3 neighborhood has
// terrain, places decorations that may spill across chunk boundaries.
type TerrainGenerator interface {
	Generate(c *Chunk)
	Decorate(c *Chunk, neighbors *NeighborAccess)
}

// ChunkManager owns the chunk map and drives every chunk through the
// terrain/decoration/mesh lifecycle, streaming chunks in and out
// around a moving player.
type ChunkManager struct {
	mu     sync.RWMutex
	chunks map[voxel.ChunkPos]*Chunk

	terrainPool    *JobQueue
	decorationPool *JobQueue

	decorationLocksMu sync.Mutex
	decorationLocks   map[voxel.ChunkPos]struct{}

	viewDistance   int32
	unloadDistance int32

	generator TerrainGenerator
	log       *zap.Logger

	playerMu  sync.Mutex
	playerPos mgl32.Vec3

	frustumMu sync.Mutex
	frustum   [6]mgl32.Vec4
}

// NewChunkManager builds a manager with the given view distance (in
// chunks) and terrain generator. Unload distance is always
// viewDistance+2. Worker pool size is the host's CPU count.
func NewChunkManager(viewDistance int32, generator TerrainGenerator, log *zap.Logger) *ChunkManager {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &ChunkManager{
		chunks:          make(map[voxel.ChunkPos]*Chunk),
		terrainPool:     NewJobQueue("terrain", workers, log),
		decorationPool:  NewJobQueue("decoration", workers, log),
		decorationLocks: make(map[voxel.ChunkPos]struct{}),
		viewDistance:    viewDistance,
		unloadDistance:  viewDistance + 2,
		generator:       generator,
		log:             log,
	}
}

// Start launches the terrain and decoration worker pools.
func (m *ChunkManager) Start(ctx context.Context) {
	m.terrainPool.Start(ctx)
	m.decorationPool.Start(ctx)
}

// Stop drains and joins both worker pools.
func (m *ChunkManager) Stop() {
	m.terrainPool.Stop()
	m.decorationPool.Stop()
}

// GetChunk returns the chunk at pos, if loaded.
func (m *ChunkManager) GetChunk(pos voxel.ChunkPos) (*Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chunks[pos]
	return c, ok
}

// Len returns the number of currently loaded chunks.
func (m *ChunkManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Snapshot returns every currently loaded chunk. Used by the mesh
// pipeline to find candidates for (re)meshing; the slice is a point-in-
// time copy and safe to range over without holding any lock.
func (m *ChunkManager) Snapshot() []*Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Chunk, 0, len(m.chunks))
	for _, c := range m.chunks {
		out = append(out, c)
	}
	return out
}

func chebyshevChunkDistance(p, center voxel.ChunkPos) int32 {
	dx := absInt32(p.X - center.X)
	dy := absInt32(p.Y - center.Y)
	dz := absInt32(p.Z - center.Z)
	d := dx
	if dy > d {
		d = dy
	}
	if dz > d {
		d = dz
	}
	return d
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func distanceToPlayer(pos voxel.ChunkPos, playerPos mgl32.Vec3) float32 {
	center := pos.WorldCenter()
	return center.Sub(playerPos).Len()
}

// UpdateStreaming requests every chunk within view distance of
// playerWorldPos and evicts every loaded chunk beyond unload distance.
func (m *ChunkManager) UpdateStreaming(playerWorldPos mgl32.Vec3) {
	m.playerMu.Lock()
	m.playerPos = playerWorldPos
	m.playerMu.Unlock()

	center := voxel.WorldToChunkPos(int32(playerWorldPos.X()), int32(playerWorldPos.Y()), int32(playerWorldPos.Z()))

	var requested, evicted int
	m.mu.Lock()
	for dx := -m.viewDistance; dx <= m.viewDistance; dx++ {
		for dy := -m.viewDistance; dy <= m.viewDistance; dy++ {
			for dz := -m.viewDistance; dz <= m.viewDistance; dz++ {
				p := center.Add(dx, dy, dz)
				if p.Y < 0 {
					continue
				}
				if _, ok := m.chunks[p]; ok {
					continue
				}
				c := NewChunk(p)
				c.BumpGenerationID()
				c.SetState(StateTerrainPending)
				m.chunks[p] = c
				requested++
				m.enqueueTerrainJob(c, playerWorldPos)
			}
		}
	}
	var toEvict []voxel.ChunkPos
	for p := range m.chunks {
		if chebyshevChunkDistance(p, center) > m.unloadDistance {
			toEvict = append(toEvict, p)
		}
	}
	for _, p := range toEvict {
		m.chunks[p].BumpGenerationID()
		delete(m.chunks, p)
		evicted++
	}
	m.mu.Unlock()

	if requested > 0 || evicted > 0 {
		m.log.Debug("streaming update",
			zap.Int32("center_x", center.X), zap.Int32("center_y", center.Y), zap.Int32("center_z", center.Z),
			zap.Int("requested", requested), zap.Int("evicted", evicted))
	}
}

func (m *ChunkManager) enqueueTerrainJob(c *Chunk, playerPos mgl32.Vec3) {
	gen := c.GenerationID()
	priority := distanceToPlayer(c.Position(), playerPos)
	m.terrainPool.Submit(priority, func() {
		m.runTerrainJob(c, gen)
	})
}

func (m *ChunkManager) currentPlayerPos() mgl32.Vec3 {
	m.playerMu.Lock()
	defer m.playerMu.Unlock()
	return m.playerPos
}

func (m *ChunkManager) runTerrainJob(c *Chunk, jobGen uint64) {
	if c.GenerationID() != jobGen {
		return
	}
	c.SetState(StateTerrainGenerating)
	m.generator.Generate(c)
	if c.GenerationID() != jobGen {
		return
	}
	c.SetState(StateTerrainDone)

	pos := c.Position()
	playerPos := m.currentPlayerPos()
	for _, np := range neighborPositions(pos) {
		m.tryQueueDecoration(np, playerPos)
	}
}

// tryQueueDecoration probes a candidate chunk: if it is in
// TERRAIN_DONE and its full 3x3x3 neighborhood has terrain, it moves
// to DECOR_PENDING and a decoration job is enqueued. Otherwise this is
// a no-op; a later terrain job completing nearby will re-probe it.
func (m *ChunkManager) tryQueueDecoration(pos voxel.ChunkPos, playerPos mgl32.Vec3) {
	m.mu.RLock()
	c, ok := m.chunks[pos]
	m.mu.RUnlock()
	if !ok || c.State() != StateTerrainDone {
		return
	}
	if !m.canDecorate(pos) {
		return
	}
	c.SetState(StateDecorPending)
	gen := c.GenerationID()
	priority := distanceToPlayer(pos, playerPos)
	m.decorationPool.Submit(priority, func() {
		m.runDecorationJob(c, pos, gen)
	})
}

func (m *ChunkManager) canDecorate(center voxel.ChunkPos) bool {
	for _, np := range neighborPositions(center) {
		if np.Y < 0 {
			continue
		}
		m.mu.RLock()
		n, ok := m.chunks[np]
		m.mu.RUnlock()
		if !ok || !n.State().AtLeast(StateTerrainDone) {
			return false
		}
	}
	return true
}

func (m *ChunkManager) runDecorationJob(c *Chunk, pos voxel.ChunkPos, jobGen uint64) {
	if c.GenerationID() != jobGen {
		return
	}
	if !m.tryAcquireDecorationLock(pos) {
		c.SetState(StateTerrainDone)
		m.tryQueueDecoration(pos, m.currentPlayerPos())
		return
	}
	defer m.releaseDecorationLock(pos)

	c.SetState(StateDecorGenerating)

	var window [27]*Chunk
	m.mu.RLock()
	for _, np := range neighborPositions(pos) {
		dx, dy, dz := np.X-pos.X, np.Y-pos.Y, np.Z-pos.Z
		window[neighborIndex(int(dx), int(dy), int(dz))] = m.chunks[np]
	}
	m.mu.RUnlock()

	na := NewNeighborAccess(pos, window)
	if !na.AllNeighborsReady() {
		c.SetState(StateTerrainDone)
		m.tryQueueDecoration(pos, m.currentPlayerPos())
		return
	}

	if c.GenerationID() != jobGen {
		return
	}
	m.generator.Decorate(c, na)
	if c.GenerationID() != jobGen {
		return
	}
	c.SetState(StateDecorDone)
	na.MarkDirtyChunks()
	c.FinalizeGeneration()
}

func (m *ChunkManager) tryAcquireDecorationLock(center voxel.ChunkPos) bool {
	positions := neighborPositions(center)
	m.decorationLocksMu.Lock()
	defer m.decorationLocksMu.Unlock()
	for _, p := range positions {
		if _, locked := m.decorationLocks[p]; locked {
			return false
		}
	}
	for _, p := range positions {
		m.decorationLocks[p] = struct{}{}
	}
	return true
}

func (m *ChunkManager) releaseDecorationLock(center voxel.ChunkPos) {
	positions := neighborPositions(center)
	m.decorationLocksMu.Lock()
	defer m.decorationLocksMu.Unlock()
	for _, p := range positions {
		delete(m.decorationLocks, p)
	}
}

func neighborPositions(center voxel.ChunkPos) [27]voxel.ChunkPos {
	var out [27]voxel.ChunkPos
	i := 0
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				out[i] = center.Add(dx, dy, dz)
				i++
			}
		}
	}
	return out
}

// MarkDirtyOnBoundaryEdit marks the axial neighbor(s) of pos dirty
// when local sits on a chunk face, so an edit near a boundary
// triggers a remesh of whichever already-rendered neighbor shares
// that face. Neighbors that have not finished their own first mesh
// pass are left alone; they will pick up the edit when they mesh.
func (m *ChunkManager) MarkDirtyOnBoundaryEdit(pos voxel.ChunkPos, local voxel.BlockPos) {
	var offsets [][3]int32
	if local.X == 0 {
		offsets = append(offsets, [3]int32{-1, 0, 0})
	}
	if local.X == voxel.Size-1 {
		offsets = append(offsets, [3]int32{1, 0, 0})
	}
	if local.Y == 0 {
		offsets = append(offsets, [3]int32{0, -1, 0})
	}
	if local.Y == voxel.Size-1 {
		offsets = append(offsets, [3]int32{0, 1, 0})
	}
	if local.Z == 0 {
		offsets = append(offsets, [3]int32{0, 0, -1})
	}
	if local.Z == voxel.Size-1 {
		offsets = append(offsets, [3]int32{0, 0, 1})
	}
	if len(offsets) == 0 {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, off := range offsets {
		np := pos.Add(off[0], off[1], off[2])
		n, ok := m.chunks[np]
		if !ok || n.State() != StateReady {
			continue
		}
		n.SetDirty(true)
	}
}

// UpdateFrustum recomputes the six frustum planes from a
// view-projection matrix, used by GetRenderableChunks.
func (m *ChunkManager) UpdateFrustum(vp mgl32.Mat4) {
	planes := extractFrustumPlanes(vp)
	m.frustumMu.Lock()
	m.frustum = planes
	m.frustumMu.Unlock()
}

func extractFrustumPlanes(vp mgl32.Mat4) [6]mgl32.Vec4 {
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(i, 0), vp.At(i, 1), vp.At(i, 2), vp.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	planes := [6]mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}
	for i, p := range planes {
		n := mgl32.Vec3{p[0], p[1], p[2]}
		l := n.Len()
		if l > 0 {
			planes[i] = p.Mul(1 / l)
		}
	}
	return planes
}

func aabbInFrustum(planes [6]mgl32.Vec4, pos voxel.ChunkPos) bool {
	min := pos.WorldOrigin()
	max := mgl32.Vec3{min.X() + voxel.Size, min.Y() + voxel.Size, min.Z() + voxel.Size}
	for _, p := range planes {
		px := min.X()
		if p[0] >= 0 {
			px = max.X()
		}
		py := min.Y()
		if p[1] >= 0 {
			py = max.Y()
		}
		pz := min.Z()
		if p[2] >= 0 {
			pz = max.Z()
		}
		if p[0]*px+p[1]*py+p[2]*pz+p[3] < 0 {
			return false
		}
	}
	return true
}

// GetRenderableChunks returns every READY chunk whose AABB passes the
// current frustum test.
func (m *ChunkManager) GetRenderableChunks() []*Chunk {
	m.frustumMu.Lock()
	planes := m.frustum
	m.frustumMu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Chunk, 0, len(m.chunks))
	for _, c := range m.chunks {
		if c.State() != StateReady {
			continue
		}
		if !aabbInFrustum(planes, c.Position()) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ScheduleDecorationProbe re-probes pos for decoration readiness using
// the most recently observed player position. Exposed for callers
// that discover a chunk stuck at TERRAIN_DONE and want to nudge it
// forward; nothing in this module calls it.
func (m *ChunkManager) ScheduleDecorationProbe(pos voxel.ChunkPos) {
	m.tryQueueDecoration(pos, m.currentPlayerPos())
}
