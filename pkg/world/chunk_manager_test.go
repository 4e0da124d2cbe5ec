package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
)

type noopGenerator struct{}

func (noopGenerator) Generate(c *Chunk)                            {}
func (noopGenerator) Decorate(c *Chunk, neighbors *NeighborAccess) {}

type recordingGenerator struct {
	generateCalls int
	decorateCalls int
}

func (g *recordingGenerator) Generate(c *Chunk)                            { g.generateCalls++ }
func (g *recordingGenerator) Decorate(c *Chunk, neighbors *NeighborAccess) { g.decorateCalls++ }

func TestChunkManagerStreamingRequestsViewDistanceCube(t *testing.T) {
	m := NewChunkManager(2, noopGenerator{}, zap.NewNop())
	m.UpdateStreaming(mgl32.Vec3{0, 0, 0})

	expected := 0
	for dx := int32(-2); dx <= 2; dx++ {
		for dy := int32(-2); dy <= 2; dy++ {
			if dy < 0 {
				continue
			}
			for dz := int32(-2); dz <= 2; dz++ {
				expected++
			}
		}
	}
	require.Equal(t, expected, m.Len())
}

func TestChunkManagerEvictsBeyondUnloadDistance(t *testing.T) {
	m := NewChunkManager(2, noopGenerator{}, zap.NewNop())
	m.UpdateStreaming(mgl32.Vec3{0, 0, 0})

	m.UpdateStreaming(mgl32.Vec3{64, 0, 0}) // new center: chunk (4,0,0)

	_, stillLoaded := m.GetChunk(voxel.ChunkPos{X: -2, Y: 0, Z: 0})
	require.False(t, stillLoaded)

	_, kept := m.GetChunk(voxel.ChunkPos{X: 4, Y: 0, Z: 0})
	require.True(t, kept)
}

func TestChunkManagerStaleTerrainJobDropped(t *testing.T) {
	gen := &recordingGenerator{}
	m := NewChunkManager(2, gen, zap.NewNop())

	m.UpdateStreaming(mgl32.Vec3{0, 0, 0})
	c, ok := m.GetChunk(voxel.ChunkPos{X: 0, Y: 0, Z: 0})
	require.True(t, ok)
	originalGen := c.GenerationID()

	m.UpdateStreaming(mgl32.Vec3{640, 0, 0}) // evicts (0,0,0)
	_, stillPresent := m.GetChunk(voxel.ChunkPos{X: 0, Y: 0, Z: 0})
	require.False(t, stillPresent)

	m.runTerrainJob(c, originalGen)

	require.Equal(t, 0, gen.generateCalls)
	require.Equal(t, StateTerrainPending, c.State())
	_, reinserted := m.GetChunk(voxel.ChunkPos{X: 0, Y: 0, Z: 0})
	require.False(t, reinserted)
}

func TestChunkManagerDecorationLockExcludesOverlappingRegion(t *testing.T) {
	m := NewChunkManager(2, noopGenerator{}, zap.NewNop())
	center1 := voxel.ChunkPos{X: 0, Y: 0, Z: 0}
	center2 := voxel.ChunkPos{X: 1, Y: 0, Z: 0} // 3x3x3 windows overlap

	require.True(t, m.tryAcquireDecorationLock(center1))
	require.False(t, m.tryAcquireDecorationLock(center2))

	m.releaseDecorationLock(center1)
	require.True(t, m.tryAcquireDecorationLock(center2))
	m.releaseDecorationLock(center2)
}

func TestChunkManagerDecorationLockAllowsDisjointRegions(t *testing.T) {
	m := NewChunkManager(2, noopGenerator{}, zap.NewNop())
	center1 := voxel.ChunkPos{X: 0, Y: 0, Z: 0}
	center2 := voxel.ChunkPos{X: 10, Y: 0, Z: 0}

	require.True(t, m.tryAcquireDecorationLock(center1))
	require.True(t, m.tryAcquireDecorationLock(center2))
}

func TestChunkManagerMarkDirtyOnBoundaryEdit(t *testing.T) {
	m := NewChunkManager(2, noopGenerator{}, zap.NewNop())
	west := NewChunk(voxel.ChunkPos{X: 0, Y: 0, Z: 0})
	west.SetState(StateReady)
	east := NewChunk(voxel.ChunkPos{X: 1, Y: 0, Z: 0})
	east.SetState(StateReady)

	m.mu.Lock()
	m.chunks[west.Position()] = west
	m.chunks[east.Position()] = east
	m.mu.Unlock()

	m.MarkDirtyOnBoundaryEdit(voxel.ChunkPos{X: 0, Y: 0, Z: 0}, voxel.BlockPos{X: voxel.Size - 1, Y: 1, Z: 1})

	require.True(t, east.Dirty())
	require.False(t, west.Dirty())
}

func TestChunkManagerMarkDirtyOnBoundaryEditSkipsChunksNotYetReady(t *testing.T) {
	m := NewChunkManager(2, noopGenerator{}, zap.NewNop())
	east := NewChunk(voxel.ChunkPos{X: 1, Y: 0, Z: 0})
	east.SetState(StateDecorDone)

	m.mu.Lock()
	m.chunks[east.Position()] = east
	m.mu.Unlock()

	m.MarkDirtyOnBoundaryEdit(voxel.ChunkPos{X: 0, Y: 0, Z: 0}, voxel.BlockPos{X: voxel.Size - 1, Y: 1, Z: 1})
	require.False(t, east.Dirty())
}

func TestChunkManagerGetRenderableChunksFrustumCulling(t *testing.T) {
	m := NewChunkManager(2, noopGenerator{}, zap.NewNop())

	inFront := NewChunk(voxel.ChunkPos{X: 0, Y: 0, Z: 2})
	inFront.SetState(StateReady)
	behind := NewChunk(voxel.ChunkPos{X: 0, Y: 0, Z: -5})
	behind.SetState(StateReady)

	m.mu.Lock()
	m.chunks[inFront.Position()] = inFront
	m.chunks[behind.Position()] = behind
	m.mu.Unlock()

	proj := mgl32.Perspective(mgl32.DegToRad(70), 1.0, 0.1, 100.0)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})
	m.UpdateFrustum(proj.Mul4(view))

	visible := make(map[voxel.ChunkPos]bool)
	for _, c := range m.GetRenderableChunks() {
		visible[c.Position()] = true
	}
	require.True(t, visible[inFront.Position()])
	require.False(t, visible[behind.Position()])
}
