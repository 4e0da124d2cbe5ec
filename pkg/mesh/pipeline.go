package mesh

import (
	"context"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/ridgeline-games/voxelworld/pkg/registry"
	"github.com/ridgeline-games/voxelworld/pkg/voxel"
	"github.com/ridgeline-games/voxelworld/pkg/world"
)

// meshResult is a finished mesh build waiting to be uploaded to the
// GPU on the render thread.
type meshResult struct {
	pos        voxel.ChunkPos
	chunk      *world.Chunk
	vertices   []voxel.PackedBlockVertex
	generation uint64
	initial    bool // true for a DECOR_DONE->READY build, false for a dirty remesh
}

// ChunkMeshPipeline turns chunks that have finished decoration, or that
// are READY but dirty, into uploaded GPU meshes. Building a mesh
// (sampling block snapshots and emitting vertices) happens on worker
// goroutines; uploading the result and swapping it in happens only
// from UpdateMeshUploads, which callers must run on the render thread.
//
// A dirty remesh of an already-READY chunk never flips ChunkState away
// from READY: the chunk keeps rendering its current front buffer for
// the whole build, and only the mesh's back buffer is swapped in once
// the rebuild completes. The in-flight tracking that prevents
// resubmitting the same chunk twice lives here, not on the chunk.
type ChunkMeshPipeline struct {
	manager  *world.ChunkManager
	builder  *builder
	pool     *world.JobQueue
	log      *zap.Logger
	playerMu sync.Mutex
	player   mgl32.Vec3

	inFlightMu sync.Mutex
	inFlight   map[voxel.ChunkPos]struct{}

	uploadMu sync.Mutex
	upload   []meshResult

	meshes map[voxel.ChunkPos]*ChunkMesh
}

// NewChunkMeshPipeline builds a mesh pipeline backed by manager, using
// blocks/textures to resolve face visibility and texture layers.
func NewChunkMeshPipeline(manager *world.ChunkManager, blocks *registry.BlockRegistry, textures *registry.TextureRegistry, workers int, log *zap.Logger) *ChunkMeshPipeline {
	if workers < 1 {
		workers = 1
	}
	return &ChunkMeshPipeline{
		manager:  manager,
		builder:  newBuilder(blocks, textures),
		pool:     world.NewJobQueue("mesh", workers, log),
		log:      log,
		inFlight: make(map[voxel.ChunkPos]struct{}),
		meshes:   make(map[voxel.ChunkPos]*ChunkMesh),
	}
}

// Start launches the mesh worker pool.
func (p *ChunkMeshPipeline) Start(ctx context.Context) {
	p.pool.Start(ctx)
}

// Stop drains and joins the mesh worker pool, then frees every GPU
// mesh. Must be called from the render thread.
func (p *ChunkMeshPipeline) Stop() {
	p.pool.Stop()
	for _, m := range p.meshes {
		m.Delete()
	}
	p.meshes = make(map[voxel.ChunkPos]*ChunkMesh)
}

func (p *ChunkMeshPipeline) tryMarkInFlight(pos voxel.ChunkPos) bool {
	p.inFlightMu.Lock()
	defer p.inFlightMu.Unlock()
	if _, ok := p.inFlight[pos]; ok {
		return false
	}
	p.inFlight[pos] = struct{}{}
	return true
}

func (p *ChunkMeshPipeline) clearInFlight(pos voxel.ChunkPos) {
	p.inFlightMu.Lock()
	delete(p.inFlight, pos)
	p.inFlightMu.Unlock()
}

// ScheduleMeshing submits a mesh build for every chunk that has just
// finished decoration, and a remesh for every READY chunk still
// carrying its dirty flag. playerPos orders jobs by distance, same as
// terrain and decoration.
func (p *ChunkMeshPipeline) ScheduleMeshing(playerPos mgl32.Vec3) {
	p.playerMu.Lock()
	p.player = playerPos
	p.playerMu.Unlock()

	for _, c := range p.manager.Snapshot() {
		initial := c.State() == world.StateDecorDone
		remesh := c.State() == world.StateReady && c.Dirty()
		if !initial && !remesh {
			continue
		}
		pos := c.Position()
		if !p.tryMarkInFlight(pos) {
			continue
		}
		if initial {
			c.SetState(world.StateMeshing)
		} else {
			c.SetDirty(false)
		}
		gen := c.GenerationID()
		priority := distanceToChunk(pos, playerPos)
		job := initial
		p.pool.Submit(priority, func() {
			p.buildMeshJob(c, pos, gen, job)
		})
	}
}

func distanceToChunk(pos voxel.ChunkPos, playerPos mgl32.Vec3) float32 {
	return pos.WorldCenter().Sub(playerPos).Len()
}

// buildMeshJob runs on a worker goroutine: it samples the chunk's own
// block snapshot plus its six axial neighbors, builds vertex data, and
// hands the result to the upload queue for the render thread to pick
// up. If the chunk's generation id changes while this is in flight
// (the chunk got evicted), the result is dropped.
func (p *ChunkMeshPipeline) buildMeshJob(c *world.Chunk, pos voxel.ChunkPos, gen uint64, initial bool) {
	defer p.clearInFlight(pos)

	if c.GenerationID() != gen {
		return
	}

	snapshot := &chunkSnapshot{center: c.GetBlockSnapshot()}
	for _, face := range voxel.Faces {
		dx, dy, dz := face.Offset()
		np := pos.Add(dx, dy, dz)
		n, ok := p.manager.GetChunk(np)
		if !ok {
			continue
		}
		snapshot.neighbors[face] = neighborSnapshot{exists: true, blocks: n.GetBlockSnapshot()}
	}

	vertices := p.builder.build(snapshot)

	if c.GenerationID() != gen {
		return
	}
	if initial {
		c.SetState(world.StateMeshed)
	}

	p.uploadMu.Lock()
	p.upload = append(p.upload, meshResult{pos: pos, chunk: c, vertices: vertices, generation: gen, initial: initial})
	p.uploadMu.Unlock()
}

// UpdateMeshUploads drains every finished mesh build and uploads it to
// the GPU, swapping it in as the new front buffer. Must be called once
// per frame from the render thread; GPU resources are never touched
// from anywhere else.
func (p *ChunkMeshPipeline) UpdateMeshUploads() {
	p.uploadMu.Lock()
	results := p.upload
	p.upload = nil
	p.uploadMu.Unlock()

	for _, r := range results {
		if r.chunk.GenerationID() != r.generation {
			continue
		}
		gm, ok := p.meshes[r.pos]
		if !ok {
			gm = NewChunkMesh(r.pos)
			p.meshes[r.pos] = gm
		}
		gm.Upload(r.vertices)
		gm.Swap()
		if r.initial {
			r.chunk.SetState(world.StateReady)
		}
	}

	p.pruneEvicted()
}

// pruneEvicted deletes GPU meshes for chunks no longer loaded by the
// manager, run opportunistically alongside the upload drain.
func (p *ChunkMeshPipeline) pruneEvicted() {
	for pos, gm := range p.meshes {
		if _, ok := p.manager.GetChunk(pos); ok {
			continue
		}
		gm.Delete()
		delete(p.meshes, pos)
	}
}

// Render draws the front buffer of every currently renderable (READY,
// frustum-visible) chunk's mesh.
func (p *ChunkMeshPipeline) Render() {
	for _, c := range p.manager.GetRenderableChunks() {
		gm, ok := p.meshes[c.Position()]
		if !ok {
			continue
		}
		gm.Draw()
	}
}
