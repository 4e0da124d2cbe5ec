// Package mesh turns chunk block snapshots into renderable geometry
// and manages the double-buffered GPU meshes the renderer draws.
package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
	"openglhelper"
)

const initialVertexCapacity = 1024

var vertexSize = int(unsafe.Sizeof(voxel.PackedBlockVertex(0)))

// ChunkMesh is the GPU-side counterpart to a Chunk: a double-buffered
// vertex buffer the mesh pipeline uploads into and the renderer draws
// from. Every method here runs on the render thread only — worker
// threads never touch GPU resources, they only produce MeshData that
// the pipeline hands to Upload.
type ChunkMesh struct {
	position voxel.ChunkPos

	buffer     *openglhelper.DoubleBuffer
	frontVAO   *openglhelper.VertexArrayObject
	backVAO    *openglhelper.VertexArrayObject
	frontCount int32
	backCount  int32
}

// NewChunkMesh allocates a zero-length double-buffered mesh for pos.
func NewChunkMesh(pos voxel.ChunkPos) *ChunkMesh {
	capacity := initialVertexCapacity * vertexSize
	buf := openglhelper.NewDoubleBuffer(gl.ARRAY_BUFFER, capacity, openglhelper.DynamicDraw)

	return &ChunkMesh{
		position: pos,
		buffer:   buf,
		frontVAO: newVertexArray(buf.Front()),
		backVAO:  newVertexArray(buf.Back()),
	}
}

func newVertexArray(bo *openglhelper.BufferObject) *openglhelper.VertexArrayObject {
	vao := openglhelper.NewVAO()
	vao.Bind()
	bo.Bind()
	vao.SetVertexAttribPointer(0, 1, gl.UNSIGNED_INT64_ARB, false, int32(vertexSize), 0)
	vao.Unbind()
	return vao
}

// Position returns the chunk position this mesh belongs to.
func (cm *ChunkMesh) Position() voxel.ChunkPos { return cm.position }

// Upload writes vertices into the back buffer, growing it first if it
// doesn't have room, and records the new back vertex count. The write
// is invisible to Draw until the next Swap.
func (cm *ChunkMesh) Upload(vertices []voxel.PackedBlockVertex) {
	byteSize := len(vertices) * vertexSize
	back := cm.buffer.Back()
	if byteSize > back.Size {
		back = cm.buffer.GrowBack(byteSize)
		cm.backVAO.Delete()
		cm.backVAO = newVertexArray(back)
	}
	if len(vertices) > 0 {
		back.UpdateSubData(0, byteSize, unsafe.Pointer(&vertices[0]))
	}
	cm.backCount = int32(len(vertices))
}

// Swap publishes the back buffer as front.
func (cm *ChunkMesh) Swap() {
	cm.buffer.Swap()
	cm.frontVAO, cm.backVAO = cm.backVAO, cm.frontVAO
	cm.frontCount, cm.backCount = cm.backCount, cm.frontCount
}

// FrontVertexCount returns the vertex count of the currently drawable buffer.
func (cm *ChunkMesh) FrontVertexCount() int32 { return cm.frontCount }

// Draw issues a draw call for the front buffer, skipping empty meshes.
func (cm *ChunkMesh) Draw() {
	if cm.frontCount == 0 {
		return
	}
	cm.frontVAO.Bind()
	gl.DrawArrays(gl.TRIANGLES, 0, cm.frontCount)
	cm.frontVAO.Unbind()
}

// Delete releases all GPU resources owned by this mesh.
func (cm *ChunkMesh) Delete() {
	cm.buffer.Delete()
	cm.frontVAO.Delete()
	cm.backVAO.Delete()
}
