package mesh

import (
	"github.com/ridgeline-games/voxelworld/pkg/registry"
	"github.com/ridgeline-games/voxelworld/pkg/voxel"
	"github.com/ridgeline-games/voxelworld/pkg/world"
)

// neighborSnapshot is one of the six axial neighbor chunks sampled for
// face culling. Exists is false when that neighbor isn't loaded, in
// which case every cell in it is treated as air.
type neighborSnapshot struct {
	exists bool
	blocks world.BlockStorage
}

// chunkSnapshot bundles a chunk's own block data with its six axial
// neighbors, the full input a mesh build needs.
type chunkSnapshot struct {
	center    world.BlockStorage
	neighbors [6]neighborSnapshot // indexed by voxel.Face
}

// builder emits PackedBlockVertex data from a chunkSnapshot, resolving
// textures through the block and texture registries.
type builder struct {
	blocks   *registry.BlockRegistry
	textures *registry.TextureRegistry
}

func newBuilder(blocks *registry.BlockRegistry, textures *registry.TextureRegistry) *builder {
	return &builder{blocks: blocks, textures: textures}
}

// sample returns the material at local coordinates that may fall
// outside the center chunk's bounds, reading from the appropriate
// neighbor snapshot when so. Coordinates more than one cell outside
// [0,Size) are never produced by build's per-face offsets, so only a
// single step out is handled.
func (s *chunkSnapshot) sample(x, y, z int) voxel.Material {
	if voxel.InBounds(x, y, z) {
		return s.center[voxel.LocalIndex(uint8(x), uint8(y), uint8(z))]
	}

	face, lx, ly, lz, ok := wrapToNeighbor(x, y, z)
	if !ok {
		return voxel.Air
	}
	n := s.neighbors[face]
	if !n.exists {
		return voxel.Air
	}
	return n.blocks[voxel.LocalIndex(lx, ly, lz)]
}

// wrapToNeighbor maps an out-of-bounds local coordinate exactly one
// step past a single face back into that neighbor's own local space.
func wrapToNeighbor(x, y, z int) (face voxel.Face, lx, ly, lz uint8, ok bool) {
	switch {
	case x == -1:
		return voxel.FaceWest, voxel.Size - 1, uint8(y), uint8(z), true
	case x == voxel.Size:
		return voxel.FaceEast, 0, uint8(y), uint8(z), true
	case y == -1:
		return voxel.FaceDown, uint8(x), voxel.Size - 1, uint8(z), true
	case y == voxel.Size:
		return voxel.FaceUp, uint8(x), 0, uint8(z), true
	case z == -1:
		return voxel.FaceNorth, uint8(x), uint8(y), voxel.Size - 1, true
	case z == voxel.Size:
		return voxel.FaceSouth, uint8(x), uint8(y), 0, true
	default:
		return 0, 0, 0, 0, false
	}
}

// isAirLike reports whether m should be treated as empty for face
// culling purposes: actual air, or a block whose metadata marks it
// transparent.
func (b *builder) isAirLike(m voxel.Material) bool {
	if m.IsAir() {
		return true
	}
	return b.blocks.Get(m.BlockID()).Transparent
}

// textureLayer resolves the texture-array layer id for one visible
// face of a block, following its rotation remap and falling back to
// the missing-texture layer if the name can't be found. An unresolved
// name is recorded with TextureRegistry.WarnOnce; nothing is logged.
func (b *builder) textureLayer(m voxel.Material, face voxel.Face) uint16 {
	meta := b.blocks.Get(m.BlockID())
	worldFace := voxel.RemapFaceForRotation(face, meta.Rotation, m.Rotation())
	name := meta.FaceTexture(worldFace)
	if name == "" {
		return registry.MissingTextureLayer
	}
	layer, ok := b.textures.GetByName(name)
	if !ok {
		b.textures.WarnOnce(name)
		return registry.MissingTextureLayer
	}
	return layer
}

// build emits vertex data for every visible face of every non-air
// cell in snapshot.
func (b *builder) build(snapshot *chunkSnapshot) []voxel.PackedBlockVertex {
	out := make([]voxel.PackedBlockVertex, 0, 4096)
	for lx := 0; lx < voxel.Size; lx++ {
		for ly := 0; ly < voxel.Size; ly++ {
			for lz := 0; lz < voxel.Size; lz++ {
				m := snapshot.center[voxel.LocalIndex(uint8(lx), uint8(ly), uint8(lz))]
				if m.IsAir() {
					continue
				}
				for _, face := range voxel.Faces {
					dx, dy, dz := face.Offset()
					neighborMat := snapshot.sample(lx+int(dx), ly+int(dy), lz+int(dz))
					if !b.isAirLike(neighborMat) {
						continue
					}
					layer := b.textureLayer(m, face)
					vertices := voxel.FaceVertices(face, uint8(lx), uint8(ly), uint8(lz), m.Rotation(), layer)
					out = append(out, vertices[:]...)
				}
			}
		}
	}
	return out
}
