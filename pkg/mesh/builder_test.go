package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/voxelworld/pkg/registry"
	"github.com/ridgeline-games/voxelworld/pkg/voxel"
	"github.com/ridgeline-games/voxelworld/pkg/world"
)

func newTestBuilder(t *testing.T) (*builder, uint16, uint16) {
	t.Helper()
	dir := t.TempDir()
	blocksPath := filepath.Join(dir, "blocks.yaml")
	texturesPath := filepath.Join(dir, "textures.yaml")

	require.NoError(t, os.WriteFile(blocksPath, []byte(`
blocks:
  - name: stone
    transparent: false
    textures: [stone]
  - name: glass
    transparent: true
    textures: [glass]
`), 0o644))
	require.NoError(t, os.WriteFile(texturesPath, []byte(`
textures: [stone, glass]
`), 0o644))

	blocks := registry.NewBlockRegistry()
	require.NoError(t, registry.LoadBlocksYAML(blocks, "core", blocksPath))
	textures := registry.NewTextureRegistry()
	require.NoError(t, registry.LoadTexturesYAML(textures, texturesPath))

	b := newBuilder(blocks, textures)
	stoneID := blocks.GetByName("core:stone")
	glassID := blocks.GetByName("core:glass")
	return b, stoneID, glassID
}

func emptySnapshot() *chunkSnapshot {
	return &chunkSnapshot{}
}

func TestBuildCullsFaceBetweenTwoOpaqueBlocks(t *testing.T) {
	b, stoneID, _ := newTestBuilder(t)
	snap := emptySnapshot()
	snap.center[voxel.LocalIndex(5, 5, 5)] = voxel.PackMaterial(stoneID, 0)
	snap.center[voxel.LocalIndex(6, 5, 5)] = voxel.PackMaterial(stoneID, 0)

	vertices := b.build(snap)

	for _, v := range vertices {
		x, y, z, _, _, normal, _, _ := v.Unpack()
		// The shared face lies in the plane x == 6; block 5's outer west
		// face (at x == 5) borders air and is legitimately emitted.
		if y == 5 && z == 5 && x == 6 {
			require.NotEqual(t, voxel.FaceEast, normal, "east face between two opaque blocks must be culled")
			require.NotEqual(t, voxel.FaceWest, normal, "west face between two opaque blocks must be culled")
		}
	}
}

func TestBuildEmitsFaceAgainstTransparentNeighbor(t *testing.T) {
	b, stoneID, glassID := newTestBuilder(t)
	snap := emptySnapshot()
	snap.center[voxel.LocalIndex(5, 5, 5)] = voxel.PackMaterial(stoneID, 0)
	snap.center[voxel.LocalIndex(6, 5, 5)] = voxel.PackMaterial(glassID, 0)

	vertices := b.build(snap)

	foundEastFaceOnStone := false
	for _, v := range vertices {
		x, y, z, _, _, normal, _, _ := v.Unpack()
		if y == 5 && z == 5 && x == 6 && normal == voxel.FaceEast {
			foundEastFaceOnStone = true
		}
	}
	require.True(t, foundEastFaceOnStone, "stone's east face against a transparent neighbor must be emitted")
}

func TestBuildEmitsFaceAtChunkBoundaryWithNoNeighborLoaded(t *testing.T) {
	b, stoneID, _ := newTestBuilder(t)
	snap := emptySnapshot()
	snap.center[voxel.LocalIndex(voxel.Size-1, 0, 0)] = voxel.PackMaterial(stoneID, 0)

	vertices := b.build(snap)

	foundEastFace := false
	for _, v := range vertices {
		_, _, _, _, _, normal, _, _ := v.Unpack()
		if normal == voxel.FaceEast {
			foundEastFace = true
		}
	}
	require.True(t, foundEastFace, "an unloaded neighbor must be treated as air, not as solid")
}

func TestBuildCullsFaceAgainstLoadedSolidNeighbor(t *testing.T) {
	b, stoneID, _ := newTestBuilder(t)
	snap := emptySnapshot()
	snap.center[voxel.LocalIndex(voxel.Size-1, 0, 0)] = voxel.PackMaterial(stoneID, 0)

	var neighborBlocks world.BlockStorage
	neighborBlocks[voxel.LocalIndex(0, 0, 0)] = voxel.PackMaterial(stoneID, 0)
	snap.neighbors[voxel.FaceEast] = neighborSnapshot{exists: true, blocks: neighborBlocks}

	vertices := b.build(snap)

	for _, v := range vertices {
		x, y, z, _, _, normal, _, _ := v.Unpack()
		// East-face vertices of the block at x == Size-1 sit at x == Size.
		if x == voxel.Size && y == 0 && z == 0 {
			require.NotEqual(t, voxel.FaceEast, normal, "face must be culled against a loaded solid neighbor cell")
		}
	}
}

func TestWrapToNeighborMapsEachBoundaryToItsOpposingFace(t *testing.T) {
	face, lx, ly, lz, ok := wrapToNeighbor(-1, 3, 4)
	require.True(t, ok)
	require.Equal(t, voxel.FaceWest, face)
	require.Equal(t, uint8(voxel.Size-1), lx)
	require.Equal(t, uint8(3), ly)
	require.Equal(t, uint8(4), lz)

	face, lx, ly, lz, ok = wrapToNeighbor(voxel.Size, 3, 4)
	require.True(t, ok)
	require.Equal(t, voxel.FaceEast, face)
	require.Equal(t, uint8(0), lx)
	require.Equal(t, uint8(3), ly)
	require.Equal(t, uint8(4), lz)

	_, _, _, _, ok = wrapToNeighbor(3, 3, 4)
	require.False(t, ok, "an in-bounds coordinate is never a wrap case")
}

func TestTextureLayerFallsBackToMissingForUnregisteredBlock(t *testing.T) {
	b, stoneID, _ := newTestBuilder(t)
	m := voxel.PackMaterial(stoneID, 0)
	layer := b.textureLayer(m, voxel.FaceUp)
	require.NotEqual(t, uint16(0), layer, "stone's registered texture must resolve to a real layer")

	unregistered := voxel.PackMaterial(9999, 0)
	require.Equal(t, uint16(registry.MissingTextureLayer), b.textureLayer(unregistered, voxel.FaceUp))
}
