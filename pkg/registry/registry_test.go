package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestBlockRegistryUniformTextures(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blocks.yaml", `
blocks:
  - name: stone
    transparent: false
    hardness: 1.5
    rotation: none
    textures: [stone]
  - name: log
    transparent: false
    hardness: 2.0
    rotation: axis
    textures: [log_side, log_side, log_side, log_side, log_top, log_top]
`)

	r := NewBlockRegistry()
	require.NoError(t, LoadBlocksYAML(r, "core", path))

	stoneID := r.GetByName("core:stone")
	require.NotZero(t, stoneID)
	meta := r.Get(stoneID)
	require.False(t, meta.Transparent)
	require.Equal(t, "stone", meta.FaceTexture(voxel.FaceUp))
	require.Equal(t, "stone", meta.FaceTexture(voxel.FaceNorth))

	logID := r.GetByName("core:log")
	logMeta := r.Get(logID)
	require.Equal(t, voxel.RotationAxis, logMeta.Rotation)
	require.Equal(t, "log_top", logMeta.FaceTexture(voxel.FaceUp))
	require.Equal(t, "log_side", logMeta.FaceTexture(voxel.FaceNorth))

	require.True(t, r.IsAir(0))
	require.Equal(t, "core:air", r.Get(0).FullName())
}

func TestTextureRegistryMissingFallback(t *testing.T) {
	r := NewTextureRegistry()
	id, ok := r.GetByName("does-not-exist")
	require.False(t, ok)
	require.Equal(t, uint16(MissingTextureLayer), id)
	require.True(t, r.WarnOnce("does-not-exist"))
	require.False(t, r.WarnOnce("does-not-exist"))
}

func TestPrefabRegistryLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prefabs.yaml", `
prefabs:
  - name: small_tree
    blocks:
      - {dx: 0, dy: 0, dz: 0, block: "core:log"}
      - {dx: 0, dy: 1, dz: 0, block: "core:log"}
      - {dx: 1, dy: 2, dz: 0, block: "core:leaves"}
`)
	r := NewPrefabRegistry()
	require.NoError(t, LoadPrefabsYAML(r, path))

	p, ok := r.Get("small_tree")
	require.True(t, ok)
	require.Len(t, p.Placements, 3)
	require.Contains(t, r.Names(), "small_tree")
}
