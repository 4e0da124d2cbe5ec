// Package terrain provides the default TerrainGenerator: a
// deterministic value-noise height map for terrain and prefab
// scattering for decoration.
package terrain

import (
	"math"

	"github.com/ridgeline-games/voxelworld/pkg/registry"
	"github.com/ridgeline-games/voxelworld/pkg/voxel"
	"github.com/ridgeline-games/voxelworld/pkg/world"
)

// Generator implements world.TerrainGenerator. It has no external
// dependency: height comes from a seeded value-noise field, and
// decoration places a single configurable prefab (a tree, by default)
// at low density wherever the surface is found.
type Generator struct {
	seed    int64
	blocks  *registry.BlockRegistry
	prefabs *registry.PrefabRegistry

	stoneID uint16
	dirtID  uint16
	grassID uint16

	baseHeight  float64
	heightScale float64
	noiseScale  float64
	treeDensity float64
	treePrefab  string
}

// NewGenerator builds a Generator seeded with seed, resolving its
// block ids from blocks. A "core:stone"/"core:dirt"/"core:grass" set
// is expected to already be registered.
func NewGenerator(seed int64, blocks *registry.BlockRegistry, prefabs *registry.PrefabRegistry) *Generator {
	return &Generator{
		seed:        seed,
		blocks:      blocks,
		prefabs:     prefabs,
		stoneID:     blocks.GetByName("core:stone"),
		dirtID:      blocks.GetByName("core:dirt"),
		grassID:     blocks.GetByName("core:grass"),
		baseHeight:  48,
		heightScale: 12,
		noiseScale:  0.02,
		treeDensity: 0.004,
		treePrefab:  "small_tree",
	}
}

func (g *Generator) hash2(x, z int64) uint64 {
	h := uint64(g.seed)*0x9E3779B97F4A7C15 + 1
	h ^= uint64(x) * 0xff51afd7ed558ccd
	h ^= h >> 33
	h ^= uint64(z) * 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return h
}

func (g *Generator) latticeValue(x, z int64) float64 {
	return float64(g.hash2(x, z)>>11) / float64(uint64(1)<<53)
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }
func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func (g *Generator) valueNoise2D(x, z float64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	tx := smoothstep(x - x0)
	tz := smoothstep(z - z0)

	v00 := g.latticeValue(int64(x0), int64(z0))
	v10 := g.latticeValue(int64(x0)+1, int64(z0))
	v01 := g.latticeValue(int64(x0), int64(z0)+1)
	v11 := g.latticeValue(int64(x0)+1, int64(z0)+1)

	top := lerp(v00, v10, tx)
	bottom := lerp(v01, v11, tx)
	return lerp(top, bottom, tz)
}

// fractalHeight sums four octaves of value noise, halving amplitude
// and doubling frequency each step, normalized back to [0,1).
func (g *Generator) fractalHeight(wx, wz int32) float64 {
	amplitude := 1.0
	frequency := g.noiseScale
	sum := 0.0
	norm := 0.0
	for octave := 0; octave < 4; octave++ {
		sum += g.valueNoise2D(float64(wx)*frequency, float64(wz)*frequency) * amplitude
		norm += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return sum / norm
}

// Generate populates a fresh chunk with stone/dirt/grass terrain from
// the height field, using direct writes only.
func (g *Generator) Generate(c *world.Chunk) {
	pos := c.Position()
	ox := pos.X * voxel.Size
	oy := pos.Y * voxel.Size
	oz := pos.Z * voxel.Size

	for lx := uint8(0); lx < voxel.Size; lx++ {
		for lz := uint8(0); lz < voxel.Size; lz++ {
			wx := ox + int32(lx)
			wz := oz + int32(lz)
			height := int32(g.baseHeight + g.fractalHeight(wx, wz)*g.heightScale)

			for ly := uint8(0); ly < voxel.Size; ly++ {
				wy := oy + int32(ly)
				if wy > height {
					continue
				}
				var id uint16
				switch {
				case wy == height:
					id = g.grassID
				case wy > height-4:
					id = g.dirtID
				default:
					id = g.stoneID
				}
				c.SetBlockDirect(lx, ly, lz, voxel.PackMaterial(id, 0))
			}
		}
	}
}

// Decorate scatters the configured prefab across the chunk at low
// density, finding the local surface height through the neighbor
// window so trees near a chunk edge still see accurate terrain.
func (g *Generator) Decorate(c *world.Chunk, neighbors *world.NeighborAccess) {
	prefab, ok := g.prefabs.Get(g.treePrefab)
	if !ok {
		return
	}
	pos := c.Position()
	ox := pos.X * voxel.Size
	oz := pos.Z * voxel.Size

	for lx := int32(0); lx < voxel.Size; lx++ {
		for lz := int32(0); lz < voxel.Size; lz++ {
			wx := ox + lx
			wz := oz + lz
			roll := g.latticeValue(int64(wx)*7919, int64(wz)*104729)
			if roll > g.treeDensity {
				continue
			}
			surfaceY := g.findSurface(neighbors, lx, lz)
			if surfaceY < 0 {
				continue
			}
			g.placePrefab(neighbors, prefab, lx, surfaceY+1, lz)
		}
	}
}

// findSurface scans downward through the decoration window's vertical
// extent (one chunk above and below the center) to find the highest
// non-air block in column (lx,lz), relative to the center chunk's
// local origin. Returns -1 if the column is entirely air.
func (g *Generator) findSurface(neighbors *world.NeighborAccess, lx, lz int32) int32 {
	for ly := int32(2*voxel.Size - 1); ly >= -voxel.Size; ly-- {
		if !neighbors.GetBlock(lx, ly, lz).IsAir() {
			return ly
		}
	}
	return -1
}

func (g *Generator) placePrefab(neighbors *world.NeighborAccess, prefab registry.Prefab, lx, ly, lz int32) {
	for _, placement := range prefab.Placements {
		id := g.blocks.GetByName(placement.Block)
		neighbors.SetBlock(lx+placement.DX, ly+placement.DY, lz+placement.DZ, voxel.PackMaterial(id, 0))
	}
}
