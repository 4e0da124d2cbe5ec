package voxel

import "github.com/go-gl/mathgl/mgl32"

// Size is the chunk edge length in blocks.
const Size = 16

// Volume is the number of blocks in a chunk (S^3).
const Volume = Size * Size * Size

// ChunkPos is an integer triple in chunk-space.
type ChunkPos struct {
	X, Y, Z int32
}

// BlockPos is a local block coordinate in [0, Size) per axis.
type BlockPos struct {
	X, Y, Z uint8
}

// Add returns p shifted by (dx,dy,dz) chunks.
func (p ChunkPos) Add(dx, dy, dz int32) ChunkPos {
	return ChunkPos{p.X + dx, p.Y + dy, p.Z + dz}
}

// WorldToChunkPos decomposes a world block coordinate into its
// containing ChunkPos using an arithmetic (floor) shift, so negative
// coordinates behave correctly.
func WorldToChunkPos(wx, wy, wz int32) ChunkPos {
	return ChunkPos{wx >> 4, wy >> 4, wz >> 4}
}

// WorldToBlockPos decomposes a world block coordinate into its local
// BlockPos within the containing chunk.
func WorldToBlockPos(wx, wy, wz int32) BlockPos {
	return BlockPos{uint8(wx & 15), uint8(wy & 15), uint8(wz & 15)}
}

// WorldOrigin returns the world-space corner of the chunk at p.
func (p ChunkPos) WorldOrigin() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X * Size), float32(p.Y * Size), float32(p.Z * Size)}
}

// WorldCenter returns the world-space center of the chunk at p, used
// for distance-to-player ordering of terrain/decoration/mesh jobs.
func (p ChunkPos) WorldCenter() mgl32.Vec3 {
	origin := p.WorldOrigin()
	half := float32(Size) / 2
	return mgl32.Vec3{origin.X() + half, origin.Y() + half, origin.Z() + half}
}

// LocalIndex converts local block coordinates to a flat array index:
// i = lx + S*(ly + S*lz).
func LocalIndex(x, y, z uint8) int {
	return int(x) + Size*(int(y)+Size*int(z))
}

// IndexToLocal is the inverse of LocalIndex.
func IndexToLocal(i int) BlockPos {
	x := i % Size
	i /= Size
	y := i % Size
	z := i / Size
	return BlockPos{uint8(x), uint8(y), uint8(z)}
}

// InBounds reports whether x,y,z are all within [0, Size).
func InBounds(x, y, z int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size && z >= 0 && z < Size
}
