package voxel

// PackedBlockVertex is a bit-packed per-vertex payload for the mesh
// pipeline: 5 bits per local position axis, 3 bits normal, 3 bits
// rotation, 1 bit per uv axis, and a 16-bit texture-array layer id.
// That field set needs 39 bits total, so this is a single uint64
// rather than a narrower word with a second packed field per vertex.
type PackedBlockVertex uint64

const (
	vtxPosBits  = 5
	vtxPosMask  = (1 << vtxPosBits) - 1
	vtxNormBits = 3
	vtxNormMask = (1 << vtxNormBits) - 1
	vtxRotBits  = 3
	vtxRotMask  = (1 << vtxRotBits) - 1
	vtxTexBits  = 16
	vtxTexMask  = (1 << vtxTexBits) - 1

	shiftX    = 0
	shiftY    = shiftX + vtxPosBits
	shiftZ    = shiftY + vtxPosBits
	shiftU    = shiftZ + vtxPosBits
	shiftV    = shiftU + 1
	shiftNorm = shiftV + 1
	shiftRot  = shiftNorm + vtxNormBits
	shiftTex  = shiftRot + vtxRotBits
)

// PackVertex packs one mesh vertex. x,y,z are local positions in
// [0,16] (a face on the chunk's far edge needs the value 16, hence 5
// bits rather than 4). u,v are 0 or 1. normal is a Face. rotation is
// the source block's Material.Rotation(). texLayer is the texture
// array layer id resolved from the BlockMeta/face/rotation lookup.
func PackVertex(x, y, z uint8, u, v uint8, normal Face, rotation uint8, texLayer uint16) PackedBlockVertex {
	return PackedBlockVertex(
		uint64(x&vtxPosMask)<<shiftX |
			uint64(y&vtxPosMask)<<shiftY |
			uint64(z&vtxPosMask)<<shiftZ |
			uint64(u&1)<<shiftU |
			uint64(v&1)<<shiftV |
			uint64(uint8(normal)&vtxNormMask)<<shiftNorm |
			uint64(rotation&vtxRotMask)<<shiftRot |
			uint64(texLayer&vtxTexMask)<<shiftTex,
	)
}

// Unpack decomposes a PackedBlockVertex back into its fields.
func (v PackedBlockVertex) Unpack() (x, y, z, u, vv uint8, normal Face, rotation uint8, texLayer uint16) {
	x = uint8(v>>shiftX) & vtxPosMask
	y = uint8(v>>shiftY) & vtxPosMask
	z = uint8(v>>shiftZ) & vtxPosMask
	u = uint8(v>>shiftU) & 1
	vv = uint8(v>>shiftV) & 1
	normal = Face(uint8(v>>shiftNorm) & vtxNormMask)
	rotation = uint8(v>>shiftRot) & vtxRotMask
	texLayer = uint16(v>>shiftTex) & vtxTexMask
	return
}

// cornerOffset is one corner of a unit quad: a local (x,y,z) offset in
// {0,1} and a (u,v) texture coordinate in {0,1}.
type cornerOffset struct {
	x, y, z uint8
	u, v    uint8
}

// faceCorners gives the four corners of each face in counter-clockwise
// winding order as seen from outside the cube. faceTriOrder turns the
// four corners into the six vertices of two triangles (0,1,2) and (0,2,3).
var faceTriOrder = [6]int{0, 1, 2, 0, 2, 3}

var faceCorners = map[Face][4]cornerOffset{
	FaceUp: {
		{0, 1, 0, 0, 0}, {0, 1, 1, 0, 1}, {1, 1, 1, 1, 1}, {1, 1, 0, 1, 0},
	},
	FaceDown: {
		{0, 0, 0, 0, 0}, {1, 0, 0, 1, 0}, {1, 0, 1, 1, 1}, {0, 0, 1, 0, 1},
	},
	FaceNorth: { // -Z
		{1, 0, 0, 0, 0}, {0, 0, 0, 1, 0}, {0, 1, 0, 1, 1}, {1, 1, 0, 0, 1},
	},
	FaceSouth: { // +Z
		{0, 0, 1, 0, 0}, {1, 0, 1, 1, 0}, {1, 1, 1, 1, 1}, {0, 1, 1, 0, 1},
	},
	FaceEast: { // +X
		{1, 0, 0, 0, 0}, {1, 1, 0, 0, 1}, {1, 1, 1, 1, 1}, {1, 0, 1, 1, 0},
	},
	FaceWest: { // -X
		{0, 0, 1, 0, 0}, {0, 1, 1, 0, 1}, {0, 1, 0, 1, 1}, {0, 0, 0, 1, 0},
	},
}

// FaceVertices returns the six packed vertices (two triangles) for one
// visible face of a block at local (x,y,z), with the given world-space
// normal, the block's stored rotation, and its resolved texture layer.
func FaceVertices(face Face, x, y, z uint8, rotation uint8, texLayer uint16) [6]PackedBlockVertex {
	corners := faceCorners[face]
	var out [6]PackedBlockVertex
	for i, ci := range faceTriOrder {
		c := corners[ci]
		out[i] = PackVertex(x+c.x, y+c.y, z+c.z, c.u, c.v, face, rotation, texLayer)
	}
	return out
}
