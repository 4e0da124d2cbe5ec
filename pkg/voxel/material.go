// Package voxel defines the core data types shared by chunk storage and
// the mesh pipeline: the packed Material value, chunk/block coordinate
// math, face directions, rotation remap tables, and the packed GPU
// vertex format.
package voxel

import "fmt"

// Material is a 16-bit packed block value: bits 0-12 carry the block
// id (0 = air), bits 13-15 carry a rotation in [0,8).
type Material uint16

// Air is the zero Material: block id 0, rotation 0.
const Air Material = 0

const (
	blockIDBits  = 13
	blockIDMask  = (1 << blockIDBits) - 1
	rotationMask = (1 << 3) - 1
)

// PackMaterial packs a block id and rotation into a Material. id is
// truncated to 13 bits and rotation to 3 bits; callers are expected to
// pass values already in range (programming error otherwise, per the
// failure model in spec.md §7).
func PackMaterial(id uint16, rotation uint8) Material {
	return Material((id & blockIDMask) | (uint16(rotation&rotationMask) << blockIDBits))
}

// BlockID returns the block id carried by m.
func (m Material) BlockID() uint16 {
	return uint16(m) & blockIDMask
}

// Rotation returns the rotation tag carried by m, in [0,8).
func (m Material) Rotation() uint8 {
	return uint8(uint16(m) >> blockIDBits)
}

// IsAir reports whether m's block id is 0.
func (m Material) IsAir() bool {
	return m.BlockID() == 0
}

func (m Material) String() string {
	return fmt.Sprintf("Material(id=%d, rot=%d)", m.BlockID(), m.Rotation())
}

// RotationType classifies how a block's face textures remap under its
// stored rotation. It is a tagged union over three pure dispatch
// functions (RemapFaceForRotation) rather than an inheritance
// hierarchy, per spec.md §9.
type RotationType uint8

const (
	// RotationNone means the face texture table is used directly;
	// rotation bits are ignored.
	RotationNone RotationType = iota
	// RotationHorizontal means rotation in [0,3] selects one of four
	// yaw steps; UP/DOWN are unaffected.
	RotationHorizontal
	// RotationAxis means rotation in {4,5,6} selects which world axis
	// the block's "up" face was rotated onto.
	RotationAxis
)
