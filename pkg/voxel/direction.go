package voxel

import "github.com/go-gl/mathgl/mgl32"

// Face identifies one of the six cube faces. The numeric order matches
// the normal-index encoding baked into PackedBlockVertex.
type Face uint8

const (
	FaceUp Face = iota
	FaceDown
	FaceNorth // -Z
	FaceSouth // +Z
	FaceEast  // +X
	FaceWest  // -X
)

// Faces lists all six faces in encoding order, for range loops over the
// 4096 cells of a chunk.
var Faces = [6]Face{FaceUp, FaceDown, FaceNorth, FaceSouth, FaceEast, FaceWest}

// Offset returns the unit (dx,dy,dz) step from a cell to its neighbor
// across f.
func (f Face) Offset() (dx, dy, dz int32) {
	switch f {
	case FaceUp:
		return 0, 1, 0
	case FaceDown:
		return 0, -1, 0
	case FaceNorth:
		return 0, 0, -1
	case FaceSouth:
		return 0, 0, 1
	case FaceEast:
		return 1, 0, 0
	case FaceWest:
		return -1, 0, 0
	default:
		return 0, 0, 0
	}
}

// Vector returns the unit normal vector for f.
func (f Face) Vector() mgl32.Vec3 {
	dx, dy, dz := f.Offset()
	return mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
}

// Opposite returns the face pointing the other way along the same axis.
func (f Face) Opposite() Face {
	switch f {
	case FaceUp:
		return FaceDown
	case FaceDown:
		return FaceUp
	case FaceNorth:
		return FaceSouth
	case FaceSouth:
		return FaceNorth
	case FaceEast:
		return FaceWest
	case FaceWest:
		return FaceEast
	default:
		return f
	}
}

func (f Face) String() string {
	switch f {
	case FaceUp:
		return "up"
	case FaceDown:
		return "down"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	default:
		return "unknown"
	}
}
