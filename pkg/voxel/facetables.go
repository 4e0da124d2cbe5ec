package voxel

// horizontalFaceRemap[rotation][face] gives the world face a
// block-local horizontal face maps to under that rotation, face
// indexed north=0/south=1/west=2/east=3. Not a cyclic yaw step: row 1
// swaps opposite faces, row 2 is the forward quarter-turn, row 3 is
// the reverse quarter-turn.
var horizontalFaceRemap = [4][4]Face{
	{FaceNorth, FaceSouth, FaceWest, FaceEast},
	{FaceSouth, FaceNorth, FaceEast, FaceWest},
	{FaceEast, FaceWest, FaceNorth, FaceSouth},
	{FaceWest, FaceEast, FaceSouth, FaceNorth},
}

func horizontalFaceIndex(f Face) (int, bool) {
	switch f {
	case FaceNorth:
		return 0, true
	case FaceSouth:
		return 1, true
	case FaceWest:
		return 2, true
	case FaceEast:
		return 3, true
	default:
		return 0, false
	}
}

// RemapFaceForRotation maps a block-local face f to the world face its
// texture should be sampled from, given the block's RotationType and
// its stored rotation value (Material.Rotation(), in [0,8)). Dispatch
// is a plain switch rather than a rotated-block subtype hierarchy.
func RemapFaceForRotation(f Face, kind RotationType, rotation uint8) Face {
	switch kind {
	case RotationHorizontal:
		idx, ok := horizontalFaceIndex(f)
		if !ok {
			return f // UP/DOWN unchanged under horizontal yaw
		}
		return horizontalFaceRemap[int(rotation)%4][idx]

	case RotationAxis:
		switch rotation {
		case 4: // Y axis: identity
			return f
		case 5: // Z axis: swaps UP<->SOUTH, DOWN<->NORTH
			switch f {
			case FaceUp:
				return FaceSouth
			case FaceSouth:
				return FaceUp
			case FaceDown:
				return FaceNorth
			case FaceNorth:
				return FaceDown
			default:
				return f
			}
		case 6: // X axis: swaps UP<->EAST, DOWN<->WEST
			switch f {
			case FaceUp:
				return FaceEast
			case FaceEast:
				return FaceUp
			case FaceDown:
				return FaceWest
			case FaceWest:
				return FaceDown
			default:
				return f
			}
		default:
			return f
		}

	default: // RotationNone
		return f
	}
}
