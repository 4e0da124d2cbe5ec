package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemapFaceHorizontalIdentity(t *testing.T) {
	for _, f := range Faces {
		require.Equal(t, f, RemapFaceForRotation(f, RotationHorizontal, 0))
	}
}

func TestRemapFaceHorizontalCycle(t *testing.T) {
	// Rotation 1 swaps opposite faces, so applying it four times returns
	// to the original face.
	for _, f := range []Face{FaceNorth, FaceEast, FaceSouth, FaceWest} {
		cur := f
		for step := 0; step < 4; step++ {
			cur = RemapFaceForRotation(cur, RotationHorizontal, 1)
		}
		require.Equal(t, f, cur)
	}
	// UP/DOWN are unaffected by horizontal yaw.
	require.Equal(t, FaceUp, RemapFaceForRotation(FaceUp, RotationHorizontal, 2))
	require.Equal(t, FaceDown, RemapFaceForRotation(FaceDown, RotationHorizontal, 3))
}

func TestRemapFaceHorizontalRotationOne(t *testing.T) {
	// rotation 1 swaps opposite faces: NORTH<->SOUTH, WEST<->EAST.
	require.Equal(t, FaceSouth, RemapFaceForRotation(FaceNorth, RotationHorizontal, 1))
	require.Equal(t, FaceNorth, RemapFaceForRotation(FaceSouth, RotationHorizontal, 1))
	require.Equal(t, FaceEast, RemapFaceForRotation(FaceWest, RotationHorizontal, 1))
	require.Equal(t, FaceWest, RemapFaceForRotation(FaceEast, RotationHorizontal, 1))
}

func TestRemapFaceHorizontalRotationTwo(t *testing.T) {
	// rotation 2 is the forward quarter-turn: NORTH->EAST->SOUTH->WEST->NORTH.
	require.Equal(t, FaceEast, RemapFaceForRotation(FaceNorth, RotationHorizontal, 2))
	require.Equal(t, FaceWest, RemapFaceForRotation(FaceSouth, RotationHorizontal, 2))
	require.Equal(t, FaceNorth, RemapFaceForRotation(FaceWest, RotationHorizontal, 2))
	require.Equal(t, FaceSouth, RemapFaceForRotation(FaceEast, RotationHorizontal, 2))
}

func TestRemapFaceHorizontalRotationThree(t *testing.T) {
	// rotation 3 is the reverse quarter-turn: NORTH->WEST->SOUTH->EAST->NORTH.
	require.Equal(t, FaceWest, RemapFaceForRotation(FaceNorth, RotationHorizontal, 3))
	require.Equal(t, FaceEast, RemapFaceForRotation(FaceSouth, RotationHorizontal, 3))
	require.Equal(t, FaceSouth, RemapFaceForRotation(FaceWest, RotationHorizontal, 3))
	require.Equal(t, FaceNorth, RemapFaceForRotation(FaceEast, RotationHorizontal, 3))
}

func TestRemapFaceAxis(t *testing.T) {
	// rotation 4: Y axis, identity.
	for _, f := range Faces {
		require.Equal(t, f, RemapFaceForRotation(f, RotationAxis, 4))
	}
	// rotation 5: Z axis swaps UP<->SOUTH, DOWN<->NORTH.
	require.Equal(t, FaceSouth, RemapFaceForRotation(FaceUp, RotationAxis, 5))
	require.Equal(t, FaceUp, RemapFaceForRotation(FaceSouth, RotationAxis, 5))
	require.Equal(t, FaceNorth, RemapFaceForRotation(FaceDown, RotationAxis, 5))
	require.Equal(t, FaceEast, RemapFaceForRotation(FaceEast, RotationAxis, 5))
	// rotation 6: X axis swaps UP<->EAST, DOWN<->WEST.
	require.Equal(t, FaceEast, RemapFaceForRotation(FaceUp, RotationAxis, 6))
	require.Equal(t, FaceUp, RemapFaceForRotation(FaceEast, RotationAxis, 6))
	require.Equal(t, FaceWest, RemapFaceForRotation(FaceDown, RotationAxis, 6))
}

func TestRemapFaceNone(t *testing.T) {
	for _, f := range Faces {
		require.Equal(t, f, RemapFaceForRotation(f, RotationNone, 5))
	}
}
