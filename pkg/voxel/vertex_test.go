package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackVertexRoundTrip(t *testing.T) {
	cases := []struct {
		x, y, z  uint8
		u, v     uint8
		normal   Face
		rotation uint8
		texLayer uint16
	}{
		{0, 0, 0, 0, 0, FaceUp, 0, 0},
		{16, 16, 16, 1, 1, FaceWest, 7, 65535},
		{5, 9, 12, 1, 0, FaceEast, 4, 1234},
	}
	for _, c := range cases {
		packed := PackVertex(c.x, c.y, c.z, c.u, c.v, c.normal, c.rotation, c.texLayer)
		x, y, z, u, v, normal, rotation, texLayer := packed.Unpack()
		require.Equal(t, c.x, x)
		require.Equal(t, c.y, y)
		require.Equal(t, c.z, z)
		require.Equal(t, c.u, u)
		require.Equal(t, c.v, v)
		require.Equal(t, c.normal, normal)
		require.Equal(t, c.rotation, rotation)
		require.Equal(t, c.texLayer, texLayer)
	}
}

func TestFaceVerticesEmitsTwoTriangles(t *testing.T) {
	for _, f := range Faces {
		verts := FaceVertices(f, 3, 3, 3, 0, 42)
		require.Len(t, verts, 6)
		for _, pv := range verts {
			_, _, _, _, _, normal, _, texLayer := pv.Unpack()
			require.Equal(t, f, normal)
			require.Equal(t, uint16(42), texLayer)
		}
	}
}
