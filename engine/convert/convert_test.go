package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/engine/convert"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

func TestBasicConvertMesh(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetBoundingRadius(2)

	target := render.NewScene()
	geom := target.CreateGeometry("cube.data", render.GeometryMesh)
	c := convert.NewBasic(convert.WithShaders(1, 2))

	require.NoError(t, c.ConvertGeometry(cube, geom, false))
	assert.Len(t, geom.Vertices, 8)
	assert.Len(t, geom.Indices, 36)
	for _, v := range geom.Vertices {
		// half-extent follows the bounding radius
		assert.InDelta(t, 2, abs(v.X()), 1e-6)
	}
}

func TestBasicConvertHairDeterministic(t *testing.T) {
	scene := host.NewMemScene()
	furry := scene.NewObject("furry", host.KindMesh)

	target := render.NewScene()
	a := target.CreateGeometry("a", render.GeometryHair)
	b := target.CreateGeometry("b", render.GeometryHair)
	c := convert.NewBasic(convert.WithStrands(8, 3))

	require.NoError(t, c.ConvertGeometry(furry, a, true))
	require.NoError(t, c.ConvertGeometry(furry, b, true))

	assert.Len(t, a.Vertices, 8*3)
	assert.Equal(t, a.Vertices, b.Vertices, "re-conversion of the same source is stable")
	assert.Empty(t, a.Indices)
}

func TestBasicBindShaders(t *testing.T) {
	scene := host.NewMemScene()
	smoke := scene.NewObject("smoke", host.KindVolume)

	target := render.NewScene()
	geom := target.CreateGeometry("smoke.data", render.GeometryVolume)
	c := convert.NewBasic(
		convert.WithShaders(1, 2),
		convert.WithNeededAttributes([]render.AttributeRequest{
			{Name: "density", Kind: render.AttributeObject},
		}),
	)

	require.NoError(t, c.BindShaders(smoke, geom, false))
	assert.Equal(t, []render.ShaderHandle{2}, geom.UsedShaders)
	require.Len(t, geom.NeededAttributes(), 1)
	assert.Equal(t, "density", geom.NeededAttributes()[0].Name)
	assert.Empty(t, geom.Vertices, "binding shaders does not build buffers")
}

func TestBasicConvertMotionCopiesVertices(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)

	target := render.NewScene()
	geom := target.CreateGeometry("cube.data", render.GeometryMesh)
	c := convert.NewBasic()

	require.NoError(t, c.ConvertGeometry(cube, geom, false))
	require.NoError(t, c.ConvertGeometryMotion(cube, geom, 0))
	require.NoError(t, c.ConvertGeometryMotion(cube, geom, 2))

	assert.Equal(t, geom.Vertices, geom.MotionVertices[0])
	assert.Equal(t, geom.Vertices, geom.MotionVertices[2])
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
