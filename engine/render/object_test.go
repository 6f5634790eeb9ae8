package render_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/render"
)

func TestObjectSettersDiff(t *testing.T) {
	s := render.NewScene()
	ob := s.CreateObject("suzanne")
	s.ClearModified()
	assert.False(t, ob.Modified())

	ob.SetPassID(0)
	ob.SetColor(mgl32.Vec3{})
	ob.SetVisibility(0)
	assert.False(t, ob.Modified(), "writing the stored values changes nothing")

	ob.SetPassID(3)
	assert.True(t, ob.Modified())

	s.ClearModified()
	ob.SetPassID(3)
	assert.False(t, ob.Modified(), "repeating the same value after a clear stays clean")
}

func TestObjectHoldoutTrackedSeparately(t *testing.T) {
	s := render.NewScene()
	ob := s.CreateObject("matte")
	s.ClearModified()

	ob.SetHoldout(true)
	assert.True(t, ob.Modified())
	assert.True(t, ob.HoldoutModified())

	s.ClearModified()
	assert.False(t, ob.HoldoutModified())
}

func TestObjectMotionTimesSymmetric(t *testing.T) {
	s := render.NewScene()
	ob := s.CreateObject("mover")
	ob.SetMotion(make([]mgl32.Mat4, 5))

	assert.True(t, ob.UseMotion())
	assert.Equal(t, float32(-1), ob.MotionTime(0))
	assert.Equal(t, float32(-0.5), ob.MotionTime(1))
	assert.Equal(t, float32(0), ob.MotionTime(2))
	assert.Equal(t, float32(0.5), ob.MotionTime(3))
	assert.Equal(t, float32(1), ob.MotionTime(4))

	assert.Equal(t, 3, ob.MotionStep(0.5))
	assert.Equal(t, -1, ob.MotionStep(0.3), "unknown offsets map to no step")
}

func TestObjectMotionDiff(t *testing.T) {
	s := render.NewScene()
	ob := s.CreateObject("mover")
	motion := make([]mgl32.Mat4, 3)
	for i := range motion {
		motion[i] = mgl32.Ident4()
	}
	ob.SetMotion(motion)
	s.ClearModified()

	same := make([]mgl32.Mat4, 3)
	for i := range same {
		same[i] = mgl32.Ident4()
	}
	ob.SetMotion(same)
	assert.False(t, ob.Modified(), "equal sample arrays do not re-raise modified")

	same[1] = mgl32.Translate3D(1, 0, 0)
	ob.SetMotion(same)
	assert.True(t, ob.Modified())

	same[1] = mgl32.Translate3D(2, 0, 0)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), ob.Motion()[1],
		"stored samples are decoupled from the caller's slice")
}

func TestObjectAttributes(t *testing.T) {
	s := render.NewScene()
	ob := s.CreateObject("props")

	ob.AppendAttribute(render.Attribute{Name: "density", Value: common.MakeFloat4Scalar(1)})
	ob.AppendAttribute(render.Attribute{Name: "age", Value: common.MakeFloat4Scalar(2)})

	attr := ob.FindAttribute("density")
	assert.NotNil(t, attr)
	assert.Equal(t, common.MakeFloat4Scalar(1), attr.Value)

	ob.RemoveAttributeAt(0)
	assert.Nil(t, ob.FindAttribute("density"))
	assert.NotNil(t, ob.FindAttribute("age"))
}

func TestSceneUpdateFlags(t *testing.T) {
	s := render.NewScene()
	before := s.UpdateCount()

	s.TagUpdate(render.UpdateObject | render.UpdateLight)
	assert.Equal(t, render.UpdateObject|render.UpdateLight, s.UpdateFlags())
	assert.Equal(t, before+1, s.UpdateCount())

	s.ClearUpdateFlags()
	assert.Equal(t, render.UpdateFlag(0), s.UpdateFlags())
	assert.Equal(t, before+1, s.UpdateCount(), "clearing flags keeps the monotone counter")
}

func TestSceneRelease(t *testing.T) {
	s := render.NewScene()
	ob := s.CreateObject("gone")
	g := s.CreateGeometry("gone.data", render.GeometryMesh)
	assert.Len(t, s.Objects(), 1)
	assert.Len(t, s.Geometries(), 1)

	s.ReleaseObject(ob)
	s.ReleaseGeometry(g)
	assert.Empty(t, s.Objects())
	assert.Empty(t, s.Geometries())
}
