package common_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/lumen-render/lumen/common"
)

var TestSplitFrameCases = []struct {
	Time     float32
	Frame    int
	Subframe float32
}{
	{1.0, 1, 0},
	{1.25, 1, 0.25},
	{12.75, 12, 0.75},
	{0.5, 0, 0.5},
	{-0.25, -1, 0.75},
	{-2.5, -3, 0.5},
}

func TestSplitFrame(t *testing.T) {
	for _, tc := range TestSplitFrameCases {
		frame, subframe := common.SplitFrame(tc.Time)
		assert.Equal(t, tc.Frame, frame, "time %v", tc.Time)
		assert.InDelta(t, tc.Subframe, subframe, 1e-6, "time %v", tc.Time)
		assert.GreaterOrEqual(t, subframe, float32(0), "subframe stays in [0, 1)")
		assert.Less(t, subframe, float32(1))
	}
}

func TestComposeTransformTranslation(t *testing.T) {
	tfm := common.ComposeTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, common.TransformTranslation(tfm))
}

func TestTransformMaxScale(t *testing.T) {
	tfm := common.ComposeTransform(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{2, 0.5, 1})
	assert.InDelta(t, 2.0, common.TransformMaxScale(tfm), 1e-5)
}

func TestFrustumSphere(t *testing.T) {
	viewProj := common.LookAtProjection(
		mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0},
		mgl32.DegToRad(60), 1.0, 0.1, 100,
	)
	frustum := common.ExtractFrustum(viewProj)

	assert.True(t, frustum.ContainsPoint(mgl32.Vec3{0, 0, 0}), "look target is inside")
	assert.True(t, frustum.IntersectsSphere(mgl32.Vec3{0, 0, 0}, 1))
	assert.False(t, frustum.IntersectsSphere(mgl32.Vec3{0, 0, 50}, 1), "behind the eye")
	assert.False(t, frustum.IntersectsSphere(mgl32.Vec3{500, 0, 0}, 1), "far outside the side planes")
	assert.True(t, frustum.IntersectsSphere(mgl32.Vec3{0, 0, -91}, 5), "straddles the far plane")
}

func TestHashStringStable(t *testing.T) {
	assert.Equal(t, common.HashString("suzanne"), common.HashString("suzanne"))
	assert.NotEqual(t, common.HashString("suzanne"), common.HashString("suzanne.001"))
}

func TestHashUint2Mixes(t *testing.T) {
	assert.NotEqual(t, common.HashUint2(1, 0), common.HashUint2(2, 0))
	assert.NotEqual(t, common.HashUint2(1, 0), common.HashUint2(0, 1))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, float32(0.5), common.Coalesce(float32(0), 0.5))
	assert.Equal(t, float32(0.2), common.Coalesce(float32(0.2), 0.5))
	assert.Equal(t, "", common.Coalesce("", ""))
}
