package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ComposeTransform constructs a 4x4 world matrix from position, Euler
// rotation, and scale. The rotation order is Y * X * Z (yaw-pitch-roll),
// column-major, matching the convention host scenes author transforms in.
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the composed world matrix
func ComposeTransform(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	rot := mgl32.Rotate3DY(rotation.Y()).
		Mul3(mgl32.Rotate3DX(rotation.X())).
		Mul3(mgl32.Rotate3DZ(rotation.Z()))

	m := rot.Mat4()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] *= scale[col]
		}
	}
	m[12] = position.X()
	m[13] = position.Y()
	m[14] = position.Z()
	return m
}

// TransformTranslation extracts the translation column of a world matrix.
func TransformTranslation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// TransformMaxScale returns the largest axis scale factor encoded in a world
// matrix. Used to scale bounding radii through object transforms.
func TransformMaxScale(m mgl32.Mat4) float32 {
	sx := mgl32.Vec3{m[0], m[1], m[2]}.Len()
	sy := mgl32.Vec3{m[4], m[5], m[6]}.Len()
	sz := mgl32.Vec3{m[8], m[9], m[10]}.Len()
	return float32(math.Max(float64(sx), math.Max(float64(sy), float64(sz))))
}

// LookAtProjection builds a combined view-projection matrix for a simple
// perspective camera. fovY is in radians.
func LookAtProjection(eye, center, up mgl32.Vec3, fovY, aspect, near, far float32) mgl32.Mat4 {
	proj := mgl32.Perspective(fovY, aspect, near, far)
	view := mgl32.LookAtV(eye, center, up)
	return proj.Mul4(view)
}

// SplitFrame splits an absolute scene time into an integer frame and a
// fractional subframe in [0, 1).
func SplitFrame(time float32) (int, float32) {
	frame := int(math.Floor(float64(time)))
	return frame, time - float32(frame)
}
