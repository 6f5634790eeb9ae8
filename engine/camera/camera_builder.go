package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithUp sets the camera's up vector.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithShutterTime sets the shutter open interval in frames.
//
// Parameters:
//   - shutter: the shutter time
//
// Returns:
//   - CameraBuilderOption: functional option to set the shutter time
func WithShutterTime(shutter float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.shutterTime = shutter
	}
}

// WithMotionSteps sets the number of camera motion samples per frame.
//
// Parameters:
//   - steps: the motion sample count, clamped to at least 1
//
// Returns:
//   - CameraBuilderOption: functional option to set the motion steps
func WithMotionSteps(steps int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.motionSteps = max(1, steps)
	}
}

// WithTransform sets the initial world transform.
//
// Parameters:
//   - tfm: the world transform
//
// Returns:
//   - CameraBuilderOption: functional option to set the transform
func WithTransform(tfm mgl32.Mat4) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.tfm = tfm
	}
}
