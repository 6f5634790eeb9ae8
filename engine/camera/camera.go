package camera

import (
	"math"
	stdsync "sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/host"
)

type cameraImpl struct {
	mu *stdsync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	tfm mgl32.Mat4

	shutterTime float32
	motionSteps int

	viewProjection mgl32.Mat4
	frustum        common.Frustum

	modified bool
}

// Camera tracks the host viewpoint and derives the matrices the culling and
// motion stages consume. Update pulls the current transform from a host
// camera object; everything else is recomputed lazily from the stored state.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ShutterTime returns the shutter open interval in frames.
	//
	// Returns:
	//   - float32: the shutter time
	ShutterTime() float32

	// MotionSteps returns the number of camera motion samples per frame.
	//
	// Returns:
	//   - int: the motion sample count, at least 1
	MotionSteps() int

	// Transform returns the camera's world transform from the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	Transform() mgl32.Mat4

	// ViewProjectionMatrix returns the combined view-projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the view frustum extracted from the current
	// view-projection matrix, for visibility culling.
	//
	// Returns:
	//   - common.Frustum: the six-plane view frustum
	Frustum() common.Frustum

	// Modified reports whether the viewpoint changed since the last
	// ClearModified.
	//
	// Returns:
	//   - bool: true when the transform or lens changed
	Modified() bool

	// ClearModified resets the modified flag. Called after consumers have
	// observed the change.
	ClearModified()

	// Update pulls the world transform from a host camera object and
	// recomputes the derived matrices. A nil object leaves the viewpoint
	// unchanged.
	//
	// Parameters:
	//   - ob: the host camera object or nil
	Update(ob host.Object)

	// SetFov sets the vertical field of view in radians and recomputes
	// matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes
	// matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetShutterTime sets the shutter open interval in frames.
	//
	// Parameters:
	//   - shutter: the shutter time
	SetShutterTime(shutter float32)

	// SetMotionSteps sets the number of camera motion samples per frame.
	// Values below 1 are clamped to 1.
	//
	// Parameters:
	//   - steps: the motion sample count
	SetMotionSteps(steps int)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with default perspective settings looking down
// the negative Z axis from the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &stdsync.Mutex{},
		up:          mgl32.Vec3{0, 1, 0},
		fov:         45.0 * (math.Pi / 180.0), // radians
		aspect:      1.0,
		near:        0.1,
		far:         100.0,
		tfm:         mgl32.Ident4(),
		shutterTime: 1.0,
		motionSteps: 1,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ShutterTime() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutterTime
}

func (c *cameraImpl) MotionSteps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.motionSteps
}

func (c *cameraImpl) Transform() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tfm
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum
}

func (c *cameraImpl) Modified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modified
}

func (c *cameraImpl) ClearModified() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modified = false
}

func (c *cameraImpl) Update(ob host.Object) {
	if ob == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	tfm := ob.MatrixWorld()
	if tfm == c.tfm {
		return
	}
	c.tfm = tfm
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fov == fov {
		return
	}
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aspect == aspect {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetShutterTime(shutter float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutterTime = shutter
}

func (c *cameraImpl) SetMotionSteps(steps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.motionSteps = max(1, steps)
}

// updateMatrices recalculates the view-projection matrix and frustum from the
// stored transform and lens. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	eye := common.TransformTranslation(c.tfm)
	// The camera looks down its local -Z axis; rotate it by the world
	// transform to get the view direction.
	forward := c.tfm.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()

	c.viewProjection = common.LookAtProjection(
		eye, eye.Add(forward), c.up,
		c.fov, c.aspect, c.near, c.far,
	)
	c.frustum = common.ExtractFrustum(c.viewProjection)
	c.modified = true
}
