package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine"
	"github.com/lumen-render/lumen/engine/camera"
	"github.com/lumen-render/lumen/engine/cull"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/sync"
)

// BuildScene materializes the object blocks into an in-memory host scene.
// Objects are created in file order; parent and instancer references may
// point at any block regardless of order.
func (c *Config) BuildScene() (*host.MemScene, error) {
	scene := host.NewMemScene()
	byName := make(map[string]*host.MemObject, len(c.Objects))

	for _, block := range c.Objects {
		kind, err := parseKind(block.Kind)
		if err != nil {
			return nil, fmt.Errorf("config: object %q: %w", block.Name, err)
		}
		ob := scene.NewObject(block.Name, kind)
		byName[block.Name] = ob

		ob.SetTransform(common.ComposeTransform(
			vec3(block.Position, mgl32.Vec3{}),
			vec3(block.Rotation, mgl32.Vec3{}).Mul(mgl32.DegToRad(1)),
			vec3(block.Scale, mgl32.Vec3{1, 1, 1}),
		))
		ob.SetPassIndex(block.PassIndex)
		if len(block.Color) > 0 {
			ob.SetColor(vec3(block.Color, mgl32.Vec3{0.8, 0.8, 0.8}))
		}
		vis, err := parseVisibility(block.Hidden)
		if err != nil {
			return nil, fmt.Errorf("config: object %q: %w", block.Name, err)
		}
		ob.SetRayVisibility(vis)
		ob.SetHoldout(block.Holdout)
		ob.SetShadowCatcher(block.ShadowCatcher)
		if block.Viewport != nil {
			ob.SetViewportVisible(*block.Viewport)
		}
		if block.MotionSteps > 0 {
			ob.SetMotionBlur(block.MotionSteps)
		}
		if block.DeformMotion != nil {
			ob.SetDeformMotion(*block.DeformMotion)
		}
		if block.BoundingRadius > 0 {
			ob.SetBoundingRadius(float32(block.BoundingRadius))
		}
		for name, value := range block.Properties {
			if kind == host.KindLight {
				// Light parameters live on the datablock, where light sync
				// reads them.
				ob.SetDataProperty(name, common.MakeFloat4Scalar(float32(value)))
				continue
			}
			ob.SetProperty(name, common.MakeFloat4Scalar(float32(value)))
		}
	}

	// Second pass: references between blocks.
	for _, block := range c.Objects {
		ob := byName[block.Name]
		if block.Parent != "" {
			parent, ok := byName[block.Parent]
			if !ok {
				return nil, fmt.Errorf("config: object %q: unknown parent %q", block.Name, block.Parent)
			}
			ob.SetParent(parent)
		}
		for _, inst := range block.Instancers {
			target, ok := byName[inst.Object]
			if !ok {
				return nil, fmt.Errorf("config: object %q: unknown instanced object %q", block.Name, inst.Object)
			}
			scene.AddInstancer(ob, target, inst.Count)
			if inst.Hair {
				target.SetParticleHair(true)
			}
		}
	}

	if c.Camera != nil {
		cam := scene.NewObject("camera", host.KindCamera)
		cam.SetTransform(mgl32.Translate3D(
			float32(index(c.Camera.Position, 0)),
			float32(index(c.Camera.Position, 1)),
			float32(index(c.Camera.Position, 2)),
		))
		scene.SetCamera(cam)
	}

	if c.Layer != nil {
		for _, name := range c.Layer.Holdout {
			ob, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("config: layer holdout references unknown object %q", name)
			}
			scene.SetLayerHoldout(ob, true)
		}
		for _, name := range c.Layer.IndirectOnly {
			ob, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("config: layer indirect_only references unknown object %q", name)
			}
			scene.SetLayerIndirectOnly(ob, true)
		}
	}

	return scene, nil
}

// SyncOptions translates the session and camera blocks into synchronizer
// options. The scene provides the frame setter and, when culling is enabled,
// the camera viewpoint.
func (c *Config) SyncOptions(scene *host.MemScene) ([]sync.Option, error) {
	options := []sync.Option{sync.WithFrameSetter(scene)}
	s := c.Session
	if s == nil {
		return options, nil
	}

	if s.Workers > 0 {
		options = append(options, sync.WithWorkers(s.Workers))
	}
	if s.ShowLights != nil {
		options = append(options, sync.WithShowLights(*s.ShowLights))
	}
	if s.MaxMotionSteps > 0 {
		options = append(options, sync.WithMaxMotionSteps(s.MaxMotionSteps))
	}

	switch s.Motion {
	case "", "none":
	case "pass":
		options = append(options, sync.WithMotionPass())
	case "blur":
		position, err := parseMotionPosition(s.MotionPosition)
		if err != nil {
			return nil, err
		}
		shutter := common.Coalesce(max(float32(s.Shutter), 0), 0.5)
		options = append(options, sync.WithMotionBlur(shutter, position))
	default:
		return nil, fmt.Errorf("config: unknown motion mode %q", s.Motion)
	}

	if s.CullMargin > 0 {
		cam := c.buildCamera()
		cam.Update(scene.Camera())
		options = append(options, sync.WithCuller(cull.NewFrustum(
			cam.ViewProjectionMatrix(), float32(s.CullMargin),
		)))
	}

	return options, nil
}

// SessionOptions translates the session block into frame-loop options.
func (c *Config) SessionOptions() []engine.SessionBuilderOption {
	s := c.Session
	if s == nil {
		return nil
	}
	options := []engine.SessionBuilderOption{
		engine.WithProfiling(s.Profile),
	}
	if s.FPS > 0 {
		options = append(options, engine.WithTickRate(s.FPS))
	}
	if s.FrameStart > 0 || s.FrameEnd > 0 {
		options = append(options, engine.WithFrameRange(max(1, s.FrameStart), s.FrameEnd))
	}
	return options
}

// buildCamera constructs the viewpoint tracker from the camera block,
// falling back to defaults for absent fields.
func (c *Config) buildCamera() camera.Camera {
	var options []camera.CameraBuilderOption
	if b := c.Camera; b != nil {
		if b.Fov > 0 {
			options = append(options, camera.WithFov(mgl32.DegToRad(float32(b.Fov))))
		}
		if b.Aspect > 0 {
			options = append(options, camera.WithAspect(float32(b.Aspect)))
		}
		if b.Near > 0 && b.Far > b.Near {
			options = append(options, camera.WithClipPlanes(float32(b.Near), float32(b.Far)))
		}
	}
	return camera.NewCamera(options...)
}

func parseKind(kind string) (host.ObjectKind, error) {
	switch kind {
	case "", "mesh":
		return host.KindMesh, nil
	case "curve":
		return host.KindCurve, nil
	case "metaball":
		return host.KindMetaball, nil
	case "volume":
		return host.KindVolume, nil
	case "pointcloud":
		return host.KindPointCloud, nil
	case "light":
		return host.KindLight, nil
	case "empty":
		return host.KindEmpty, nil
	default:
		return host.KindEmpty, fmt.Errorf("unknown kind %q", kind)
	}
}

func parseVisibility(hidden []string) (host.RayVisibility, error) {
	vis := host.AllVisible
	for _, category := range hidden {
		switch category {
		case "camera":
			vis.Camera = false
		case "diffuse":
			vis.Diffuse = false
		case "glossy":
			vis.Glossy = false
		case "transmission":
			vis.Transmission = false
		case "shadow":
			vis.Shadow = false
		case "scatter":
			vis.VolumeScatter = false
		default:
			return vis, fmt.Errorf("unknown ray category %q", category)
		}
	}
	return vis, nil
}

func parseMotionPosition(position string) (sync.MotionPosition, error) {
	switch position {
	case "", "center":
		return sync.MotionPositionCenter, nil
	case "start":
		return sync.MotionPositionStart, nil
	case "end":
		return sync.MotionPositionEnd, nil
	default:
		return sync.MotionPositionCenter, fmt.Errorf("config: unknown motion position %q", position)
	}
}

func vec3(values []float64, fallback mgl32.Vec3) mgl32.Vec3 {
	if len(values) < 3 {
		return fallback
	}
	return mgl32.Vec3{float32(values[0]), float32(values[1]), float32(values[2])}
}

func index(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
