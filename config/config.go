package config

import (
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

type Config struct {
	Session *SessionConfigBlock  `hcl:"session,block"`
	Camera  *CameraConfigBlock   `hcl:"camera,block"`
	Layer   *LayerConfigBlock    `hcl:"layer,block"`
	Objects []*ObjectConfigBlock `hcl:"object,block"`
}

type SessionConfigBlock struct {
	Workers        int     `hcl:"workers,optional"`
	ShowLights     *bool   `hcl:"show_lights,optional"`
	Motion         string  `hcl:"motion,optional"` // none, pass, blur
	Shutter        float64 `hcl:"shutter,optional"`
	MotionPosition string  `hcl:"motion_position,optional"` // center, start, end
	MaxMotionSteps int     `hcl:"max_motion_steps,optional"`
	CullMargin     float64 `hcl:"cull_margin,optional"` // 0 disables culling
	FrameStart     int     `hcl:"frame_start,optional"`
	FrameEnd       int     `hcl:"frame_end,optional"`
	FPS            float64 `hcl:"fps,optional"`
	Profile        bool    `hcl:"profile,optional"`
}

type CameraConfigBlock struct {
	Position []float64 `hcl:"position,optional"`
	Target   []float64 `hcl:"target,optional"`
	Fov      float64   `hcl:"fov,optional"` // degrees
	Aspect   float64   `hcl:"aspect,optional"`
	Near     float64   `hcl:"near,optional"`
	Far      float64   `hcl:"far,optional"`
}

type LayerConfigBlock struct {
	Holdout      []string `hcl:"holdout,optional"`
	IndirectOnly []string `hcl:"indirect_only,optional"`
}

type ObjectConfigBlock struct {
	Name string `hcl:"name,label"`

	Kind     string    `hcl:"kind,optional"` // mesh, curve, metaball, volume, pointcloud, light, empty
	Position []float64 `hcl:"position,optional"`
	Rotation []float64 `hcl:"rotation,optional"` // degrees
	Scale    []float64 `hcl:"scale,optional"`
	Parent   string    `hcl:"parent,optional"`

	PassIndex      int       `hcl:"pass_index,optional"`
	Color          []float64 `hcl:"color,optional"`
	Hidden         []string  `hcl:"hidden,optional"` // ray categories: camera, diffuse, glossy, transmission, shadow, scatter
	Holdout        bool      `hcl:"holdout,optional"`
	ShadowCatcher  bool      `hcl:"shadow_catcher,optional"`
	Viewport       *bool     `hcl:"viewport,optional"`
	MotionSteps    int       `hcl:"motion_steps,optional"` // 0 disables motion blur
	DeformMotion   *bool     `hcl:"deform_motion,optional"`
	BoundingRadius float64   `hcl:"bounding_radius,optional"`

	Properties map[string]float64 `hcl:"properties,optional"`

	Instancers []*InstancerConfigBlock `hcl:"instancer,block"`
}

type InstancerConfigBlock struct {
	Object string `hcl:"object"`
	Count  int    `hcl:"count"`
	Hair   bool   `hcl:"hair,optional"`
}

func newHCLEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"pi": cty.NumberFloatVal(math.Pi),
		},
		Functions: map[string]function.Function{},
	}
}

// Load reads and decodes a session description from an HCL file.
func Load(path string) (*Config, error) {
	var cfg Config
	evalCtx := newHCLEvalContext()
	err := hclsimple.DecodeFile(path, evalCtx, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadBytes decodes a session description from in-memory HCL source. The
// filename only labels diagnostics and must end in .hcl.
func LoadBytes(filename string, src []byte) (*Config, error) {
	var cfg Config
	evalCtx := newHCLEvalContext()
	err := hclsimple.Decode(filename, src, evalCtx, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
