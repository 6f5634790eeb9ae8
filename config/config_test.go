package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/config"
	"github.com/lumen-render/lumen/engine/convert"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
	"github.com/lumen-render/lumen/engine/sync"
)

const sampleConfig = `
session {
  workers     = 2
  show_lights = true
  motion      = "blur"
  shutter     = 0.5
  frame_start = 1
  frame_end   = 12
}

camera {
  position = [0, 2, 8]
  fov      = 50
  aspect   = 1.5
}

object "ground" {
  kind           = "mesh"
  scale          = [10, 0.1, 10]
  shadow_catcher = true
}

object "hero" {
  kind         = "mesh"
  position     = [0, 1, 0]
  color        = [0.9, 0.2, 0.1]
  pass_index   = 1
  motion_steps = 1
  hidden       = ["shadow"]

  properties = {
    density = 0.5
  }
}

object "leaf" {
  kind            = "mesh"
  bounding_radius = 0.2
}

object "tree" {
  kind     = "mesh"
  position = [4, 0, -2]

  instancer {
    object = "leaf"
    count  = 8
  }
}

object "lamp" {
  kind     = "light"
  position = [5, 8, 5]

  properties = {
    light_type = 2
    strength   = 40
  }
}

layer {
  holdout = ["ground"]
}
`

func loadSample(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadBytes("sample.hcl", []byte(sampleConfig))
	require.NoError(t, err)
	return cfg
}

func TestLoadRejectsMalformedSource(t *testing.T) {
	_, err := config.LoadBytes("bad.hcl", []byte(`object "x" { kind = `))
	assert.Error(t, err)
}

func TestBuildSceneObjects(t *testing.T) {
	cfg := loadSample(t)
	scene, err := cfg.BuildScene()
	require.NoError(t, err)

	instances := scene.Instances()
	// five authored objects plus eight generated leaf instances; the camera
	// is not enumerated
	assert.Len(t, instances, 13)
	require.NotNil(t, scene.Camera())
}

func TestBuildSceneUnknownReferences(t *testing.T) {
	for name, src := range map[string]string{
		"parent": `object "a" { parent = "ghost" }`,
		"instancer": `
object "a" {
  instancer {
    object = "ghost"
    count  = 1
  }
}
`,
		"layer": `
object "a" {}
layer { holdout = ["ghost"] }
`,
		"kind":   `object "a" { kind = "tetrahedron" }`,
		"hidden": `object "a" { hidden = ["xray"] }`,
	} {
		cfg, err := config.LoadBytes(name+".hcl", []byte(src))
		require.NoError(t, err, name)
		_, err = cfg.BuildScene()
		assert.Error(t, err, name)
	}
}

func TestConfiguredSceneSyncs(t *testing.T) {
	cfg := loadSample(t)
	scene, err := cfg.BuildScene()
	require.NoError(t, err)
	options, err := cfg.SyncOptions(scene)
	require.NoError(t, err)

	target := render.NewScene()
	syncer := sync.New(scene, target, convert.NewBasic(
		convert.WithShaders(target.DefaultSurface, target.DefaultVolume),
	), options...)
	require.NoError(t, syncer.Sync())

	// ground, hero, leaf, tree, and eight leaf instances
	assert.Len(t, target.Objects(), 12)
	require.Len(t, target.Lights(), 1)
	assert.Equal(t, render.LightSpot, target.Lights()[0].Type())

	var ground, hero *render.Object
	for _, ob := range target.Objects() {
		switch ob.Name {
		case "ground":
			ground = ob
		case "hero":
			hero = ob
		}
	}
	require.NotNil(t, ground)
	require.NotNil(t, hero)

	assert.True(t, ground.Holdout(), "the layer block marks ground as holdout")
	assert.True(t, ground.ShadowCatcher())
	assert.Equal(t, 1, hero.PassID())
	assert.Zero(t, hero.Visibility()&render.PathRayShadow)
	assert.NotZero(t, hero.Visibility()&render.PathRayCamera)

	// hero has motion blur configured; with the blur session mode it
	// carries the minimum three samples
	assert.Len(t, hero.Motion(), 3)
}

func TestSyncOptionsRejectsUnknownMotion(t *testing.T) {
	cfg, err := config.LoadBytes("m.hcl", []byte(`session { motion = "wiggle" }`))
	require.NoError(t, err)
	_, err = cfg.SyncOptions(host.NewMemScene())
	assert.Error(t, err)
}
