package sync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/convert"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
	"github.com/lumen-render/lumen/engine/sync"
)

func newAttributeSyncer(scene *host.MemScene, requests []render.AttributeRequest) (*sync.Syncer, *render.Scene) {
	target := render.NewScene()
	converter := convert.NewBasic(
		convert.WithShaders(target.DefaultSurface, target.DefaultVolume),
		convert.WithNeededAttributes(requests),
	)
	return sync.New(scene, target, converter, sync.WithFrameSetter(scene)), target
}

func TestAttributeResolvesFromObject(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetProperty(`["density"]`, common.MakeFloat4Scalar(1.5))

	syncer, target := newAttributeSyncer(scene, []render.AttributeRequest{
		{Name: "density", Kind: render.AttributeObject},
	})
	require.NoError(t, syncer.Sync())

	attr := target.Objects()[0].FindAttribute("density")
	require.NotNil(t, attr)
	assert.Equal(t, common.MakeFloat4Scalar(1.5), attr.Value)
	assert.Zero(t, syncer.Stats().UnresolvedAttributes)
}

func TestAttributeIndexedFormWinsOverLiteral(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetProperty("density", common.MakeFloat4Scalar(1))
	cube.SetProperty(`["density"]`, common.MakeFloat4Scalar(2))

	syncer, target := newAttributeSyncer(scene, []render.AttributeRequest{
		{Name: "density", Kind: render.AttributeObject},
	})
	require.NoError(t, syncer.Sync())

	attr := target.Objects()[0].FindAttribute("density")
	require.NotNil(t, attr)
	assert.Equal(t, common.MakeFloat4Scalar(2), attr.Value)
}

func TestAttributeFallsBackToData(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetDataProperty("density", common.MakeFloat4Scalar(3))

	syncer, target := newAttributeSyncer(scene, []render.AttributeRequest{
		{Name: "density", Kind: render.AttributeObject},
	})
	require.NoError(t, syncer.Sync())

	attr := target.Objects()[0].FindAttribute("density")
	require.NotNil(t, attr)
	assert.Equal(t, common.MakeFloat4Scalar(3), attr.Value)
}

func TestAttributeInstancerScopeReadsSettings(t *testing.T) {
	scene := host.NewMemScene()
	emitter := scene.NewObject("emitter", host.KindMesh)
	leaf := scene.NewObject("leaf", host.KindMesh)
	leaf.SetProperty(`["fur"]`, common.MakeFloat4Scalar(1))
	psys := scene.AddInstancer(emitter, leaf, 2)
	psys.SettingsData().SetProperty(`["fur"]`, common.MakeFloat4Scalar(9))

	syncer, target := newAttributeSyncer(scene, []render.AttributeRequest{
		{Name: "fur", Kind: render.AttributeInstancer},
	})
	require.NoError(t, syncer.Sync())

	for _, ob := range target.Objects() {
		attr := ob.FindAttribute("fur")
		require.NotNil(t, attr, "%s carries the requested attribute", ob.Name)
		switch {
		case ob.ParticleSystem() != nil:
			assert.Equal(t, common.MakeFloat4Scalar(9), attr.Value,
				"instances read the particle settings first")
		case ob.Name == "leaf":
			assert.Equal(t, common.MakeFloat4Scalar(1), attr.Value,
				"non-instances fall through to the object chain")
		default:
			assert.Equal(t, common.Zero4, attr.Value,
				"the emitter resolves nothing and stores the zero vector")
		}
	}
}

// stalledBuildConverter delays the pooled buffer build so the driving
// thread's attribute reconciliation runs strictly before the buffers exist.
type stalledBuildConverter struct {
	sync.Converter
}

func (c stalledBuildConverter) ConvertGeometry(ob host.Object, geom *render.Geometry, hair bool) error {
	time.Sleep(30 * time.Millisecond)
	return c.Converter.ConvertGeometry(ob, geom, hair)
}

func TestAttributeResolvesInConvertingPass(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetProperty(`["density"]`, common.MakeFloat4Scalar(1.5))

	target := render.NewScene()
	converter := stalledBuildConverter{convert.NewBasic(
		convert.WithShaders(target.DefaultSurface, target.DefaultVolume),
		convert.WithNeededAttributes([]render.AttributeRequest{
			{Name: "density", Kind: render.AttributeObject},
		}),
	)}
	syncer := sync.New(scene, target, converter, sync.WithFrameSetter(scene))
	require.NoError(t, syncer.Sync())

	// The set binds before the buffer build is dispatched, so the value is
	// resolved in the same pass that converts the geometry.
	attr := target.Objects()[0].FindAttribute("density")
	require.NotNil(t, attr)
	assert.Equal(t, common.MakeFloat4Scalar(1.5), attr.Value)

	target.ClearModified()
	target.ClearUpdateFlags()
	require.NoError(t, syncer.Sync())
	assert.Zero(t, syncer.Stats().Updated, "the pass after conversion stays quiet")
}

func TestAttributeUnresolvedDefaultsToZero(t *testing.T) {
	scene := host.NewMemScene()
	scene.NewObject("bare", host.KindMesh)

	syncer, target := newAttributeSyncer(scene, []render.AttributeRequest{
		{Name: "missing", Kind: render.AttributeObject},
	})
	require.NoError(t, syncer.Sync())

	attr := target.Objects()[0].FindAttribute("missing")
	require.NotNil(t, attr)
	assert.Equal(t, common.Zero4, attr.Value)
	assert.Equal(t, 1, syncer.Stats().UnresolvedAttributes)
}

func TestAttributeGeometryScopeSkipsObjectResolution(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetProperty(`["uv"]`, common.MakeFloat4Scalar(4))

	syncer, target := newAttributeSyncer(scene, []render.AttributeRequest{
		{Name: "uv", Kind: render.AttributeGeometry},
	})
	require.NoError(t, syncer.Sync())

	assert.Nil(t, target.Objects()[0].FindAttribute("uv"),
		"geometry-baked attributes never materialize on the object")
}

func TestAttributeRewriteOnlyOnValueChange(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetProperty(`["density"]`, common.MakeFloat4Scalar(1))

	syncer, target := newAttributeSyncer(scene, []render.AttributeRequest{
		{Name: "density", Kind: render.AttributeObject},
	})
	require.NoError(t, syncer.Sync())

	target.ClearModified()
	target.ClearUpdateFlags()
	before := target.UpdateCount()
	require.NoError(t, syncer.Sync())
	assert.Equal(t, before, target.UpdateCount(), "unchanged values do not re-tag")

	cube.SetProperty(`["density"]`, common.MakeFloat4Scalar(2))
	require.NoError(t, syncer.Sync())
	assert.Equal(t, 1, syncer.Stats().Updated)
	attr := target.Objects()[0].FindAttribute("density")
	require.NotNil(t, attr)
	assert.Equal(t, common.MakeFloat4Scalar(2), attr.Value)
}

func TestAttributeStaleNamesRemoved(t *testing.T) {
	scene := host.NewMemScene()
	cube := scene.NewObject("cube", host.KindMesh)
	cube.SetProperty(`["old"]`, common.MakeFloat4Scalar(1))

	target := render.NewScene()
	converter := convert.NewBasic(
		convert.WithShaders(target.DefaultSurface, target.DefaultVolume),
		convert.WithNeededAttributes([]render.AttributeRequest{
			{Name: "old", Kind: render.AttributeObject},
		}),
	)
	syncer := sync.New(scene, target, converter, sync.WithFrameSetter(scene))
	require.NoError(t, syncer.Sync())
	require.NotNil(t, target.Objects()[0].FindAttribute("old"))

	// The object's own attribute list seeds the next reconcile; with the
	// needed set emptied, the stored value must disappear.
	ob := target.Objects()[0]
	ob.Geometry().SetNeededAttributes(nil)
	target.ClearModified()
	require.NoError(t, syncer.Sync())
	assert.Nil(t, ob.FindAttribute("old"))
	assert.Equal(t, 1, syncer.Stats().Updated)
}
