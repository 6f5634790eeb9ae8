package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/engine"
	"github.com/lumen-render/lumen/engine/convert"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
	"github.com/lumen-render/lumen/engine/sync"
)

func newSession(scene *host.MemScene, options ...engine.SessionBuilderOption) (engine.Session, *render.Scene) {
	target := render.NewScene()
	converter := convert.NewBasic(
		convert.WithShaders(target.DefaultSurface, target.DefaultVolume),
	)
	syncer := sync.New(scene, target, converter, sync.WithFrameSetter(scene))
	return engine.NewSession(syncer, scene, options...), target
}

func TestSessionSyncFrame(t *testing.T) {
	scene := host.NewMemScene()
	scene.NewObject("cube", host.KindMesh)

	session, target := newSession(scene)
	stats, err := session.SyncFrame(1, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Objects)
	assert.Equal(t, 1, stats.GeometryConversions)
	assert.Len(t, target.Objects(), 1)
}

func TestSessionSecondFrameOfStaticSceneIsFree(t *testing.T) {
	scene := host.NewMemScene()
	scene.NewObject("cube", host.KindMesh)

	session, target := newSession(scene)
	_, err := session.SyncFrame(1, 0)
	require.NoError(t, err)

	// SyncFrame consumes the change flags, so an unchanged scene costs no
	// re-tag and no re-conversion on the next frame.
	stats, err := session.SyncFrame(2, 0)
	require.NoError(t, err)
	assert.Zero(t, stats.Updated)
	assert.Zero(t, stats.GeometryConversions)
	assert.Equal(t, render.UpdateFlag(0), target.UpdateFlags())
}

func TestSessionRunPlaysFrameRange(t *testing.T) {
	scene := host.NewMemScene()
	scene.NewObject("cube", host.KindMesh)

	var frames []int
	session, _ := newSession(scene,
		engine.WithFrameRange(1, 3),
		engine.WithTickRate(1000),
		engine.WithFrameCallback(func(frame int, stats sync.Stats) {
			frames = append(frames, frame)
		}),
	)
	require.NoError(t, session.Run())
	assert.Equal(t, []int{1, 2, 3}, frames)
}
