package sync_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/engine/sync"
)

func TestIDMapLifecycle(t *testing.T) {
	m := sync.NewIDMap[string, int]()

	v, created, err := m.AddOrUpdate("a", func() (int, error) { return 1, nil })
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, v)

	v, created, err = m.AddOrUpdate("a", func() (int, error) { return 99, nil })
	require.NoError(t, err)
	assert.False(t, created, "a second lookup reuses the stored value")
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, m.Len())
}

func TestIDMapSweepReleasesUnseen(t *testing.T) {
	m := sync.NewIDMap[string, int]()
	m.AddOrUpdate("keep", func() (int, error) { return 1, nil })
	m.AddOrUpdate("drop", func() (int, error) { return 2, nil })

	m.PreSync()
	m.AddOrUpdate("keep", func() (int, error) { return 0, nil })

	var released []int
	removed := m.PostSync(func(v int) { released = append(released, v) })

	assert.Equal(t, 1, removed)
	assert.Equal(t, []int{2}, released)
	assert.Equal(t, 1, m.Len())

	_, found := m.Find("drop")
	assert.False(t, found)
	_, found = m.Find("keep")
	assert.True(t, found)
}

func TestIDMapFindDoesNotMarkSeen(t *testing.T) {
	m := sync.NewIDMap[string, int]()
	m.AddOrUpdate("x", func() (int, error) { return 1, nil })

	m.PreSync()
	_, found := m.Find("x")
	require.True(t, found)

	removed := m.PostSync(nil)
	assert.Equal(t, 1, removed, "Find is a read, not a visit")
}

func TestIDMapCreateFailure(t *testing.T) {
	m := sync.NewIDMap[string, int]()
	boom := errors.New("boom")

	_, _, err := m.AddOrUpdate("x", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len(), "a failed create leaves no entry behind")
}
