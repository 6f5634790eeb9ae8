package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-render/lumen/engine/render"
)

func TestLightTypeString(t *testing.T) {
	for kind, want := range map[render.LightType]string{
		render.LightPoint:      "point",
		render.LightSun:        "sun",
		render.LightSpot:       "spot",
		render.LightArea:       "area",
		render.LightBackground: "background",
	} {
		assert.Equal(t, want, kind.String())
	}
}

func TestLightSetterDiffing(t *testing.T) {
	s := render.NewScene()
	l := s.CreateLight("lamp")
	s.ClearModified()

	l.SetType(render.LightSpot)
	assert.True(t, l.Modified())

	s.ClearModified()
	l.SetType(render.LightSpot)
	assert.False(t, l.Modified(), "unchanged type does not re-raise modified")
}
