package render

import "github.com/go-gl/mathgl/mgl32"

// LightType classifies a render light.
type LightType int

const (
	LightPoint LightType = iota
	LightSun
	LightSpot
	LightArea
	LightBackground
)

// String returns the lowercase type name.
func (t LightType) String() string {
	switch t {
	case LightSun:
		return "sun"
	case LightSpot:
		return "spot"
	case LightArea:
		return "area"
	case LightBackground:
		return "background"
	default:
		return "point"
	}
}

// Light is the render entity for one source light. Like Object it tracks a
// modified flag through diffing setters.
type Light struct {
	Name string

	tfm      mgl32.Mat4
	kind     LightType
	strength mgl32.Vec3
	size     float32
	isPortal bool
	randomID uint32

	modified bool
}

// Modified reports whether any field changed since the last ClearModified.
func (l *Light) Modified() bool { return l.modified }

// Transform returns the light's world transform.
func (l *Light) Transform() mgl32.Mat4 { return l.tfm }

// SetTransform stores the world transform.
func (l *Light) SetTransform(tfm mgl32.Mat4) {
	if l.tfm != tfm {
		l.tfm = tfm
		l.modified = true
	}
}

// Type returns the light classification.
func (l *Light) Type() LightType { return l.kind }

// SetType stores the light classification.
func (l *Light) SetType(t LightType) {
	if l.kind != t {
		l.kind = t
		l.modified = true
	}
}

// Strength returns the emission strength.
func (l *Light) Strength() mgl32.Vec3 { return l.strength }

// SetStrength stores the emission strength.
func (l *Light) SetStrength(s mgl32.Vec3) {
	if l.strength != s {
		l.strength = s
		l.modified = true
	}
}

// Size returns the light radius or area extent.
func (l *Light) Size() float32 { return l.size }

// SetSize stores the light radius or area extent.
func (l *Light) SetSize(size float32) {
	if l.size != size {
		l.size = size
		l.modified = true
	}
}

// IsPortal reports whether the light acts as a background light portal.
func (l *Light) IsPortal() bool { return l.isPortal }

// SetIsPortal stores the portal flag.
func (l *Light) SetIsPortal(v bool) {
	if l.isPortal != v {
		l.isPortal = v
		l.modified = true
	}
}

// RandomID returns the per-light random id.
func (l *Light) RandomID() uint32 { return l.randomID }

// SetRandomID stores the per-light random id.
func (l *Light) SetRandomID(id uint32) {
	if l.randomID != id {
		l.randomID = id
		l.modified = true
	}
}

// TagUpdate reports this light's pending changes to the scene.
func (l *Light) TagUpdate(s *Scene) {
	s.TagUpdate(UpdateLight)
}
