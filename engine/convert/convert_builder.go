package convert

import "github.com/lumen-render/lumen/engine/render"

type BasicBuilderOption func(*basicImpl)

// WithShaders sets the surface and volume shader handles attached to
// converted geometry.
//
// Parameters:
//   - surface: shader handle for mesh, hair, and point cloud geometry
//   - volume: shader handle for volume geometry
//
// Returns:
//   - BasicBuilderOption: functional option to set the shader handles
func WithShaders(surface, volume render.ShaderHandle) BasicBuilderOption {
	return func(c *basicImpl) {
		c.surface = surface
		c.volume = volume
	}
}

// WithStrands sets the hair strand generation parameters.
//
// Parameters:
//   - count: number of strands per object
//   - keys: curve keys per strand, at least 2
//
// Returns:
//   - BasicBuilderOption: functional option to set the strand parameters
func WithStrands(count, keys int) BasicBuilderOption {
	return func(c *basicImpl) {
		c.strandCount = max(1, count)
		c.strandKeys = max(2, keys)
	}
}

// WithNeededAttributes sets the attribute requests attached to every
// converted geometry, standing in for shader dependency analysis.
//
// Parameters:
//   - reqs: the attribute requests
//
// Returns:
//   - BasicBuilderOption: functional option to set the attribute requests
func WithNeededAttributes(reqs []render.AttributeRequest) BasicBuilderOption {
	return func(c *basicImpl) {
		c.needed = reqs
	}
}
