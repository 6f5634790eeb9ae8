// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "fmt"

// Float4 is a 4-component float value. Resolved object attributes are always
// carried as Float4 values regardless of the source property's arity.
type Float4 [4]float32

// MakeFloat4 builds a Float4 from its components.
func MakeFloat4(x, y, z, w float32) Float4 {
	return Float4{x, y, z, w}
}

// MakeFloat4Scalar broadcasts a scalar into the first three components with a
// 1.0 fourth component, matching how scalar properties promote to attribute
// values.
func MakeFloat4Scalar(v float32) Float4 {
	return Float4{v, v, v, 1.0}
}

// Zero4 is the defined default for attribute lookups that resolve nothing.
var Zero4 = Float4{0, 0, 0, 0}

// String returns a compact display form, used by the CLI inspect output.
func (f Float4) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", f[0], f[1], f[2], f[3])
}
