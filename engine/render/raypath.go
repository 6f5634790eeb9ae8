package render

// Ray visibility bits. An entity's visibility mask is the set of ray types
// that may hit it; a zero mask means the entity is not in the render scene's
// traversal at all.
const (
	PathRayCamera uint32 = 1 << iota
	PathRayDiffuse
	PathRayGlossy
	PathRayTransmission
	PathRayVolumeScatter
	PathRayShadow
)

// PathRayAllVisibility is the union of every visibility kind.
const PathRayAllVisibility = PathRayCamera | PathRayDiffuse | PathRayGlossy |
	PathRayTransmission | PathRayVolumeScatter | PathRayShadow
