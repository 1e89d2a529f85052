package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// HitRecord contains information about a ray-object intersection.
// Normal is unit length and points away from the surface center; it is not
// flipped towards the incoming ray. Materials decide which side they are on.
type HitRecord struct {
	T        float32  // Parameter t along the ray
	Point    Vec3     // Point of intersection
	Normal   Vec3     // Outward surface normal
	Material Material // Material of the hit object
}

// Hittable is anything a ray can intersect.
// Hit returns the closest intersection with t strictly inside (tMin, tMax).
type Hittable interface {
	Hit(ray Ray, tMin, tMax float32) (*HitRecord, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// Material interface for objects that can scatter rays.
// A false return means the ray was absorbed.
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// Camera generates primary rays for image-plane fractions (s, t) in [0, 1]
type Camera interface {
	GetRay(s, t float32, sampler Sampler) Ray
}

// Integrator computes the radiance arriving along a camera ray
type Integrator interface {
	RayColor(ray Ray, world Hittable, sampler Sampler) Vec3
}
