package core

import (
	"errors"
	"math/rand"
)

// MaxRejectionAttempts bounds the rejection sampling loops. With a uniform
// sampler the expected number of draws is below two.
const MaxRejectionAttempts = 1000

// ErrRejectionSamplingExhausted is the panic value raised when a rejection
// sampler never lands inside its shape. It signals a broken Sampler.
var ErrRejectionSamplingExhausted = errors.New("rejection sampling exhausted")

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float32
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; give each goroutine its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler from a fixed seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float32 in [0, 1)
func (r *RandomSampler) Get1D() float32 {
	return r.random.Float32()
}

// Get2D returns two random float32 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float32(), r.random.Float32())
}

// Get3D returns three random float32 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float32(), r.random.Float32(), r.random.Float32())
}

// RandomInUnitSphere draws points in the [-1,1]³ cube until one falls strictly
// inside the unit sphere.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for i := 0; i < MaxRejectionAttempts; i++ {
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	panic(ErrRejectionSamplingExhausted)
}

// RandomInUnitDisk draws points in the [-1,1]² square (z = 0) until one falls
// strictly inside the unit disk. Used for the depth of field lens.
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for i := 0; i < MaxRejectionAttempts; i++ {
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	panic(ErrRejectionSamplingExhausted)
}
