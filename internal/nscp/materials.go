package nscp

import "math"

// NSCP 2015 material constants used to fill in missing elastic properties

const (
	// Modulus of elasticity for steel (Section 420.2.2)
	Es = 200000.0 // MPa

	// Normalweight concrete unit weight assumed by the Ec formula
	ConcreteDensity = 2380.0 // kg/m³

	// Poisson's ratio of concrete used for shear modulus
	ConcreteNu = 0.15

	// Specified compressive strength assumed when none is given
	DefaultFc = 28.0 // MPa
)

// Ec calculates the modulus of elasticity of normalweight concrete
// NSCP 2015 Section 419.2.2.1
func Ec(fc float64) float64 {
	if fc <= 0 {
		fc = DefaultFc
	}
	// Ec = 4700√f'c
	return 4700 * math.Sqrt(fc)
}
