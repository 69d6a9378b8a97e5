// levels.go -- cascade level geometry
//
// (c) Sudhi Herle 2018
//
// License GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

import "math"

const (
	// totalLevels is the fixed number of conceptual cascade levels, L.
	// The last of these is never backed by a bitvector: any key that
	// survives every real level falls through to the fallback map.
	totalLevels = 25

	// cascadeLevels is the number of levels that actually get a
	// bitvector built and persisted.
	cascadeLevels = totalLevels - 1
)

// collisionProbability estimates p, the probability that a given key
// shares its slot in a gamma*n-bit domain with at least one of the other
// n-1 keys. This is the
// ratio by which each successive level's key population is expected to
// shrink.
func collisionProbability(n uint64, gamma float64) float64 {
	if n <= 1 {
		return 0
	}
	gn := gamma * float64(n)
	return 1.0 - math.Pow((gn-1)/gn, float64(n-1))
}

// hashDomainSize returns level i's bitvector size in bits: baseDomain
// shrunk geometrically by p^i, then rounded up to a multiple of 64 (and
// never smaller than 64, so a single-word bitvector is always valid).
func hashDomainSize(baseDomain uint64, p float64, i int) uint64 {
	d := float64(baseDomain) * math.Pow(p, float64(i))
	domain := uint64(math.Ceil(d))
	domain = (domain + 63) / 64 * 64
	if domain == 0 {
		domain = 64
	}
	return domain
}

// fastModeLevel returns the smallest level index at which the expected
// surviving population falls below rho * n, or -1 if rho is 0 (fast
// mode disabled) or no such level exists within the cascade.
func fastModeLevel(p float64, rho float64) int {
	if rho <= 0 {
		return -1
	}
	for i := 0; i < cascadeLevels; i++ {
		if math.Pow(p, float64(i)) < rho {
			return i
		}
	}
	return -1
}
